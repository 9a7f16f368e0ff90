// Package collab runs realtime drawing rooms over websockets: presence,
// operations applied to the authoritative drawing, and periodic saves.
package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/typeid"
)

// DefaultSaveInterval is how often dirty drawings are saved.
const DefaultSaveInterval = 30 * time.Second

// Loader fetches the latest drawing for a new room.
type Loader func(ctx context.Context, drawingID string) (*document.Document, error)

// Saver persists a changed drawing.
type Saver func(ctx context.Context, doc *document.Document) error

type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	state     *DocumentState
}

func NewRoom(doc *document.Document) *Room {
	return &Room{
		drawingID: doc.Drawing.ID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     NewDocumentState(doc),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	load         Loader
	save         Saver
	saveInterval time.Duration
	log          *slog.Logger
}

type HubOption func(*Hub)

func WithSaveInterval(d time.Duration) HubOption {
	return func(h *Hub) { h.saveInterval = d }
}

func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) { h.log = l }
}

func NewHub(load Loader, save Saver, opts ...HubOption) *Hub {
	h := &Hub{
		rooms:        make(map[string]*Room),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		load:         load,
		save:         save,
		saveInterval: DefaultSaveInterval,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run serves registrations and saves dirty drawings until Stop.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirty(context.Background())
		case <-h.done:
			return
		}
	}
}

// Stop ends Run and saves every dirty drawing.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.saveDirty(context.Background())
	})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// room returns the drawing's room, loading the drawing when no room is
// open yet.
func (h *Hub) room(drawingID string) (*Room, error) {
	h.mu.RLock()
	room, ok := h.rooms[drawingID]
	h.mu.RUnlock()
	if ok {
		return room, nil
	}

	doc, err := h.load(context.Background(), drawingID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("drawing not found")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[drawingID]; ok {
		return room, nil
	}
	room = NewRoom(doc)
	h.rooms[drawingID] = room
	return room, nil
}

func (h *Hub) addClient(client *Client) {
	room, err := h.room(client.DrawingID)
	if err != nil {
		h.log.Error("load drawing", "drawing", client.DrawingID, "error", err)
		client.SendError("could not load drawing")
		client.close()
		return
	}

	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	client.SendPayload(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
		ReadOnly: client.ReadOnly,
	})
	h.sendDocument(client, room)

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.DrawingID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	h.log.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.DrawingID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(context.Background(), room)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	h.broadcastToRoom(client.DrawingID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	h.log.Info("client left", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	case TypeDocSync:
		if room := h.lookup(sender.DrawingID); room != nil {
			h.sendDocument(sender, room)
		}
	default:
		h.log.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.SendError("unknown message type")
	}
}

func (h *Hub) lookup(drawingID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[drawingID]
}

func (h *Hub) sendDocument(client *Client, room *Room) {
	doc, seq := room.state.Snapshot()
	client.SendPayload(TypeDocSync, DocSyncPayload{Document: doc, ServerSeq: seq})
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		h.log.Warn("invalid presence payload", "error", err)
		return
	}
	presence.DisplayName = sender.DisplayName

	room := h.lookup(sender.DrawingID)
	if room == nil {
		return
	}
	merged := room.presence.Update(sender.UserID, presence)

	outPayload, _ := json.Marshal(merged)
	h.broadcastToRoom(sender.DrawingID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		h.log.Warn("invalid operation payload", "error", err, "user", sender.UserID)
		sender.SendError("invalid operation payload")
		return
	}
	op := submit.Operation
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}

	room := h.lookup(sender.DrawingID)
	if room == nil {
		return
	}
	if sender.ReadOnly {
		sender.SendPayload(TypeOpNack, OperationNackPayload{
			OperationID: op.ID,
			Reason:      "read-only",
		})
		return
	}

	seq, markup, err := room.state.ApplyOperation(op)
	if err != nil {
		h.log.Debug("operation rejected", "op", op.Type, "user", sender.UserID, "error", err)
		sender.SendPayload(TypeOpNack, OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
			ServerSeq:   seq,
		})
		return
	}

	sender.SendPayload(TypeOpAck, OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
		Markup:          markup,
	})

	payload, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
		Markup:    markup,
	})
	h.broadcastToRoom(sender.DrawingID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Seq:     seq,
		Payload: payload,
	}, sender.ClientID)
}

func (h *Hub) broadcastToRoom(drawingID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[drawingID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) saveDirty(ctx context.Context) {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(ctx, r)
	}
}

func (h *Hub) saveRoom(ctx context.Context, room *Room) {
	doc, dirty := room.state.TakeDirty()
	if !dirty {
		return
	}
	if err := h.save(ctx, doc); err != nil {
		h.log.Error("save drawing", "drawing", room.drawingID, "error", err)
		room.state.MarkDirty()
		return
	}
	h.log.Info("drawing saved", "drawing", room.drawingID, "version", doc.Drawing.Version)
}
