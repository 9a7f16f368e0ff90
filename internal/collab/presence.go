package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks the cursor, selected shape and mode of every
// user in a room.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

// Update merges p into the user's presence. Unset fields keep their
// previous value. It returns the merged presence.
func (pm *PresenceManager) Update(userID string, p PresencePayload) PresencePayload {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	cur, ok := pm.presences[userID]
	if !ok {
		cur = &PresencePayload{}
		pm.presences[userID] = cur
	}
	if p.Cursor != nil {
		cur.Cursor = p.Cursor
	}
	if p.Selection != nil {
		cur.Selection = p.Selection
		if *p.Selection < 0 {
			cur.Selection = nil
		}
	}
	if p.Mode != "" {
		cur.Mode = p.Mode
	}
	if p.DisplayName != "" {
		cur.DisplayName = p.DisplayName
	}
	return *cur
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, userID)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	result := make(map[string]*PresencePayload, len(pm.presences))
	for userID, p := range pm.presences {
		copied := *p
		result[userID] = &copied
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
