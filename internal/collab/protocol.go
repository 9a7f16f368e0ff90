package collab

import (
	"encoding/json"

	"github.com/inamate/drawkit/internal/document"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   *int       `json:"selection,omitempty"` // shape index
	Mode        string     `json:"mode,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types.
const (
	// OpDrawingReplace swaps the whole markup, e.g. after a local edit
	// session or an import.
	OpDrawingReplace = "drawing.replace"
	// OpShapeExec selects a shape and runs a toolbar command on it.
	OpShapeExec     = "shape.exec"
	OpDrawingRename = "drawing.rename"
)

// WelcomePayload is sent to a client right after it joins.
type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
	ReadOnly bool   `json:"readOnly"`
}

// DocSyncPayload carries the authoritative document.
type DocSyncPayload struct {
	Document  *document.Document `json:"document"`
	ServerSeq int64              `json:"serverSeq"`
}

// --- Operation Types ---

// Operation is a drawing mutation. BaseSeq is the server sequence the
// client last saw; markup-changing operations built on an older state
// are rejected.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`
	BaseSeq   int64  `json:"baseSeq"`

	// For drawing.replace
	Markup string `json:"markup,omitempty"`

	// For shape.exec
	Index   *int   `json:"index,omitempty"`
	Command string `json:"command,omitempty"`
	Arg     string `json:"arg,omitempty"`

	// For drawing.rename
	Name         string `json:"name,omitempty"`
	PreviousName string `json:"previousName,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
	Markup          string `json:"markup,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
	ServerSeq   int64  `json:"serverSeq"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages.
// Markup is the drawing after the operation.
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
	Markup    string    `json:"markup"`
}
