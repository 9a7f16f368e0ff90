package collab

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/inamate/drawkit/internal/canvas"
	"github.com/inamate/drawkit/internal/document"
)

var (
	ErrStale            = errors.New("operation based on a stale drawing")
	ErrUnknownOperation = errors.New("unknown operation type")
	ErrBadIndex         = errors.New("shape index out of range")
	ErrNotAllowed       = errors.New("command not allowed")
)

// DocumentState holds the authoritative drawing of a room.
type DocumentState struct {
	mu        sync.RWMutex
	doc       *document.Document
	serverSeq int64
	dirty     bool
}

func NewDocumentState(doc *document.Document) *DocumentState {
	return &DocumentState{doc: doc}
}

// Snapshot returns a copy of the current document and its sequence.
func (ds *DocumentState) Snapshot() (*document.Document, int64) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	doc := *ds.doc
	return &doc, ds.serverSeq
}

// TakeDirty returns a copy of the document when it changed since the
// last call, and clears the flag.
func (ds *DocumentState) TakeDirty() (*document.Document, bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if !ds.dirty {
		return nil, false
	}
	ds.dirty = false
	doc := *ds.doc
	return &doc, true
}

// MarkDirty flags the document for the next save, e.g. after a failed
// one.
func (ds *DocumentState) MarkDirty() {
	ds.mu.Lock()
	ds.dirty = true
	ds.mu.Unlock()
}

// ApplyOperation applies op and returns the new server sequence and the
// resulting markup.
func (ds *DocumentState) ApplyOperation(op Operation) (int64, string, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if op.Type != OpDrawingRename && op.BaseSeq != ds.serverSeq {
		return ds.serverSeq, "", ErrStale
	}
	if err := ds.applyOperationLocked(op); err != nil {
		return ds.serverSeq, "", err
	}

	ds.serverSeq++
	ds.dirty = true
	ds.doc.Drawing.Version++
	ds.doc.Drawing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return ds.serverSeq, ds.doc.Markup, nil
}

// applyOperationLocked applies the operation without locking (caller must hold lock)
func (ds *DocumentState) applyOperationLocked(op Operation) error {
	switch op.Type {
	case OpDrawingReplace:
		return ds.applyReplace(op)
	case OpShapeExec:
		return ds.applyExec(op)
	case OpDrawingRename:
		return ds.applyRename(op)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
}

func (ds *DocumentState) size() (float64, float64) {
	w, h := ds.doc.Drawing.Width, ds.doc.Drawing.Height
	if w <= 0 || h <= 0 {
		w, h = document.DefaultWidth, document.DefaultHeight
	}
	return float64(w), float64(h)
}

func (ds *DocumentState) applyReplace(op Operation) error {
	w, h := ds.size()
	markup, err := document.Normalize(op.Markup, w, h)
	if err != nil {
		return err
	}
	ds.doc.Markup = markup
	return nil
}

func (ds *DocumentState) applyExec(op Operation) error {
	cmd := canvas.Command(strings.ToUpper(op.Command))
	if cmd == canvas.CmdSetMode {
		return fmt.Errorf("%w: %s", ErrNotAllowed, cmd)
	}

	w, h := ds.size()
	c, _, err := document.Open(ds.doc.Markup, w, h)
	if err != nil {
		return err
	}
	if op.Index != nil {
		if *op.Index < 0 || *op.Index >= c.ShapeCount() {
			return fmt.Errorf("%w: %d", ErrBadIndex, *op.Index)
		}
		c.SetCurrentShapeIndex(*op.Index)
	}
	if err := c.Exec(cmd, op.Arg); err != nil {
		return err
	}

	markup, err := c.ExportString()
	if err != nil {
		return err
	}
	ds.doc.Markup = markup
	return nil
}

func (ds *DocumentState) applyRename(op Operation) error {
	name := strings.TrimSpace(op.Name)
	if name == "" {
		return errors.New("name is required")
	}
	ds.doc.Drawing.Name = name
	return nil
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
