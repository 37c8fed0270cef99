// Package dnd implements the drag-and-drop status transfer handshake. A
// transfer payload is built on drag-start, carried by the client for the
// lifetime of the gesture and handed back on drop; the record id keyed as
// text/plain is the only datum that crosses the drag boundary.
package dnd

import (
	"strings"
	"sync"

	"project-board/domain"
)

// MediaTypeText keys the record id inside a transfer payload. The format is
// part of the wire contract and must survive substrate changes.
const MediaTypeText = "text/plain"

// EffectMove is the allowed-effect hint set on drag-start. It is advisory to
// the presentation layer; nothing in the protocol reads it back.
const EffectMove = "move"

// Payload is the transfer medium for one gesture.
type Payload struct {
	data   map[string]string
	effect string
}

// NewPayload creates an empty transfer payload.
func NewPayload() *Payload {
	return &Payload{data: make(map[string]string)}
}

// SetData stores value under the given media type. Media type parameters
// such as charset are ignored.
func (p *Payload) SetData(mediaType, value string) {
	p.data[normalizeMediaType(mediaType)] = value
}

// Data returns the value stored under the given media type.
func (p *Payload) Data(mediaType string) string {
	return p.data[normalizeMediaType(mediaType)]
}

// Has reports whether the payload declares the given media type.
func (p *Payload) Has(mediaType string) bool {
	_, ok := p.data[normalizeMediaType(mediaType)]
	return ok
}

// SetEffect records the allowed drag effect.
func (p *Payload) SetEffect(effect string) { p.effect = effect }

// Effect returns the allowed drag effect.
func (p *Payload) Effect() string { return p.effect }

func normalizeMediaType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// StartDrag writes the dragged project's identity into the payload and marks
// the gesture as a move.
func StartDrag(p domain.Project, pl *Payload) {
	pl.SetData(MediaTypeText, p.ID)
	pl.SetEffect(EffectMove)
}

// Mover is the single store capability a drop target needs.
type Mover interface {
	Move(id string, status domain.Status)
}

// DropTarget is one list's receiving end of the handshake, permanently bound
// to the status it confers on dropped records.
type DropTarget struct {
	board  Mover
	status domain.Status

	mu        sync.Mutex
	droppable bool
}

// NewDropTarget binds a target to the given status.
func NewDropTarget(board Mover, status domain.Status) *DropTarget {
	return &DropTarget{board: board, status: status}
}

// Status returns the status this target is bound to.
func (t *DropTarget) Status() domain.Status { return t.status }

// DragOver probes whether the hovering payload is acceptable. A payload
// declaring text/plain marks the target droppable and returns true; anything
// else is rejected. The probe never touches the store.
func (t *DropTarget) DragOver(pl *Payload) bool {
	if pl == nil || !pl.Has(MediaTypeText) {
		return false
	}
	t.mu.Lock()
	t.droppable = true
	t.mu.Unlock()
	return true
}

// DragLeave clears the droppable marker. Cosmetic only.
func (t *DropTarget) DragLeave() {
	t.mu.Lock()
	t.droppable = false
	t.mu.Unlock()
}

// Droppable reports the transient visual state.
func (t *DropTarget) Droppable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.droppable
}

// Drop completes the gesture: the id travels out of the payload and into a
// move request. An unknown or empty id falls through to the store's silent
// no-op rule.
func (t *DropTarget) Drop(pl *Payload) {
	t.mu.Lock()
	t.droppable = false
	t.mu.Unlock()
	if pl == nil {
		return
	}
	id := pl.Data(MediaTypeText)
	if id == "" {
		return
	}
	t.board.Move(id, t.status)
}
