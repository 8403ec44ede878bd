package net

import (
	"github.com/skelrealm/server/internal/net/packet"
	"go.uber.org/zap"
)

// Hub is the outbound broadcast sink. Each message is encoded once and the
// frame is buffered on every recipient session. Game loop only.
type Hub struct {
	store *SessionStore
	log   *zap.Logger
}

func NewHub(store *SessionStore, log *zap.Logger) *Hub {
	return &Hub{store: store, log: log}
}

func (h *Hub) encode(event string, payload any) []byte {
	frame, err := packet.Encode(event, payload)
	if err != nil {
		h.log.Error("encode outbound event", zap.String("event", event), zap.Error(err))
		return nil
	}
	return frame
}

// Broadcast sends to every open connection, joined or not.
func (h *Hub) Broadcast(event string, payload any) {
	h.BroadcastExcept("", event, payload)
}

// BroadcastExcept sends to every open connection but exceptID.
func (h *Hub) BroadcastExcept(exceptID, event string, payload any) {
	frame := h.encode(event, payload)
	if frame == nil {
		return
	}
	for id, sess := range h.store.Raw() {
		if id == exceptID || sess.IsClosed() {
			continue
		}
		sess.Send(frame)
	}
}

// SendTo sends to one session. Unknown IDs are ignored.
func (h *Hub) SendTo(id, event string, payload any) {
	sess := h.store.Get(id)
	if sess == nil {
		return
	}
	frame := h.encode(event, payload)
	if frame == nil {
		return
	}
	sess.Send(frame)
}
