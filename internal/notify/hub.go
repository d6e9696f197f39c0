// Package notify pushes domain events to the websocket sessions of the user
// they concern.
package notify

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cofrinho/internal/events"
	applog "cofrinho/internal/log"

	"github.com/olahol/melody"
)

const userKey = "user_id"

// Hub is an events.Publisher backed by a melody instance.
type Hub struct {
	m      *melody.Melody
	logger *applog.Logger
}

var _ events.Publisher = (*Hub)(nil)

func NewHub(logger *applog.Logger) *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 4 * 1024
	// Keep-alive for hosts that drop idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{m: m, logger: logger.WithComponent(applog.ComponentNotify)}

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(userKey)
		h.logger.Debug("Websocket connected", applog.FieldUserID, userID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(userKey)
		h.logger.Debug("Websocket disconnected", applog.FieldUserID, userID)
	})
	m.HandleError(func(s *melody.Session, err error) {
		userID, _ := s.Get(userKey)
		h.logger.Warn("Websocket error", applog.FieldUserID, userID, applog.FieldError, err)
	})
	// The channel is push only; client messages are ignored.
	m.HandleMessage(func(*melody.Session, []byte) {})

	return h
}

// Serve upgrades the request and binds the session to userID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	return h.m.HandleRequestWithKeys(w, r, map[string]any{userKey: userID})
}

// Publish sends e to every session of e.UserID. Having no listeners is not an error.
func (h *Hub) Publish(ctx context.Context, e events.Event) error {
	msg, err := e.ToJSON()
	if err != nil {
		return err
	}
	err = h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, ok := s.Get(userKey)
		return ok && id == e.UserID
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Broadcast failed", slog.String(applog.FieldEventType, string(e.Type)), applog.FieldError, err)
	}
	return err
}

// Sessions returns the number of open connections.
func (h *Hub) Sessions() int {
	return h.m.Len()
}

// Close disconnects every session.
func (h *Hub) Close() error {
	if h.m.IsClosed() {
		return nil
	}
	return h.m.Close()
}
