package http

import (
	"log/slog"
	"net/http"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports whether the backing store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := s.readContext(r)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleWebsocket subscribes the caller to their own domain events.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		ErrorResponse(http.StatusServiceUnavailable, "Notificações indisponíveis").Write(w)
		return
	}
	if err := s.hub.Serve(w, r, session(r).UserID); err != nil {
		// The upgrader has already answered the client.
		slog.WarnContext(r.Context(), "Websocket session ended with error", "error", err)
	}
}

// handleSignOut revokes the presented token until it expires.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.verifier.Revoke(session(r))
	slog.InfoContext(r.Context(), "Signed out")
	NewJSONResponse().NotifySuccess("Sessão encerrada").Write(w)
}
