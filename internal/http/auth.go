package http

import (
	"context"
	"log/slog"
	"net/http"

	"cofrinho/internal/auth"
	applog "cofrinho/internal/log"
)

// requireAuth verifies the bearer token and makes sure the caller has a
// profile before the handler runs. Browsers cannot set headers on a
// websocket upgrade, so allowQuery also accepts ?access_token=.
func (s *Server) requireAuth(next http.HandlerFunc, allowQuery bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := auth.BearerToken(r.Header.Get("Authorization"))
		if raw == "" && allowQuery {
			raw = r.URL.Query().Get("access_token")
		}
		sess, err := s.verifier.Verify(raw)
		if err != nil {
			slog.DebugContext(r.Context(), "Authentication failed", "error", err, "path", r.URL.Path)
			writeError(w, r, err, "")
			return
		}

		ctx := auth.NewContext(r.Context(), sess)
		ctx = applog.NewContext(ctx, applog.FromContext(ctx).With(applog.FieldUserID, sess.UserID))

		ectx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		_, err = s.profiles.Ensure(ectx, sess.UserID, sess.Name)
		cancel()
		if err != nil {
			writeError(w, r, err, "Erro ao carregar perfil")
			return
		}

		next(w, r.WithContext(ctx))
	}
}

// session returns the caller set by requireAuth.
func session(r *http.Request) auth.Session {
	sess, _ := auth.FromContext(r.Context())
	return sess
}
