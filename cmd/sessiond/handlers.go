package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/sessiondb/pkg/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func showHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		visits, _ := sess.GetInt("visits")
		sess.Set("visits", visits+1)

		writeJSON(w, http.StatusOK, map[string]any{
			"new":           sess.IsNew,
			"authenticated": sess.IsAuthenticated(),
			"values":        sess.Values,
		})
	}
}

func loginHandler(m *session.Manager, db session.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
		if err != nil || userID <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
			return
		}

		var logID int64
		err = db.QueryRow(r.Context(),
			`INSERT INTO user_access_log (user_id, date_time_in) VALUES ($1, now()) RETURNING user_access_log_id`,
			userID).Scan(&logID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "access log unavailable"})
			return
		}

		sess := session.MustFromContext(r.Context())
		m.Login(sess, logID)
		writeJSON(w, http.StatusOK, map[string]int64{"access_log_id": logID})
	}
}

func logoutHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var logID *int64
		if raw := r.FormValue("access_log_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid access_log_id"})
				return
			}
			logID = &id
		}

		if err := m.Kill(r.Context(), w, session.MustFromContext(r.Context()), logID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "logout failed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func maintenanceHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sweep, err := m.Maintain(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "garbage collection failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": sweep.Deleted, "closed": sweep.Closed})
	}
}
