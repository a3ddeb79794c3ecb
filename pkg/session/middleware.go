package session

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/sessiondb/pkg/logger"
)

// Middleware starts the session before next and writes it back before the
// response is committed. The write happens on the handler's first
// WriteHeader or Write; handlers that never write get it after they return.
// A failed write replaces the handler's response with a 500.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Start(r.Context(), w, r)
		if err != nil {
			m.logger.ErrorContext(r.Context(), "session start failed", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		ctx := WithSession(r.Context(), sess)
		tw := &trackingWriter{
			ResponseWriter: w,
			end: func() error {
				return m.end(ctx, sess)
			},
		}
		next.ServeHTTP(tw, r.WithContext(ctx))

		if !tw.committed {
			_ = tw.commit()
		}
	})
}

func (m *Manager) end(ctx context.Context, sess *Session) error {
	err := m.End(ctx, sess)
	if err != nil {
		m.logger.ErrorContext(ctx, "session write failed", logger.Error(err))
	}
	return err
}

// trackingWriter runs end once, before anything reaches the wrapped writer.
type trackingWriter struct {
	http.ResponseWriter
	end       func() error
	committed bool
	err       error
}

// commit persists the session. On failure the client gets a 500 and the
// handler's own output is discarded.
func (w *trackingWriter) commit() error {
	if w.committed {
		return w.err
	}
	w.committed = true
	if err := w.end(); err != nil {
		w.err = err
		http.Error(w.ResponseWriter, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return w.err
}

func (w *trackingWriter) WriteHeader(code int) {
	if w.commit() != nil {
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	if err := w.commit(); err != nil {
		return 0, err
	}
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
