package http

import (
	"bytes"
	"io"
	"net/http"
)

// hashHeader carries the hex HMAC-SHA256 of a body under the shared hash key.
const hashHeader = "HashSHA256"

// withHashing checks the HashSHA256 header of incoming bodies and signs
// outgoing bodies the same way. It is a no-op without a hash key. Requests
// without the header are let through.
func (h *Handler) withHashing(next http.Handler) http.Handler {
	if h.hasher == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if signature := r.Header.Get(hashHeader); signature != "" && r.Body != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				h.logger.Err(err).Str("func", "*Handler.withHashing").Msg("failed to read request body")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			// restore request body
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !h.hasher.Verify(body, signature) {
				writeError(w, r, ErrIntegrityCheckFailed, "hashes are not equal")
				return
			}
		}

		hw := &hashingResponseWriter{ResponseWriter: w}
		next.ServeHTTP(hw, r)

		w.Header().Set(hashHeader, h.hasher.HashHex(hw.body.Bytes()))
		if hw.status == 0 {
			hw.status = http.StatusOK
		}
		w.WriteHeader(hw.status)
		w.Write(hw.body.Bytes())
	})
}

// hashingResponseWriter buffers the response so its hash can be sent as a
// header before the body.
type hashingResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *hashingResponseWriter) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
}

func (w *hashingResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}
