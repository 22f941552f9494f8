package http

import (
	"errors"
	"net/http"

	"github.com/lightningsoon/KeyMinder/internal/crypto"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/service"
	"github.com/lightningsoon/KeyMinder/internal/session"
	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/internal/utils"
)

// errorStatus binds a sentinel error to the response it produces.
// public reports whether the error text may be sent to the client.
type errorStatus struct {
	target error
	status int
	public bool
}

// errorStatuses is checked in order. Errors wrapping several sentinels get
// the status of the first match.
var errorStatuses = []errorStatus{
	{ErrInvalidJSON, http.StatusBadRequest, true},
	{ErrInvalidQuery, http.StatusBadRequest, true},
	{ErrIntegrityCheckFailed, http.StatusBadRequest, true},
	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized, true},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized, true},

	{service.ErrInvalidDataProvided, http.StatusBadRequest, true},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, true},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, true},
	{service.ErrSessionExpired, http.StatusUnauthorized, true},
	{session.ErrSessionNotFound, http.StatusUnauthorized, true},
	{service.ErrWrongPassword, http.StatusForbidden, true},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable, true},

	{store.ErrUsernameTaken, http.StatusConflict, true},
	{store.ErrUserNotFound, http.StatusNotFound, true},
	{store.ErrEntryNotFound, http.StatusNotFound, true},
	{store.ErrEntryChanged, http.StatusConflict, true},

	{service.ErrEntryUndecryptable, http.StatusInternalServerError, true},
	{crypto.ErrMalformedBlob, http.StatusInternalServerError, false},
	{crypto.ErrDecryptionFailed, http.StatusInternalServerError, false},
	{crypto.ErrCryptoBackendUnavailable, http.StatusInternalServerError, false},
	{crypto.ErrMalformedHash, http.StatusInternalServerError, false},

	{store.ErrBuildingSQLQuery, http.StatusInternalServerError, false},
	{store.ErrExecutingQuery, http.StatusInternalServerError, false},
	{store.ErrBeginningTransaction, http.StatusInternalServerError, false},
	{store.ErrCommitingTransaction, http.StatusInternalServerError, false},
	{store.ErrExecutingStatement, http.StatusInternalServerError, false},
	{store.ErrScanningRow, http.StatusInternalServerError, false},
	{store.ErrScanningRows, http.StatusInternalServerError, false},
}

// statusFromError returns the HTTP status for err and the message to send.
// Validation errors keep their full text, other known errors are reduced to
// the sentinel and unknown errors to the status text.
func statusFromError(err error) (int, string) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.target) {
			continue
		}
		switch {
		case !e.public:
			return e.status, http.StatusText(e.status)
		case e.status == http.StatusBadRequest:
			return e.status, err.Error()
		default:
			return e.status, e.target.Error()
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// writeError logs err and writes the mapped status with a {"message"} body.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, message := statusFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Msg(msg)

	utils.WriteMessage(w, message, status)
}
