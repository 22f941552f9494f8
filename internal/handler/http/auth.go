package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lightningsoon/KeyMinder/internal/app"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		writeError(w, r, err, "invalid registration request")
		return
	}

	session, err := h.services.AuthService.Register(ctx, credentials)
	if err != nil {
		writeError(w, r, err, "user registration failed")
		return
	}

	log.Info().Str("user_id", session.User.ID).Msg("user registered")

	writeSession(w, session, app.MsgUserRegistered, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		writeError(w, r, err, "invalid login request")
		return
	}

	session, err := h.services.AuthService.Login(ctx, credentials)
	if err != nil {
		writeError(w, r, err, "user login failed")
		return
	}

	log.Info().Str("user_id", session.User.ID).Msg("user logged in")

	writeSession(w, session, app.MsgLoginSuccessful, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	if err := h.services.AuthService.Logout(r.Context(), principal); err != nil {
		writeError(w, r, err, "logout failed")
		return
	}

	utils.WriteMessage(w, app.MsgLoggedOut, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	user, err := h.services.AuthService.Me(r.Context(), principal)
	if err != nil {
		writeError(w, r, err, "getting current user failed")
		return
	}

	utils.WriteJSON(w, models.UserResponse{User: user}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	var request models.ChangePasswordRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "invalid password change request")
		return
	}

	if err := h.services.AuthService.ChangePassword(r.Context(), principal, request); err != nil {
		writeError(w, r, err, "password change failed")
		return
	}

	utils.WriteMessage(w, app.MsgPasswordChanged, http.StatusOK)
}

func writeSession(w http.ResponseWriter, session models.Session, message string, status int) {
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", session.Token.SignedString))
	utils.WriteJSON(w, models.AuthResponse{
		Message: message,
		Token:   session.Token.SignedString,
		User:    session.User,
	}, status)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
