package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/models"
)

// generatePassword reads the generator options from the query string.
// Missing options keep their defaults: length 12, lowercase and numbers on,
// uppercase and symbols off.
func (h *Handler) generatePassword(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	options := models.DefaultGeneratorOptions()

	var err error
	if options.Length, err = intParam(query, "length", options.Length); err != nil {
		writeError(w, r, err, "invalid generator options")
		return
	}
	options.IncludeUppercase = boolParam(query, "includeUppercase", options.IncludeUppercase)
	options.IncludeLowercase = boolParam(query, "includeLowercase", options.IncludeLowercase)
	options.IncludeNumbers = boolParam(query, "includeNumbers", options.IncludeNumbers)
	options.IncludeSymbols = boolParam(query, "includeSymbols", options.IncludeSymbols)

	password, err := h.services.GeneratorService.Password(r.Context(), options)
	if err != nil {
		writeError(w, r, err, "password generation failed")
		return
	}

	utils.WriteJSON(w, models.GeneratedPasswordResponse{Password: password}, http.StatusOK)
}

func (h *Handler) generatePassphrase(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	options := models.DefaultPassphraseOptions()

	var err error
	if options.Words, err = intParam(query, "words", options.Words); err != nil {
		writeError(w, r, err, "invalid passphrase options")
		return
	}
	if separator := query.Get("separator"); separator != "" {
		options.Separator = separator
	}

	passphrase, err := h.services.GeneratorService.Passphrase(r.Context(), options)
	if err != nil {
		writeError(w, r, err, "passphrase generation failed")
		return
	}

	utils.WriteJSON(w, models.GeneratedPassphraseResponse{Passphrase: passphrase}, http.StatusOK)
}

func intParam(query url.Values, name string, fallback int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidQuery, name)
	}
	return n, nil
}

// boolParam treats only "true" and "false" as values. Anything else keeps
// the fallback.
func boolParam(query url.Values, name string, fallback bool) bool {
	switch query.Get(name) {
	case "true":
		return true
	case "false":
		return false
	default:
		return fallback
	}
}
