package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/models"
)

const (
	hashHeader = "HashSHA256"

	retryCount   = 2
	retryWait    = 200 * time.Millisecond
	retryMaxWait = 2 * time.Second
)

type httpServerAdapter struct {
	client *resty.Client
	hasher *utils.Hasher

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates cfg.ServerURL, configures the resty client with
// the resolved base URL and request timeout, and enables body signing when
// cfg.HashKey is set.
//
// GET requests are retried on transport errors and 503 responses.
//
// Returns an error if cfg.ServerURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPServerAdapter(cfg config.ClientConfig, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}

	a := &httpServerAdapter{logger: logger}
	if cfg.HashKey != "" {
		a.hasher = utils.NewHasher(cfg.HashKey)
	}

	a.client = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetLogger(restyLogger{logger}).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(retryIdempotent).
		OnAfterResponse(a.verifyResponse)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func retryIdempotent(resp *resty.Response, err error) bool {
	if errors.Is(err, ErrIntegrityCheckFailed) {
		return false
	}
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || resp.StatusCode() == http.StatusServiceUnavailable
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/register and keeps the token of the new session.
func (h *httpServerAdapter) Register(ctx context.Context, credentials models.Credentials) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/api/auth/register", credentials)
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login and keeps the token of the new session.
func (h *httpServerAdapter) Login(ctx context.Context, credentials models.Credentials) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/api/auth/login", credentials)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, credentials models.Credentials) (models.AuthResponse, error) {
	var result models.AuthResponse

	req, err := h.jsonRequest(ctx, credentials)
	if err != nil {
		return result, err
	}
	resp, err := req.SetResult(&result).Post(path)
	if err != nil {
		return result, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return result, err
	}

	token := result.Token
	if token == "" {
		if token, err = utils.ParseBearerToken(resp.Header().Get("Authorization")); err != nil {
			return result, fmt.Errorf("%s parse bearer token: %w", path, err)
		}
	}

	h.SetToken(token)
	return result, nil
}

// Logout implements [ServerAdapter].
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken("")
	return nil
}

// Me implements [ServerAdapter].
func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	var result models.UserResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.User{}, err
	}
	resp, err := req.SetResult(&result).Get("/api/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}

	return result.User, mapHTTPError(resp)
}

// ChangePassword implements [ServerAdapter].
func (h *httpServerAdapter) ChangePassword(ctx context.Context, request models.ChangePasswordRequest) error {
	req, err := h.authedJSONRequest(ctx, request)
	if err != nil {
		return err
	}
	resp, err := req.Put("/api/auth/password")
	if err != nil {
		return fmt.Errorf("change password request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListEntries implements [ServerAdapter].
func (h *httpServerAdapter) ListEntries(ctx context.Context) ([]models.PasswordEntry, error) {
	var result models.EntriesResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetResult(&result).Get("/api/passwords")
	if err != nil {
		return nil, fmt.Errorf("list entries request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return result.PasswordEntries, nil
}

// GetEntry implements [ServerAdapter].
func (h *httpServerAdapter) GetEntry(ctx context.Context, entryID string) (models.PasswordEntry, error) {
	var result models.EntryResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.PasswordEntry{}, err
	}
	resp, err := req.
		SetPathParam("id", entryID).
		SetResult(&result).
		Get("/api/passwords/{id}")
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("get entry request: %w", err)
	}

	return result.PasswordEntry, mapHTTPError(resp)
}

// CreateEntry implements [ServerAdapter]. The returned entry has its
// secrets masked.
func (h *httpServerAdapter) CreateEntry(ctx context.Context, entry models.PasswordEntry) (models.PasswordEntry, error) {
	var result models.EntryResponse

	req, err := h.authedJSONRequest(ctx, entry)
	if err != nil {
		return models.PasswordEntry{}, err
	}
	resp, err := req.SetResult(&result).Post("/api/passwords")
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("create entry request: %w", err)
	}

	return result.PasswordEntry, mapHTTPError(resp)
}

// UpdateEntry implements [ServerAdapter]. Only non-nil fields of update are
// sent.
func (h *httpServerAdapter) UpdateEntry(ctx context.Context, entryID string, update models.EntryUpdate) (models.PasswordEntry, error) {
	var result models.EntryResponse

	req, err := h.authedJSONRequest(ctx, update)
	if err != nil {
		return models.PasswordEntry{}, err
	}
	resp, err := req.
		SetPathParam("id", entryID).
		SetResult(&result).
		Put("/api/passwords/{id}")
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("update entry request: %w", err)
	}

	return result.PasswordEntry, mapHTTPError(resp)
}

// DeleteEntry implements [ServerAdapter].
func (h *httpServerAdapter) DeleteEntry(ctx context.Context, entryID string) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.SetPathParam("id", entryID).Delete("/api/passwords/{id}")
	if err != nil {
		return fmt.Errorf("delete entry request: %w", err)
	}

	return mapHTTPError(resp)
}

// GeneratePassword implements [ServerAdapter].
func (h *httpServerAdapter) GeneratePassword(ctx context.Context, options models.GeneratorOptions) (string, error) {
	var result models.GeneratedPasswordResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return "", err
	}
	resp, err := req.
		SetQueryParams(map[string]string{
			"length":           strconv.Itoa(options.Length),
			"includeUppercase": strconv.FormatBool(options.IncludeUppercase),
			"includeLowercase": strconv.FormatBool(options.IncludeLowercase),
			"includeNumbers":   strconv.FormatBool(options.IncludeNumbers),
			"includeSymbols":   strconv.FormatBool(options.IncludeSymbols),
		}).
		SetResult(&result).
		Get("/api/passwords/generate/password")
	if err != nil {
		return "", fmt.Errorf("generate password request: %w", err)
	}

	return result.Password, mapHTTPError(resp)
}

// GeneratePassphrase implements [ServerAdapter].
func (h *httpServerAdapter) GeneratePassphrase(ctx context.Context, options models.PassphraseOptions) (string, error) {
	var result models.GeneratedPassphraseResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return "", err
	}
	req.SetQueryParam("words", strconv.Itoa(options.Words))
	if options.Separator != "" {
		req.SetQueryParam("separator", options.Separator)
	}
	resp, err := req.SetResult(&result).Get("/api/passwords/generate/passphrase")
	if err != nil {
		return "", fmt.Errorf("generate passphrase request: %w", err)
	}

	return result.Passphrase, mapHTTPError(resp)
}

// Version implements [ServerAdapter].
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return resp.String(), nil
}

// Health implements [ServerAdapter].
func (h *httpServerAdapter) Health(ctx context.Context) (models.HealthResponse, error) {
	var result models.HealthResponse

	resp, err := h.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return result, fmt.Errorf("health request: %w", err)
	}
	if resp.StatusCode() != http.StatusServiceUnavailable {
		if err = mapHTTPError(resp); err != nil {
			return result, err
		}
	}

	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return result, fmt.Errorf("decode health response: %w", err)
	}
	return result, nil
}

// authedRequest returns a request carrying the bearer token. Without a token
// it fails with ErrNotLoggedIn before anything is sent.
func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

func (h *httpServerAdapter) authedJSONRequest(ctx context.Context, body any) (*resty.Request, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	return h.withJSONBody(req, body)
}

func (h *httpServerAdapter) jsonRequest(ctx context.Context, body any) (*resty.Request, error) {
	return h.withJSONBody(h.client.R().SetContext(ctx), body)
}

// withJSONBody encodes body up front so the exact bytes sent can be signed.
func (h *httpServerAdapter) withJSONBody(req *resty.Request, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req.SetHeader("Content-Type", "application/json").SetBody(payload)
	if h.hasher != nil {
		req.SetHeader(hashHeader, h.hasher.HashHex(payload))
	}
	return req, nil
}

// verifyResponse checks the HashSHA256 header of signed responses.
func (h *httpServerAdapter) verifyResponse(_ *resty.Client, resp *resty.Response) error {
	if h.hasher == nil {
		return nil
	}
	signature := resp.Header().Get(hashHeader)
	if signature == "" {
		return nil
	}
	if !h.hasher.Verify(resp.Body(), signature) {
		return ErrIntegrityCheckFailed
	}
	return nil
}

// restyLogger routes resty diagnostics into the client logger.
type restyLogger struct {
	l *logger.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug().Msgf(format, v...) }
