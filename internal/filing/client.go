// =============================================================================
// Broker Helper - Filing API Client
// =============================================================================
//
// Thin client for the customs-filing REST API:
//   - POST {base}/token                               form-encoded password
//     grant, 15 s timeout
//   - POST {base}/api/Invoices/CreateEntrySummary     JSON + bearer auth,
//     30 s timeout
//
// Nothing is retried: a transport failure or non-2xx reply aborts the run
// and surfaces a summary error. For support, the payload is persisted to
// last_payload.json before sending and every reply body is persisted
// verbatim to last_reply.json, win or lose; a uuid-named archive copy of
// each keeps a history across runs. The correlation-ID response header is
// carried on the error so the user can quote it to the API vendor.
//
// =============================================================================

package filing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Marshall-Ye/Broker-Helper/internal/config"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// API routes, relative to the configured base URL.
const (
	tokenRoute  = "/token"
	createRoute = "/api/Invoices/CreateEntrySummary"
)

// Debug file names inside the debug directory.
const (
	lastPayloadName = "last_payload.json"
	lastReplyName   = "last_reply.json"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the filing API. It is safe for sequential reuse; each run
// fetches a fresh token.
type Client struct {
	baseURL  string
	username string
	password string
	debugDir string
	logger   types.Logger

	authClient   *http.Client
	submitClient *http.Client
}

// NewClient builds a Client from the filing configuration. Debug files land
// in debugDir; a nil logger falls back to the default stdout one.
func NewClient(cfg config.FilingConfig, debugDir string, logger types.Logger) *Client {
	if logger == nil {
		logger = types.NewLogger(false)
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		username:     cfg.Username,
		password:     cfg.Password,
		debugDir:     debugDir,
		logger:       logger,
		authClient:   &http.Client{Timeout: time.Duration(cfg.AuthTimeoutSeconds) * time.Second},
		submitClient: &http.Client{Timeout: time.Duration(cfg.SubmitTimeoutSeconds) * time.Second},
	}
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// SubmitError is a non-2xx reply from the filing API, with everything the
// user needs to chase it down.
type SubmitError struct {
	// StatusCode is the HTTP status of the reply.
	StatusCode int

	// CorrelationID is the vendor's request identifier, "n/a" when absent.
	CorrelationID string

	// Body is the raw reply body.
	Body string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("status: %d, correlation ID: %s, body: %s",
		e.StatusCode, e.CorrelationID, e.Body)
}

// correlationID pulls the vendor's request identifier out of a reply. The
// header name drifted across API revisions, so both spellings are checked.
func correlationID(h http.Header) string {
	if id := h.Get("X-Correlation-ID"); id != "" {
		return id
	}
	if id := h.Get("Request-CorrelationID"); id != "" {
		return id
	}
	return "n/a"
}

// =============================================================================
// TOKEN GRANT
// =============================================================================

// Token performs the password grant and returns the bearer token.
func (c *Client) Token(ctx context.Context) (string, error) {
	form := url.Values{
		"userName":   {c.username},
		"password":   {c.password},
		"grant_type": {"password"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+tokenRoute, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.authClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmitError{
			StatusCode:    resp.StatusCode,
			CorrelationID: correlationID(resp.Header),
			Body:          string(body),
		}
	}

	var reply struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("failed to parse token reply: %w", err)
	}
	if reply.AccessToken == "" {
		return "", fmt.Errorf("token reply carried no access_token")
	}
	return reply.AccessToken, nil
}

// =============================================================================
// ENTRY SUBMISSION
// =============================================================================

// Reply is the raw outcome of a CreateEntrySummary call.
type Reply struct {
	// StatusCode is the HTTP status.
	StatusCode int

	// CorrelationID is the vendor's request identifier.
	CorrelationID string

	// Body is the verbatim reply body, also persisted to last_reply.json.
	Body []byte
}

// CreateEntrySummary persists the payload, fetches a token, POSTs the entry,
// and persists the reply. A non-2xx reply returns a SubmitError after the
// reply body has been written to disk.
func (c *Client) CreateEntrySummary(ctx context.Context, payload interface{}) (*Reply, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := c.persistDebug(lastPayloadName, "payload", body); err != nil {
		return nil, err
	}

	token, err := c.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain token: %w", err)
	}

	c.logger.Debug("posting entry to %s", c.baseURL+createRoute)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+createRoute, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build entry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.submitClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entry request failed: %w", err)
	}
	defer resp.Body.Close()

	replyBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry reply: %w", err)
	}

	// The raw body is written even on failure; it is the support artifact.
	if err := c.persistDebug(lastReplyName, "reply", replyBody); err != nil {
		return nil, err
	}

	reply := &Reply{
		StatusCode:    resp.StatusCode,
		CorrelationID: correlationID(resp.Header),
		Body:          replyBody,
	}
	c.logger.Info("HTTP %d, correlation ID %s", reply.StatusCode, reply.CorrelationID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reply, &SubmitError{
			StatusCode:    resp.StatusCode,
			CorrelationID: reply.CorrelationID,
			Body:          string(replyBody),
		}
	}
	return reply, nil
}

// persistDebug writes the latest copy under its fixed name plus a uuid-named
// archive copy, so the last exchange is easy to find and history survives.
func (c *Client) persistDebug(fixedName, kind string, body []byte) error {
	if c.debugDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.debugDir, 0755); err != nil {
		return fmt.Errorf("failed to create debug folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.debugDir, fixedName), body, 0644); err != nil {
		return fmt.Errorf("failed to persist %s: %w", kind, err)
	}
	archive := fmt.Sprintf("%s_%s.json", kind, uuid.New().String())
	if err := os.WriteFile(filepath.Join(c.debugDir, archive), body, 0644); err != nil {
		return fmt.Errorf("failed to archive %s: %w", kind, err)
	}
	return nil
}
