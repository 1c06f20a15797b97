package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// HTTPClient talks to the graph store's HTTP endpoint. It signs in lazily,
// caches the bearer token, and wraps every round trip in a circuit breaker so
// a down store fails fast instead of piling up blocked requests.
//
// HTTPClient is safe for concurrent use: requests carry no per-call state
// beyond the immutable token, and the token refresh is mutex-guarded.
type HTTPClient struct {
	baseURL  string
	database string
	username string
	password string
	client   *http.Client
	breaker  *circuitBreaker

	mu    sync.Mutex
	token string
}

// HTTPConfig holds store client configuration.
type HTTPConfig struct {
	// BaseURL is the store's HTTP endpoint (default: http://localhost:8000).
	BaseURL string

	// Database is the database name queries run against.
	Database string

	// Username and Password authenticate the sign-in request.
	Username string
	Password string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// Breaker tunes the circuit breaker; zero values take defaults.
	Breaker BreakerConfig
}

// NewHTTPClient creates a store client. No connection is attempted until the
// first transaction is opened.
func NewHTTPClient(config HTTPConfig) *HTTPClient {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &HTTPClient{
		baseURL:  config.BaseURL,
		database: config.Database,
		username: config.Username,
		password: config.Password,
		client:   &http.Client{Timeout: config.Timeout},
		breaker:  newCircuitBreaker(config.Breaker),
	}
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signinResponse struct {
	Token string `json:"token"`
}

type openRequest struct {
	DatabaseName    string `json:"databaseName"`
	TransactionType string `json:"transactionType"`
}

type openResponse struct {
	TransactionID string `json:"transactionId"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	AnswerType string     `json:"answerType"`
	Answers    []Document `json:"answers"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Transaction opens a transaction of the given mode on the configured
// database.
func (c *HTTPClient) Transaction(ctx context.Context, mode TransactionMode) (Transaction, error) {
	var resp openResponse
	err := c.post(ctx, "/v1/transactions/open", openRequest{
		DatabaseName:    c.database,
		TransactionType: string(mode),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.TransactionID == "" {
		return nil, &StoreError{Message: "store returned no transaction id"}
	}
	return &httpTransaction{client: c, id: resp.TransactionID}, nil
}

// Close releases idle connections. Open transactions are not tracked; the
// store reaps them server-side.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// httpTransaction is one open server-side transaction addressed by id.
type httpTransaction struct {
	client *HTTPClient
	id     string
	done   bool
}

// Query executes one query and drains its answers. Fetch queries populate
// Result.Documents; insert queries report the answer count.
func (t *httpTransaction) Query(ctx context.Context, query string) (*Result, error) {
	var resp queryResponse
	err := t.client.post(ctx, "/v1/transactions/"+t.id+"/query", queryRequest{Query: query}, &resp)
	if err != nil {
		return nil, err
	}

	result := &Result{AnswerCount: len(resp.Answers)}
	if resp.AnswerType == "conceptDocuments" {
		result.Documents = resp.Answers
	}
	return result, nil
}

// Commit makes the transaction durable and consumes it.
func (t *httpTransaction) Commit(ctx context.Context) error {
	if err := t.client.post(ctx, "/v1/transactions/"+t.id+"/commit", struct{}{}, nil); err != nil {
		return err
	}
	t.done = true
	return nil
}

// Close discards the transaction unless it was committed. Closing twice, or
// after Commit, is a no-op.
func (t *httpTransaction) Close(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	return t.client.post(ctx, "/v1/transactions/"+t.id+"/close", struct{}{}, nil)
}

// post sends one JSON request through the circuit breaker, signing in first
// when no token is cached and retrying once on an expired token.
func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.breaker.execute(ctx, func() (interface{}, error) {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return nil, err
		}

		status, err := c.doPost(ctx, path, token, body, out)
		if status == http.StatusUnauthorized {
			// Token expired; sign in again and retry once.
			token, err = c.refreshToken(ctx, token)
			if err != nil {
				return nil, err
			}
			_, err = c.doPost(ctx, path, token, body, out)
		}
		return nil, err
	})
	return err
}

func (c *HTTPClient) doPost(ctx context.Context, path, token string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("store: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("store: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, &StoreError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &StoreError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, storeErrorFromBody(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, &StoreError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
		}
	}
	return resp.StatusCode, nil
}

// ensureToken returns the cached bearer token, signing in when none exists.
func (c *HTTPClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.signin(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// refreshToken replaces a stale token. A concurrent request may already have
// refreshed it, in which case the newer token is reused.
func (c *HTTPClient) refreshToken(ctx context.Context, stale string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.token != stale {
		return c.token, nil
	}
	token, err := c.signin(ctx)
	if err != nil {
		c.token = ""
		return "", err
	}
	c.token = token
	return token, nil
}

func (c *HTTPClient) signin(ctx context.Context) (string, error) {
	var resp signinResponse
	if _, err := c.doPost(ctx, "/v1/signin", "", signinRequest{Username: c.username, Password: c.password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &StoreError{Message: "store sign-in returned no token"}
	}
	return resp.Token, nil
}

func storeErrorFromBody(status int, body []byte) *StoreError {
	var parsed struct {
		Err errorResponse `json:"err"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Err.Message != "" {
		return &StoreError{Status: status, Code: parsed.Err.Code, Message: parsed.Err.Message}
	}
	var flat errorResponse
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return &StoreError{Status: status, Code: flat.Code, Message: flat.Message}
	}
	return &StoreError{Status: status, Message: string(bytes.TrimSpace(body))}
}
