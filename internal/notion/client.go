package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"
	// MaxChildrenPerRequest is the API limit on blocks per create/append call.
	MaxChildrenPerRequest = 100
	// MaxPageSize is the API limit on page_size.
	MaxPageSize = 100
)

// ErrNoToken is returned by NewClient when no integration token is configured.
var ErrNoToken = errors.New("no Notion integration token configured")

// API is the set of remote operations the CLI uses.
type API interface {
	Search(ctx context.Context, req *SearchRequest) (*ListResponse, error)
	QueryDatabase(ctx context.Context, req *QueryDatabaseRequest) (*ListResponse, error)
	RetrieveDatabase(ctx context.Context, id string) (*Database, error)
	CreatePage(ctx context.Context, req *CreatePageRequest) (*Object, error)
	AppendBlockChildren(ctx context.Context, req *AppendBlockChildrenRequest) (*ListResponse, error)
}

// Client talks to the Notion REST API.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithVersion overrides the Notion-Version header.
func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client authenticated with token.
func NewClient(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		version:    DefaultVersion,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search runs POST /search.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*ListResponse, error) {
	var resp ListResponse
	if err := c.doJSON(ctx, http.MethodPost, "/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryDatabase runs one page of POST /databases/{id}/query.
func (c *Client) QueryDatabase(ctx context.Context, req *QueryDatabaseRequest) (*ListResponse, error) {
	if req.DatabaseID == "" {
		return nil, fmt.Errorf("database id is required")
	}
	var resp ListResponse
	path := "/databases/" + url.PathEscape(req.DatabaseID) + "/query"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RetrieveDatabase runs GET /databases/{id}.
func (c *Client) RetrieveDatabase(ctx context.Context, id string) (*Database, error) {
	var db Database
	if err := c.doJSON(ctx, http.MethodGet, "/databases/"+url.PathEscape(id), nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// CreatePage runs POST /pages. Children beyond the per-request limit are
// appended to the new page in follow-up calls.
func (c *Client) CreatePage(ctx context.Context, req *CreatePageRequest) (*Object, error) {
	first, rest := splitChildren(req.Children)
	body := *req
	body.Children = first

	var page Object
	if err := c.doJSON(ctx, http.MethodPost, "/pages", &body, &page); err != nil {
		return nil, err
	}
	for len(rest) > 0 {
		var chunk []Block
		chunk, rest = splitChildren(rest)
		data, err := json.Marshal(chunk)
		if err != nil {
			return nil, fmt.Errorf("marshaling children: %w", err)
		}
		c.log.WithField("page", page.ID).Debugf("appending %d remaining blocks", len(chunk))
		if _, err := c.AppendBlockChildren(ctx, &AppendBlockChildrenRequest{BlockID: page.ID, Children: data}); err != nil {
			return &page, fmt.Errorf("page %s created but appending content failed: %w", page.ID, err)
		}
	}
	return &page, nil
}

// AppendBlockChildren runs PATCH /blocks/{id}/children.
func (c *Client) AppendBlockChildren(ctx context.Context, req *AppendBlockChildrenRequest) (*ListResponse, error) {
	if req.BlockID == "" {
		return nil, fmt.Errorf("block id is required")
	}
	var resp ListResponse
	path := "/blocks/" + url.PathEscape(req.BlockID) + "/children"
	if err := c.doJSON(ctx, http.MethodPatch, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func splitChildren(blocks []Block) (head, tail []Block) {
	if len(blocks) <= MaxChildrenPerRequest {
		return blocks, nil
	}
	return blocks[:MaxChildrenPerRequest], blocks[MaxChildrenPerRequest:]
}

// APIError is an error response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the token was rejected.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether the object does not exist or is not shared
// with the integration.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Code == "object_not_found"
}

// doJSON performs an HTTP request with an optional JSON body and decodes the
// JSON response into result.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("notion request")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       errResp.Code,
				Message:    errResp.Message,
				RequestID:  errResp.RequestID,
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
