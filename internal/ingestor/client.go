package ingestor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/lpradovera/llmsherpa/internal/doctree"
)

// Client communicates with the layout extraction service's HTTP API. The
// service performs the actual PDF parsing and returns the flat block array
// the tree builder consumes.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ServiceError is a failure to communicate with the extraction service.
// The core never retries these; the retry policy lives here.
type ServiceError struct {
	StatusCode int // 0 when the request never reached the service
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("extraction service unreachable: %s", e.Message)
	}
	return fmt.Sprintf("extraction service status %d: %s", e.StatusCode, truncate(e.Message, 200))
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Transient reports whether a retry could plausibly succeed.
func (e *ServiceError) Transient() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

const maxAttempts = 3

// parseResponse mirrors the service's response envelope.
type parseResponse struct {
	ReturnDict struct {
		Result struct {
			Blocks []doctree.BlockRecord `json:"blocks"`
		} `json:"result"`
	} `json:"return_dict"`
}

// ParseDocument uploads document bytes and returns the extracted block
// sequence. Transient failures are retried with backoff.
func (c *Client) ParseDocument(ctx context.Context, data []byte, filename string) ([]doctree.BlockRecord, error) {
	var blocks []doctree.BlockRecord
	err := retry.Do(
		func() error {
			var err error
			blocks, err = c.parseOnce(ctx, data, filename)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *ServiceError
			return errors.As(err, &se) && se.Transient()
		}),
	)
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (c *Client) parseOnce(ctx context.Context, data []byte, filename string) ([]doctree.BlockRecord, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/parseDocument?renderFormat=all", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ServiceError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, &ServiceError{Message: "read response: " + err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var parsed parseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}
	return parsed.ReturnDict.Result.Blocks, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
