package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dm-chat/internal/metrics"
	"dm-chat/internal/model"
	"dm-chat/internal/utils"
)

const (
	maxBodyBytes       = 1 << 20
	fallbackStatusText = "Request failed"

	outcomeOK               = "ok"
	outcomeApplicationError = "application_error"
	outcomeTransportFailure = "transport_failure"
)

// Client talks to the DM service. It never retries; every failure is
// terminal for that attempt.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

func NewClient(baseURL string, httpClient *http.Client, m *metrics.Metrics) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("transport: base url must not be empty")
	}
	if httpClient == nil {
		httpClient = utils.NewHTTPClient(0)
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		metrics: m,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendMessage posts one chat turn and returns the DM's whole reply.
func (c *Client) SendMessage(ctx context.Context, text string) (reply string, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveTransport(OpChat, outcomeOf(err), time.Since(start)) }()

	resp, err := c.postJSON(ctx, "/chat", model.ChatRequest{Message: text})
	if err != nil {
		return "", &TransportFailure{Op: OpChat, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &TransportFailure{Op: OpChat, Err: fmt.Errorf("read body: %w", err)}
	}

	if !isSuccess(resp.StatusCode) {
		return "", &ApplicationError{
			Op:         OpChat,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp, body),
		}
	}

	var out struct {
		Reply *string `json:"reply"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &TransportFailure{Op: OpChat, Err: fmt.Errorf("decode reply: %w", err)}
	}
	if out.Reply == nil {
		return "", &TransportFailure{Op: OpChat, Err: errors.New("decode reply: missing reply field")}
	}
	return *out.Reply, nil
}

// ClearSession asks the DM to forget the conversation. Any 2xx counts as
// success and the body is ignored.
func (c *Client) ClearSession(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveTransport(OpClear, outcomeOf(err), time.Since(start)) }()

	resp, err := c.postJSON(ctx, "/chat/clear", model.ClearRequest{Clear: true})
	if err != nil {
		return &TransportFailure{Op: OpClear, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if !isSuccess(resp.StatusCode) {
		return &ApplicationError{
			Op:         OpClear,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp, body),
		}
	}
	return nil
}

// Health probes GET {base}/health.
func (c *Client) Health(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveTransport(OpHealth, outcomeOf(err), time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &TransportFailure{Op: OpHealth, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportFailure{Op: OpHealth, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if !isSuccess(resp.StatusCode) {
		return &ApplicationError{Op: OpHealth, StatusCode: resp.StatusCode, Message: statusText(resp)}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// errorMessage picks detail.message, then detail.error, then a bare string
// or validation detail, and finally the status text.
func errorMessage(resp *http.Response, body []byte) string {
	var eb model.ErrorBody
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &eb) != nil || len(eb.Detail) == 0 {
		return statusText(resp)
	}

	var detail model.ErrorDetail
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		if msg := strings.TrimSpace(detail.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(detail.Error); msg != "" {
			return msg
		}
		return statusText(resp)
	}

	var text string
	if err := json.Unmarshal(eb.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}

	var validation []model.ValidationDetail
	if err := json.Unmarshal(eb.Detail, &validation); err == nil && len(validation) > 0 {
		if msg := strings.TrimSpace(validation[0].Msg); msg != "" {
			return msg
		}
	}
	return statusText(resp)
}

// statusText prefers the reason phrase the server sent over the
// standard one for the code.
func statusText(resp *http.Response) string {
	reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	if reason = strings.TrimSpace(reason); reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fallbackStatusText
}

func outcomeOf(err error) string {
	var appErr *ApplicationError
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &appErr):
		return outcomeApplicationError
	default:
		return outcomeTransportFailure
	}
}
