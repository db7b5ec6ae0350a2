package mediasite

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/zanzhit/mediasite_scheduler/internal/config"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
)

type Verb string

const (
	Get    Verb = http.MethodGet
	Post   Verb = http.MethodPost
	Put    Verb = http.MethodPut
	Patch  Verb = http.MethodPatch
	Delete Verb = http.MethodDelete
)

type Client struct {
	log          *slog.Logger
	http         *http.Client
	limiter      *rate.Limiter
	baseURL      string
	apiKey       string
	username     string
	password     string
	pollInterval time.Duration
	maxAttempts  int
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v. An empty body is not an error.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}

	return json.Unmarshal(r.Body, v)
}

// ODataError is a structured error the platform embeds in a response body.
type ODataError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ODataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ODataError) Unwrap() error {
	return errs.ErrRemote
}

type odataErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message struct {
			Value string `json:"value"`
		} `json:"message"`
	} `json:"odata.error"`
}

type list[T any] struct {
	Value []T `json:"value"`
}

func New(log *slog.Logger, cfg config.Mediasite, jobs config.Jobs) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
		burst = cfg.RatePerSec
	}

	pollInterval := jobs.PollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	return &Client{
		log:          log,
		http:         &http.Client{Transport: transport, Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(limit, burst),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/") + "/",
		apiKey:       cfg.APIKey,
		username:     cfg.Username,
		password:     cfg.Password,
		pollInterval: pollInterval,
		maxAttempts:  jobs.MaxAttempts,
	}
}

// Call issues a request against a resource path relative to the API root.
// Transport failures wrap errs.ErrTransport; OData error payloads are returned
// as *ODataError; other non-2xx statuses wrap errs.ErrRemote.
func (c *Client) Call(ctx context.Context, verb Verb, resource string, query url.Values, body any) (*Response, error) {
	u := c.baseURL + resource
	if len(query) > 0 {
		u += "?" + encodeQuery(query)
	}

	return c.do(ctx, verb, u, body)
}

// GetJob fetches an absolute job link as returned by the platform.
func (c *Client) GetJob(ctx context.Context, jobLink string) (*Response, error) {
	return c.do(ctx, Get, jobLink, nil)
}

// Stream copies the body of an absolute download link into w.
func (c *Client) Stream(ctx context.Context, link string, w io.Writer) (int64, error) {
	const op = "mediasite.Stream"

	resp, err := c.send(ctx, Get, link, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%s: %w: %s", op, errs.ErrRemote, resp.Status)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%s: %w: %v", op, errs.ErrTransport, err)
	}

	return n, nil
}

// Ping validates the connection by requesting the site home resource.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, Get, "Home", nil, nil)

	return err
}

func (c *Client) do(ctx context.Context, verb Verb, u string, body any) (*Response, error) {
	const op = "mediasite.Call"

	resp, err := c.send(ctx, verb, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, errs.ErrTransport, err)
	}

	out := &Response{StatusCode: resp.StatusCode, Body: data}

	if oerr := parseODataError(resp.StatusCode, data); oerr != nil {
		c.log.Error("remote error", slog.String("url", u), slog.String("code", oerr.Code), slog.String("message", oerr.Message))

		return out, oerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, fmt.Errorf("%s: %w: %s", op, errs.ErrRemote, resp.Status)
	}

	return out, nil
}

func (c *Client) send(ctx context.Context, verb Verb, u string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, string(verb), u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("sfapikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.username, c.password)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}

	return resp, nil
}

func parseODataError(status int, data []byte) *ODataError {
	if !bytes.Contains(data, []byte(`"odata.error"`)) {
		return nil
	}

	var body odataErrorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error == nil {
		return nil
	}

	return &ODataError{
		StatusCode: status,
		Code:       body.Error.Code,
		Message:    body.Error.Message.Value,
	}
}

// IsODataMessage reports whether err carries an OData error with the given message.
func IsODataMessage(err error, message string) bool {
	var oerr *ODataError
	if !errors.As(err, &oerr) {
		return false
	}

	return oerr.Message == message
}

// encodeQuery keeps OData operators readable: spaces become %20 instead of "+".
func encodeQuery(q url.Values) string {
	return strings.ReplaceAll(q.Encode(), "+", "%20")
}

// filter builds an OData $filter expression, quoting string arguments.
func filter(format string, args ...string) string {
	quoted := make([]any, len(args))
	for i, a := range args {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", "''") + "'"
	}

	return fmt.Sprintf(format, quoted...)
}

func entity(collection, id string) string {
	return fmt.Sprintf("%s('%s')", collection, url.PathEscape(id))
}
