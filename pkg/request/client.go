package request

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/acts-bd/acts-client/pkg/csrf"
	"github.com/acts-bd/acts-client/pkg/httpclient"
	"github.com/acts-bd/acts-client/pkg/notify"
)

const (
	// FailurePrefix starts the text of every failure notification.
	FailurePrefix = "Request failed: "

	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
	maxBodySnippet    = 512
)

// Options overrides the request defaults. Caller headers replace defaults key by
// key (case-insensitively); default headers the caller omits are kept.
type Options struct {
	Method  string
	Headers map[string]string
	Query   map[string]string
	Body    any
}

// Client performs JSON requests with CSRF defaults and centralised failure reporting.
type Client struct {
	transport httpclient.Client
	cookies   csrf.Source
	notifier  notify.Notifier
	log       Logger
}

// Option customises a Client.
type Option func(*Client)

// WithCookies sets where the CSRF token is read from.
func WithCookies(src csrf.Source) Option { return func(c *Client) { c.cookies = src } }

// WithNotifier sets the sink failure notifications go to.
func WithNotifier(n notify.Notifier) Option { return func(c *Client) { c.notifier = n } }

// WithLogger sets the diagnostic logger.
func WithLogger(log Logger) Option { return func(c *Client) { c.log = log } }

// New builds a Client over transport.
func New(transport httpclient.Client, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, errors.New("request client requires a transport")
	}
	c := &Client{transport: transport}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.log = ensureLogger(c.log)
	if c.notifier == nil {
		c.notifier = notify.NotifierFunc(func(context.Context, notify.Notification) {})
	}
	return c, nil
}

// Request starts the call and returns immediately. The returned Call completes
// exactly once with the parsed JSON body or the failure.
func (c *Client) Request(ctx context.Context, url string, opts *Options) *Call {
	return c.start(ctx, url, opts, decodeAny)
}

// Do is the blocking form of Request.
func (c *Client) Do(ctx context.Context, url string, opts *Options) (any, error) {
	return c.Request(ctx, url, opts).Wait()
}

// DoInto performs the request and decodes the JSON body into out.
func (c *Client) DoInto(ctx context.Context, url string, opts *Options, out any) error {
	_, err := c.start(ctx, url, opts, func(body []byte) (any, error) {
		return out, json.Unmarshal(body, out)
	}).Wait()
	return err
}

// DecodeInto performs the request and decodes the JSON body into a T.
func DecodeInto[T any](ctx context.Context, c *Client, url string, opts *Options) (T, error) {
	var v T
	err := c.DoInto(ctx, url, opts, &v)
	return v, err
}

func decodeAny(body []byte) (any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) start(ctx context.Context, url string, opts *Options, decode func([]byte) (any, error)) *Call {
	if ctx == nil {
		ctx = context.Background()
	}
	call := newCall()
	go func() {
		v, err := c.execute(ctx, url, opts, decode)
		call.finish(v, err)
	}()
	return call
}

func (c *Client) execute(ctx context.Context, url string, opts *Options, decode func([]byte) (any, error)) (any, error) {
	eff := c.merge(opts)
	c.log.DebugObj("sending request", "request", map[string]any{
		"method": eff.Method,
		"url":    url,
	})

	if strings.TrimSpace(url) == "" {
		return nil, c.fail(ctx, url, &TransportError{URL: url, Err: errors.New("empty url")})
	}

	resp, err := c.transport.Do(ctx, httpclient.Request{
		Method:  eff.Method,
		URL:     url,
		Headers: eff.Headers,
		Query:   eff.Query,
		Body:    eff.Body,
	})
	if err != nil {
		return nil, c.fail(ctx, url, &TransportError{URL: url, Err: err})
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, c.fail(ctx, url, &HTTPStatusError{
			Status: status,
			URL:    url,
			Body:   bodySnippet(resp.Body()),
		})
	}

	v, err := decode(resp.Body())
	if err != nil {
		return nil, c.fail(ctx, url, &ParseError{URL: url, Err: err})
	}
	return v, nil
}

// fail logs err, raises one danger notification and hands err back unchanged.
func (c *Client) fail(ctx context.Context, url string, err error) error {
	c.log.ErrorObj("Request failed", "request_error", map[string]any{
		"url":   url,
		"error": err.Error(),
	})
	c.notifier.Notify(context.WithoutCancel(ctx), notify.Danger(FailurePrefix+err.Error()))
	return err
}

// merge layers opts over the defaults.
func (c *Client) merge(opts *Options) Options {
	eff := Options{
		Method: http.MethodGet,
		Headers: map[string]string{
			headerContentType: contentTypeJSON,
			csrf.HeaderName:   csrf.FromSource(c.cookies),
		},
	}
	if opts == nil {
		return eff
	}

	if m := strings.TrimSpace(opts.Method); m != "" {
		eff.Method = m
	}
	for k, v := range opts.Headers {
		for existing := range eff.Headers {
			if strings.EqualFold(existing, k) {
				delete(eff.Headers, existing)
			}
		}
		eff.Headers[k] = v
	}
	eff.Query = opts.Query
	eff.Body = opts.Body
	return eff
}

func bodySnippet(body []byte) string {
	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	return strings.TrimSpace(string(body))
}

// Call is the pending result of Request.
type Call struct {
	done  chan struct{}
	value any
	err   error
}

func newCall() *Call { return &Call{done: make(chan struct{})} }

func (c *Call) finish(v any, err error) {
	c.value, c.err = v, err
	close(c.done)
}

// Done is closed once the call has completed.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until the call completes.
func (c *Call) Wait() (any, error) {
	<-c.done
	return c.value, c.err
}

