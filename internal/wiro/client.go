// Package wiro is the client for Wiro's asynchronous task API: sign, submit,
// poll until terminal, extract the result.
package wiro

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"wirotask/internal/auth/signing"
	"wirotask/internal/config"
	"wirotask/internal/logging"
	"wirotask/internal/retry"
	"wirotask/internal/task"
	"wirotask/internal/transport"
)

const (
	DefaultBaseURL      = config.DefaultBaseURL
	DefaultToolSlug     = config.DefaultToolSlug
	DefaultTimeout      = config.DefaultTimeout
	DefaultMaxAttempts  = config.DefaultMaxAttempts
	DefaultPollInterval = config.DefaultPollInterval
)

// Config holds configuration for the Wiro client.
type Config struct {
	BaseURL      string
	ToolSlug     string
	Credentials  signing.Credentials
	Timeout      time.Duration
	MaxAttempts  int
	PollInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(key, secret string) Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		ToolSlug:     DefaultToolSlug,
		Credentials:  signing.Credentials{Key: key, Secret: secret},
		Timeout:      DefaultTimeout,
		MaxAttempts:  DefaultMaxAttempts,
		PollInterval: DefaultPollInterval,
	}
}

// Client talks to one Wiro tool. It keeps no per-task state, so concurrent
// calls are independent of each other.
type Client struct {
	cfg      Config
	signer   *signing.Signer
	poster   transport.Poster
	sleeper  retry.Sleeper
	onStatus func(task.Record)

	apiLog     *zap.Logger
	submitLog  *zap.Logger
	pollLog    *zap.Logger
	extractLog *zap.Logger
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger     *zap.Logger
	poster     transport.Poster
	httpClient *http.Client
	sleeper    retry.Sleeper
	clock      func() time.Time
	onStatus   func(task.Record)
}

// WithLogger sets the base logger. Without it the category loggers from
// the logging package are used.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// WithPoster replaces the HTTP transport.
func WithPoster(p transport.Poster) Option {
	return func(o *clientOptions) { o.poster = p }
}

// WithHTTPClient uses hc for the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithSleeper replaces the sleep between poll attempts.
func WithSleeper(s retry.Sleeper) Option {
	return func(o *clientOptions) { o.sleeper = s }
}

// WithClock replaces the clock used for request signing.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) { o.clock = now }
}

// WithStatusHook registers fn to observe every record fetched while polling.
func WithStatusHook(fn func(task.Record)) Option {
	return func(o *clientOptions) { o.onStatus = fn }
}

// NewClient creates a new client with default config.
func NewClient(key, secret string, opts ...Option) *Client {
	return NewClientWithConfig(DefaultConfig(key, secret), opts...)
}

// NewClientWithConfig creates a new client with custom config. Zero fields
// fall back to the defaults.
func NewClientWithConfig(cfg Config, opts ...Option) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ToolSlug == "" {
		cfg.ToolSlug = DefaultToolSlug
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.PollInterval < 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	c := &Client{
		cfg:      cfg,
		signer:   signing.NewSignerWithClock(cfg.Credentials, o.clock),
		sleeper:  o.sleeper,
		onStatus: o.onStatus,
	}

	if o.logger != nil {
		c.apiLog = o.logger.Named(string(logging.CategoryAPI))
		c.submitLog = o.logger.Named(string(logging.CategorySubmit))
		c.pollLog = o.logger.Named(string(logging.CategoryPoll))
		c.extractLog = o.logger.Named(string(logging.CategoryExtract))
	} else {
		c.apiLog = logging.Get(logging.CategoryAPI)
		c.submitLog = logging.Get(logging.CategorySubmit)
		c.pollLog = logging.Get(logging.CategoryPoll)
		c.extractLog = logging.Get(logging.CategoryExtract)
	}

	switch {
	case o.poster != nil:
		c.poster = o.poster
	case o.httpClient != nil:
		c.poster = transport.NewClientWithHTTP(o.httpClient, c.apiLog)
	default:
		c.poster = transport.NewClient(cfg.Timeout, c.apiLog)
	}
	if c.sleeper == nil {
		c.sleeper = retry.TimerSleeper{}
	}

	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Policy returns the client's default poll policy.
func (c *Client) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.cfg.MaxAttempts,
		Interval:    c.cfg.PollInterval,
		Sleeper:     c.sleeper,
	}
}

// SignedHeaders returns a freshly signed header set.
func (c *Client) SignedHeaders() signing.Headers {
	return c.signer.Headers()
}

func (c *Client) runURL() string {
	return c.cfg.BaseURL + "/Run/" + strings.TrimLeft(c.cfg.ToolSlug, "/")
}

func (c *Client) detailURL() string {
	return c.cfg.BaseURL + "/Task/Detail"
}

// ConfigFrom maps the file/env configuration onto a client Config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		BaseURL:      cfg.API.BaseURL,
		ToolSlug:     cfg.API.ToolSlug,
		Credentials:  signing.Credentials{Key: cfg.API.Key, Secret: cfg.API.Secret},
		Timeout:      cfg.GetTimeout(),
		MaxAttempts:  cfg.Poll.MaxAttempts,
		PollInterval: cfg.GetPollInterval(),
	}
}
