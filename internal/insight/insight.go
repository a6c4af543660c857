// Package insight fetches the one-line commentary shown after each
// calculation. Failures never reach the caller: they collapse into fixed
// fallback texts.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ReadyText      = "Ready for math magic?"
	FallbackText   = "Math is the language of the universe."
	EmptyReplyText = "Calculation complete."
	ComplexText    = "That expression looks complex even for me!"

	DefaultTimeout = 10 * time.Second
)

var ErrNotConfigured = errors.New("insight: generator not configured")

type Request struct {
	Expression string
	Result     string
}

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service interface {
	Insight(ctx context.Context, req Request) string
}

func Prompt(req Request) string {
	return fmt.Sprintf(
		"Provide a very short (max 15 words) fun fact or interesting mathematical perspective about the result %q from the calculation %q. Keep it witty and scientific.",
		req.Result, req.Expression,
	)
}

func RecallText(expression, result string) string {
	return fmt.Sprintf("Recalling: %s = %s", expression, result)
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps a Generator with a per-request timeout and the fallback
// texts. Identical in-flight requests share one generator call.
type Client struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
	group   singleflight.Group
}

func New(gen Generator, opts ...Option) *Client {
	c := &Client{
		gen:     gen,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Insight(ctx context.Context, req Request) string {
	key := req.Expression + "\x00" + req.Result
	v, _, _ := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, req), nil
	})
	return v.(string)
}

func (c *Client) fetch(ctx context.Context, req Request) string {
	if c.gen == nil {
		c.logger.Debug("insight skipped", zap.Error(ErrNotConfigured))
		return FallbackText
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.gen.Generate(ctx, Prompt(req))
	if err != nil {
		c.logger.Warn("insight request failed",
			zap.String("expression", req.Expression),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return FallbackText
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyReplyText
	}
	c.logger.Debug("insight received", zap.Duration("elapsed", time.Since(start)))
	return text
}
