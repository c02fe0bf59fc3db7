package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// PublicURL is the keyless public API.
	PublicURL = "https://api.coingecko.com/api/v3"
	// ProURL is the paid API; it needs an API key.
	ProURL = "https://pro-api.coingecko.com/api/v3"

	demoKeyHeader = "x-cg-demo-api-key"
	proKeyHeader  = "x-cg-pro-api-key"

	maxErrorBody = 4 * 1024
)

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration // default 30s
	RequestsPerSec float64       // default 5
	Burst          int           // default 5
	// MaxRetries enables retrying network errors, 429 and 5xx responses
	// with exponential backoff. Zero, the default, sends each request once.
	MaxRetries int
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the CoinGecko v3 REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     zerolog.Logger
}

// NewClient creates a CoinGecko client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = PublicURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := log.With().Str("component", "coingecko").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		maxRetries: opts.MaxRetries,
		logger:     logger,
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON fetches path and decodes the body into out. Every failure comes
// back as a *FetchError.
func (c *Client) getJSON(ctx context.Context, op, coinID, path string, params url.Values, out any) error {
	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	body, err := c.fetch(ctx, apiURL)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Str("url", apiURL).Msg("request failed")
		return &FetchError{Op: op, CoinID: coinID, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Op: op, CoinID: coinID, Err: &ParseError{Err: err}}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, apiURL string) ([]byte, error) {
	var body []byte

	attempt := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(&NetworkError{Err: err})
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			if strings.HasPrefix(c.baseURL, ProURL) {
				req.Header.Set(proKeyHeader, c.apiKey)
			} else {
				req.Header.Set(demoKeyHeader, c.apiKey)
			}
		}

		c.logger.Debug().Str("url", apiURL).Msg("GET")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(&NetworkError{Err: err})
			}
			return &NetworkError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			serr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
			if serr.Temporary() {
				return serr
			}
			return backoff.Permanent(serr)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return &NetworkError{Err: fmt.Errorf("read body: %w", err)}
		}
		body = b
		return nil
	}

	if c.maxRetries <= 0 {
		return body, unwrapPermanent(attempt())
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Dur("wait", wait).Str("url", apiURL).Msg("retrying")
	}
	if err := unwrapPermanent(backoff.RetryNotify(attempt, policy, notify)); err != nil {
		return nil, classify(err)
	}
	return body, nil
}

// classify wraps errors that escaped the retry loop unclassified, such as
// the context expiring during a backoff wait.
func classify(err error) error {
	var (
		ne *NetworkError
		se *HTTPStatusError
		pe *ParseError
		ve *ValidationError
	)
	if errors.As(err, &ne) || errors.As(err, &se) || errors.As(err, &pe) || errors.As(err, &ve) {
		return err
	}
	return &NetworkError{Err: err}
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

// validateID rejects identifiers that cannot be placed in a URL path.
func validateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &ValidationError{Field: "coin id", Reason: "must not be empty"}
	}
	if strings.ContainsAny(id, "/?#") {
		return "", &ValidationError{Field: "coin id", Reason: fmt.Sprintf("%q is not URL safe", id)}
	}
	return id, nil
}
