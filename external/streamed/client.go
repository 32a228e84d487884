package streamed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/razorbill/livematch/internal/domain/match"
	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/domain/stream"
	"github.com/razorbill/livematch/internal/platform/logging"
	"github.com/razorbill/livematch/internal/platform/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://streamed.su"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// ErrTransient marks failures worth retrying: network errors, 5xx and 429
// responses. Callers own the retry policy; the client only classifies.
var ErrTransient = crerr.New("streamed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	BearerToken    string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the streaming directory API: the sports directory, the
// live/today/per-sport popular match feeds and per-source stream resolution.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.BearerToken),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Sports(ctx context.Context) ([]sport.Sport, error) {
	var payload []sportPayload
	if err := c.doJSON(ctx, "/api/sports", &payload); err != nil {
		return nil, fmt.Errorf("fetch sports directory: %w", err)
	}
	return mapSports(payload), nil
}

func (c *Client) LiveMatches(ctx context.Context) ([]match.Match, error) {
	var payload []matchPayload
	if err := c.doJSON(ctx, "/api/matches/live/popular", &payload); err != nil {
		return nil, fmt.Errorf("fetch live matches: %w", err)
	}
	return mapMatches(payload), nil
}

func (c *Client) TodayMatches(ctx context.Context) ([]match.Match, error) {
	var payload []matchPayload
	if err := c.doJSON(ctx, "/api/matches/today/popular", &payload); err != nil {
		return nil, fmt.Errorf("fetch today matches: %w", err)
	}
	return mapMatches(payload), nil
}

func (c *Client) MatchesBySport(ctx context.Context, sportID string) ([]match.Match, error) {
	sportID = strings.TrimSpace(sportID)
	if sportID == "" {
		return nil, fmt.Errorf("sport id is required")
	}

	var payload []matchPayload
	path := fmt.Sprintf("/api/matches/%s/popular", url.PathEscape(sportID))
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetch matches sport_id=%s: %w", sportID, err)
	}
	return mapMatches(payload), nil
}

func (c *Client) AllMatches(ctx context.Context) ([]match.Match, error) {
	var payload []matchPayload
	if err := c.doJSON(ctx, "/api/matches/all/popular", &payload); err != nil {
		return nil, fmt.Errorf("fetch all matches: %w", err)
	}
	return mapMatches(payload), nil
}

// Streams resolves one source reference into its playable streams. A provider
// may fan a single reference out into several streams, or none.
func (c *Client) Streams(ctx context.Context, ref match.SourceRef) ([]stream.Descriptor, error) {
	if strings.TrimSpace(ref.Source) == "" || strings.TrimSpace(ref.ID) == "" {
		return nil, fmt.Errorf("source reference is incomplete")
	}

	var payload []streamPayload
	path := fmt.Sprintf("/api/stream/%s/%s", url.PathEscape(ref.Source), url.PathEscape(ref.ID))
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("resolve streams source=%s: %w", ref.Source, err)
	}
	return mapStreams(payload), nil
}

// BadgeURL builds the image URL for a team badge reference. Badges are
// referenced by URL and never fetched by this client.
func (c *Client) BadgeURL(badge string) string {
	badge = strings.TrimSpace(badge)
	if badge == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/images/badge/%s.webp", c.baseURL, url.PathEscape(badge))
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "streamed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: streaming directory is temporarily unavailable", ErrTransient)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, ErrTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	// A payload that is not the expected shape (e.g. an HTML error page or a
	// JSON object where an array is due) fails here, not in render logic.
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.token != "" {
		req.Header.Set("authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %s", ErrTransient, sanitizeSensitiveText(err.Error(), c.token))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	if isRetryableStatus(resp.StatusCode) {
		err = fmt.Errorf("%w: feed status=%d body=%s", ErrTransient, resp.StatusCode, abbreviateBody(raw))
	} else {
		err = fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
	c.logger.WarnContext(ctx, "streamed request failed", "url", fullURL, "status", resp.StatusCode)
	return nil, err
}

func isRetryableStatus(status int) bool {
	if status >= 500 {
		return true
	}
	return status == http.StatusTooManyRequests || status == http.StatusRequestTimeout
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}
