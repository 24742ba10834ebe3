// Package bcb is a client for the Banco Central do Brasil time-series service (SGS).
package bcb

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

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/model"
)

// DefaultBaseURL is the public SGS endpoint.
const DefaultBaseURL = "https://api.bcb.gov.br/dados/serie"

// Client defines the interface for fetching rate series from SGS.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	QuerySeriesByDateRange(ctx context.Context, seriesCode int, startDate, endDate time.Time) (Response, error)
	ParseSeries(resp Response) ([]model.RateRecord, error)
}

// Options configures a SeriesClient. Zero fields take the defaults noted on each.
type Options struct {
	BaseURL           string        // DefaultBaseURL
	Timeout           time.Duration // 30s
	MaxAttempts       int           // 3
	RetryBackoff      time.Duration // 1s, multiplied by the attempt number
	RequestsPerSecond float64       // 5; negative disables the limit
}

// SeriesClient fetches SGS series over HTTP with bounded retries and an outbound
// request limit. It is safe for concurrent use.
type SeriesClient struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	backoff     time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// errNotJSON marks a payload that is not the JSON array SGS normally returns.
var errNotJSON = errors.New("unexpected payload")

// NewSeriesClient creates a SeriesClient from opts. A nil logger disables logging.
func NewSeriesClient(opts Options, logger *zap.Logger) *SeriesClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryBackoff < 0 {
		opts.RetryBackoff = 0
	} else if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &SeriesClient{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.RetryBackoff,
		limiter:     rate.NewLimiter(limit, burst),
		logger:      logger,
	}
}

// QuerySeriesByDateRange fetches the observations of seriesCode between startDate
// and endDate, both inclusive.
//
// Transport failures, non-2xx statuses and payloads that are not JSON (SGS answers
// with an XML error page under load) are retried up to the configured number of
// attempts, waiting attempt × backoff between them. A 404 means SGS holds no values
// for the range and yields an empty Response. When every attempt fails the error
// wraps apperrors.ErrSourceUnavailable.
func (c *SeriesClient) QuerySeriesByDateRange(ctx context.Context, seriesCode int, startDate, endDate time.Time) (Response, error) {
	queryURL := c.seriesURL(seriesCode, startDate, endDate)

	var attempt uint64
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * c.backoff, false
	}))

	var result Response
	tries := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tries++
		resp, err := c.query(ctx, queryURL)
		if err != nil {
			c.logger.Warn("SGS request failed",
				zap.String("op", "bcb.QuerySeriesByDateRange"),
				zap.Int("seriesCode", seriesCode),
				zap.Int("attempt", tries),
				zap.Int("maxAttempts", c.maxAttempts),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				return err
			}
			return retry.RetryableError(err)
		}
		result = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: series %d after %d attempt(s): %w", apperrors.ErrSourceUnavailable, seriesCode, tries, err)
	}

	c.logger.Debug("SGS series fetched",
		zap.String("op", "bcb.QuerySeriesByDateRange"),
		zap.Int("seriesCode", seriesCode),
		zap.String("startDate", startDate.Format(model.SGSDateLayout)),
		zap.String("endDate", endDate.Format(model.SGSDateLayout)),
		zap.Int("points", len(result)),
	)
	return result, nil
}

// ParseSeries converts a raw SGS response into rate records, preserving order.
func (c *SeriesClient) ParseSeries(resp Response) ([]model.RateRecord, error) {
	records := make([]model.RateRecord, 0, len(resp))
	for i, p := range resp {
		date, err := time.Parse(model.SGSDateLayout, strings.TrimSpace(p.Data))
		if err != nil {
			return nil, fmt.Errorf("point %d: invalid date %q: %w", i, p.Data, err)
		}
		value := strings.TrimSpace(p.Valor)
		if value == "" {
			return nil, fmt.Errorf("point %d (%s): %w", i, p.Data, apperrors.ErrMissingRequiredField)
		}
		records = append(records, model.RateRecord{Date: date, Value: value})
	}
	return records, nil
}

func (c *SeriesClient) seriesURL(seriesCode int, startDate, endDate time.Time) string {
	q := url.Values{}
	q.Set("formato", "json")
	q.Set("dataInicial", startDate.Format(model.SGSDateLayout))
	q.Set("dataFinal", endDate.Format(model.SGSDateLayout))
	return fmt.Sprintf("%s/bcdata.sgs.%d/dados?%s", c.baseURL, seriesCode, q.Encode())
}

// query performs a single SGS request.
func (c *SeriesClient) query(ctx context.Context, queryURL string) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return Response{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<")) {
		return nil, fmt.Errorf("%w: XML instead of JSON", errNotJSON)
	}

	var response Response
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotJSON, err)
	}
	return response, nil
}
