package csvquote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/shared/ratelimiter"
)

// Fetcher performs rate-limited GET requests against one CSV provider.
type Fetcher struct {
	Source  string // provider name used in logs and errors
	Client  *http.Client
	Limiter ratelimiter.RateLimiterInterface

	// NoDataBody is the literal body some providers send with status 200
	// for an unknown symbol or an empty range.
	NoDataBody string
}

// Get requests rawURL and parses the body with closeColumn.
//
// A non-2xx status is treated as "no data": the result is an empty series and
// a nil error. Transport failures and malformed headers are returned as errors.
func (f *Fetcher) Get(ctx context.Context, rawURL, closeColumn string) (entity.Series, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Source, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", f.Source, err)
	}
	req.Header.Set("Accept", "text/csv")

	res, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Source, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "source", f.Source, "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		slog.Warn("upstream unavailable", "source", f.Source, "status", res.StatusCode)
		return entity.Series{}, nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", f.Source, err)
	}
	if f.NoDataBody != "" && string(bytes.TrimSpace(body)) == f.NoDataBody {
		return entity.Series{}, nil
	}

	series, err := Parse(bytes.NewReader(body), closeColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Source, err)
	}
	return series, nil
}
