package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPProvider fetches week bundles from the internal context feed
type HTTPProvider struct {
	client  *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// HTTPProviderConfig holds the context feed settings
type HTTPProviderConfig struct {
	BaseURL string
	APIKey  string
	Client  HTTPClientConfig
}

// NewHTTPProvider creates a provider backed by the context feed service
func NewHTTPProvider(cfg HTTPProviderConfig, logger *logrus.Logger) *HTTPProvider {
	return &HTTPProvider{
		client:  NewRateLimitedHTTPClient(cfg.Client, logger),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// FetchWeek retrieves the context bundle for the given season and week
func (p *HTTPProvider) FetchWeek(ctx context.Context, season, week int) (*WeekContext, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/v1/context/%d/%d", p.baseURL, season, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build context request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("context feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var bundle WeekContext
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode week context: %w", err)
	}
	if bundle.Season != season || bundle.Week != week {
		return nil, fmt.Errorf("context feed returned season %d week %d, wanted %d/%d",
			bundle.Season, bundle.Week, season, week)
	}
	if bundle.FetchedAt.IsZero() {
		bundle.FetchedAt = time.Now().UTC()
	}

	p.logger.WithFields(logrus.Fields{
		"season":   season,
		"week":     week,
		"games":    len(bundle.Games),
		"players":  len(bundle.Usage),
		"duration": time.Since(start),
	}).Info("Fetched week context bundle")

	return &bundle, nil
}

// Name returns the provider name
func (p *HTTPProvider) Name() string { return "context-feed" }

// Close releases the underlying HTTP client
func (p *HTTPProvider) Close() error {
	return p.client.Close()
}
