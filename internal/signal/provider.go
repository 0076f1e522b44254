package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Provider fetches the signal bundle for one NFL week
type Provider interface {
	// FetchWeek retrieves the context bundle for the given season and week
	FetchWeek(ctx context.Context, season, week int) (*WeekContext, error)

	// Name returns the name of the provider
	Name() string
}

// StaticProvider serves preloaded week bundles. Used for file-driven runs
// and tests.
type StaticProvider struct {
	weeks map[string]*WeekContext
}

// NewStaticProvider creates a provider over the given bundles
func NewStaticProvider(weeks ...*WeekContext) *StaticProvider {
	p := &StaticProvider{weeks: make(map[string]*WeekContext, len(weeks))}
	for _, w := range weeks {
		p.weeks[weekKey(w.Season, w.Week)] = w
	}
	return p
}

// FetchWeek returns the preloaded bundle for the week
func (p *StaticProvider) FetchWeek(_ context.Context, season, week int) (*WeekContext, error) {
	w, ok := p.weeks[weekKey(season, week)]
	if !ok {
		return nil, fmt.Errorf("no context loaded for season %d week %d", season, week)
	}
	return w, nil
}

// Name returns the provider name
func (p *StaticProvider) Name() string { return "static" }

// LoadFile reads a week bundle from a JSON file
func LoadFile(path string) (*WeekContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	var w WeekContext
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}
	return &w, nil
}

func weekKey(season, week int) string {
	return fmt.Sprintf("%d-%d", season, week)
}
