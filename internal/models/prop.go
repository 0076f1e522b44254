package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Position represents an offensive skill position
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// IsValid checks whether the position is one the engine scores
func (p Position) IsValid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// StatType represents the market stat a prop line is written against
type StatType string

const (
	StatPassingYards    StatType = "passing_yards"
	StatPassingTDs      StatType = "passing_tds"
	StatRushingYards    StatType = "rushing_yards"
	StatRushingAttempts StatType = "rushing_attempts"
	StatReceivingYards  StatType = "receiving_yards"
	StatReceptions      StatType = "receptions"
)

// IsValid checks whether the stat type is supported
func (s StatType) IsValid() bool {
	switch s {
	case StatPassingYards, StatPassingTDs, StatRushingYards,
		StatRushingAttempts, StatReceivingYards, StatReceptions:
		return true
	}
	return false
}

// IsPassing reports whether the stat accrues through the passing game
func (s StatType) IsPassing() bool {
	switch s {
	case StatPassingYards, StatPassingTDs, StatReceivingYards, StatReceptions:
		return true
	}
	return false
}

// Direction represents the side of a prop line
type Direction string

const (
	DirectionOver  Direction = "OVER"
	DirectionUnder Direction = "UNDER"
	DirectionAvoid Direction = "AVOID"
)

// DefaultAmericanOdds is assumed when a candidate carries no market price.
const DefaultAmericanOdds = -110

// PropCandidate represents a single player prop line under analysis
type PropCandidate struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Player      string    `db:"player" json:"player"`
	PlayerKey   string    `db:"player_key" json:"player_key"` // normalized lookup key
	Team        string    `db:"team" json:"team"`
	Opponent    string    `db:"opponent" json:"opponent"`
	Position    Position  `db:"position" json:"position"`
	StatType    StatType  `db:"stat_type" json:"stat_type"`
	Line        float64   `db:"line" json:"line"`
	MarketOdds  int       `db:"market_odds" json:"market_odds"` // American; 0 means unknown
	GameKey     string    `db:"game_key" json:"game_key"`
	Season      int       `db:"season" json:"season"`
	Week        int       `db:"week" json:"week"`
	KickoffTime time.Time `db:"kickoff_time" json:"kickoff_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Validate checks required fields and constraints. Failures wrap
// ErrMalformedContext so batch callers can isolate the prop.
func (p *PropCandidate) Validate() error {
	if p.Player == "" {
		return fmt.Errorf("player is required: %w", ErrMalformedContext)
	}
	if p.PlayerKey == "" {
		return fmt.Errorf("player_key is required: %w", ErrMalformedContext)
	}
	if !p.Position.IsValid() {
		return fmt.Errorf("unknown position %q: %w", p.Position, ErrMalformedContext)
	}
	if !p.StatType.IsValid() {
		return fmt.Errorf("unknown stat_type %q: %w", p.StatType, ErrMalformedContext)
	}
	if p.Line <= 0 {
		return fmt.Errorf("line must be positive, got %.1f: %w", p.Line, ErrMalformedContext)
	}
	if p.GameKey == "" {
		return fmt.Errorf("game_key is required: %w", ErrMalformedContext)
	}
	if p.Week < 1 || p.Week > 22 {
		return fmt.Errorf("week out of range (1-22), got %d: %w", p.Week, ErrMalformedContext)
	}
	if p.MarketOdds != 0 && p.MarketOdds > -100 && p.MarketOdds < 100 {
		return fmt.Errorf("american odds %d inside (-100,100): %w", p.MarketOdds, ErrMalformedContext)
	}
	return nil
}

// OddsOrDefault returns the candidate's market price, assuming the book
// standard -110 when none was captured.
func (p *PropCandidate) OddsOrDefault() int {
	if p.MarketOdds == 0 {
		return DefaultAmericanOdds
	}
	return p.MarketOdds
}

// LegKey identifies the (player, stat) pair for duplicate-leg checks
func (p *PropCandidate) LegKey() string {
	return p.PlayerKey + "|" + string(p.StatType)
}
