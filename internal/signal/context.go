// Package signal provides the weekly context bundle the scoring agents read:
// team efficiency, matchups, usage, injuries, trends, game environment,
// weather, line history and market prices for one NFL week. Every category is
// optional; agents that find their category absent abstain.
package signal

import (
	"fmt"
	"time"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// TeamEfficiency holds composite offensive and defensive ratings for a team.
// Ratings are centered on zero; positive is better than league average.
type TeamEfficiency struct {
	Team          string  `json:"team"`
	OffenseRating float64 `json:"offense_rating"`
	DefenseRating float64 `json:"defense_rating"`
	PassOffense   float64 `json:"pass_offense"`
	RushOffense   float64 `json:"rush_offense"`
	PassDefense   float64 `json:"pass_defense"`
	RushDefense   float64 `json:"rush_defense"`
	PlaysPerGame  float64 `json:"plays_per_game"`
}

// DefenseVsPosition describes how a defense has fared against one position
type DefenseVsPosition struct {
	Team           string          `json:"team"`
	Position       models.Position `json:"position"`
	Rank           int             `json:"rank"` // 1 = stingiest of 32
	YardsPerGame   float64         `json:"yards_per_game"`
	CatchesPerGame float64         `json:"catches_per_game"`
	TDsPerGame     float64         `json:"tds_per_game"`
}

// PlayerUsage captures a player's share of the team offense
type PlayerUsage struct {
	PlayerKey    string  `json:"player_key"`
	SnapShare    float64 `json:"snap_share"`     // 0-1
	TargetShare  float64 `json:"target_share"`   // 0-1, receivers
	CarryShare   float64 `json:"carry_share"`    // 0-1, backs
	RedZoneShare float64 `json:"red_zone_share"` // 0-1
}

// InjuryReport is the designation plus the raw practice log for one player.
// PracticeLog is a comma-separated week of sessions, e.g. "DNP,LP,FP".
type InjuryReport struct {
	PlayerKey   string `json:"player_key"`
	Status      string `json:"status"` // OUT, DOUBTFUL, QUESTIONABLE, HEALTHY
	Detail      string `json:"detail,omitempty"`
	PracticeLog string `json:"practice_log,omitempty"`
}

// PlayerTrend holds recent per-stat game logs, most recent first
type PlayerTrend struct {
	PlayerKey string                        `json:"player_key"`
	Recent    map[models.StatType][]float64 `json:"recent"`
}

// GameEnvironment is the market's read of one game
type GameEnvironment struct {
	GameKey    string  `json:"game_key"`
	HomeTeam   string  `json:"home_team"`
	AwayTeam   string  `json:"away_team"`
	HomeSpread float64 `json:"home_spread"` // negative = home favored
	Total      float64 `json:"total"`
	Dome       bool    `json:"dome"`
}

// TeamSpread returns the spread from the given team's perspective,
// negative when that team is favored.
func (g GameEnvironment) TeamSpread(team string) float64 {
	if team == g.AwayTeam {
		return -g.HomeSpread
	}
	return g.HomeSpread
}

// WeatherReport holds kickoff-window conditions for one game
type WeatherReport struct {
	GameKey      string  `json:"game_key"`
	WindMPH      float64 `json:"wind_mph"`
	PrecipChance float64 `json:"precip_chance"` // 0-1
	TemperatureF float64 `json:"temperature_f"`
	Dome         bool    `json:"dome"`
}

// LineHistory is a player's graded record against one exact line
type LineHistory struct {
	PlayerKey string          `json:"player_key"`
	StatType  models.StatType `json:"stat_type"`
	Line      float64         `json:"line"`
	Overs     int             `json:"overs"`
	Samples   int             `json:"samples"`
}

// HitRate returns the fraction of graded games that went over
func (h LineHistory) HitRate() float64 {
	if h.Samples == 0 {
		return 0
	}
	return float64(h.Overs) / float64(h.Samples)
}

// MarketPrice is the book's current price for one leg
type MarketPrice struct {
	LegKey       string  `json:"leg_key"`
	Line         float64 `json:"line"`
	AmericanOdds int     `json:"american_odds"`
}

// WeekContext bundles every signal category for one NFL week. Nil maps mean
// the category was unavailable; lookups report absence rather than zeros.
type WeekContext struct {
	Season      int                          `json:"season"`
	Week        int                          `json:"week"`
	Efficiency  map[string]TeamEfficiency    `json:"efficiency,omitempty"`   // by team
	Defense     map[string]DefenseVsPosition `json:"defense,omitempty"`      // by team|position
	Usage       map[string]PlayerUsage       `json:"usage,omitempty"`        // by player key
	Injuries    map[string]InjuryReport      `json:"injuries,omitempty"`     // by player key
	Trends      map[string]PlayerTrend       `json:"trends,omitempty"`       // by player key
	Games       map[string]GameEnvironment   `json:"games,omitempty"`        // by game key
	Weather     map[string]WeatherReport     `json:"weather,omitempty"`      // by game key
	LineHistory map[string]LineHistory       `json:"line_history,omitempty"` // by player|stat|line
	Markets     map[string]MarketPrice       `json:"markets,omitempty"`      // by leg key
	FetchedAt   time.Time                    `json:"fetched_at"`
}

// TeamEfficiencyFor looks up a team's efficiency profile
func (w *WeekContext) TeamEfficiencyFor(team string) (TeamEfficiency, bool) {
	e, ok := w.Efficiency[team]
	return e, ok
}

// DefenseFor looks up a defense-vs-position profile
func (w *WeekContext) DefenseFor(team string, pos models.Position) (DefenseVsPosition, bool) {
	d, ok := w.Defense[DefenseKey(team, pos)]
	return d, ok
}

// UsageFor looks up a player's usage profile
func (w *WeekContext) UsageFor(playerKey string) (PlayerUsage, bool) {
	u, ok := w.Usage[playerKey]
	return u, ok
}

// InjuryFor looks up a player's injury report
func (w *WeekContext) InjuryFor(playerKey string) (InjuryReport, bool) {
	r, ok := w.Injuries[playerKey]
	return r, ok
}

// TrendFor looks up a player's recent game log
func (w *WeekContext) TrendFor(playerKey string) (PlayerTrend, bool) {
	t, ok := w.Trends[playerKey]
	return t, ok
}

// GameFor looks up the market environment for a game
func (w *WeekContext) GameFor(gameKey string) (GameEnvironment, bool) {
	g, ok := w.Games[gameKey]
	return g, ok
}

// WeatherFor looks up the weather report for a game
func (w *WeekContext) WeatherFor(gameKey string) (WeatherReport, bool) {
	r, ok := w.Weather[gameKey]
	return r, ok
}

// LineHistoryFor looks up a player's record against an exact line
func (w *WeekContext) LineHistoryFor(playerKey string, stat models.StatType, line float64) (LineHistory, bool) {
	h, ok := w.LineHistory[LineKey(playerKey, stat, line)]
	return h, ok
}

// MarketFor looks up the book price for a leg
func (w *WeekContext) MarketFor(legKey string) (MarketPrice, bool) {
	m, ok := w.Markets[legKey]
	return m, ok
}

// DefenseKey builds the lookup key for defense-vs-position profiles
func DefenseKey(team string, pos models.Position) string {
	return team + "|" + string(pos)
}

// LineKey builds the lookup key for line-history records
func LineKey(playerKey string, stat models.StatType, line float64) string {
	return fmt.Sprintf("%s|%s|%.1f", playerKey, stat, line)
}
