package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// Weather thresholds that move prop volume
const (
	heavyWindMPH    = 20.0
	breezyWindMPH   = 12.0
	wetPrecipChance = 0.60
	frigidTempF     = 15.0
)

// WeatherAgent grades kickoff-window conditions. Wind and rain punish the
// passing game and push volume to the ground; domes read as a controlled,
// mildly pass-friendly environment.
type WeatherAgent struct{}

// NewWeatherAgent creates the weather impact agent
func NewWeatherAgent() *WeatherAgent { return &WeatherAgent{} }

// Name returns the agent identifier
func (a *WeatherAgent) Name() string { return NameWeather }

// Analyze grades wind, precipitation and temperature for the stat family
func (a *WeatherAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	wx, ok := week.WeatherFor(prop.GameKey)
	if !ok {
		return nil, noSignal("no weather report for game %s", prop.GameKey)
	}

	if wx.Dome {
		if prop.StatType.IsPassing() {
			return verdict(a.Name(), 55, "dome game: controlled passing environment"), nil
		}
		return verdict(a.Name(), 50, "dome game: no weather effect on the ground game"), nil
	}

	score := 50.0
	var rationale []string

	passing := prop.StatType.IsPassing()
	switch {
	case wx.WindMPH >= heavyWindMPH:
		if passing {
			// Short receptions survive wind better than air yards do
			if prop.StatType == models.StatReceptions {
				score -= 12
			} else {
				score -= 22
			}
			rationale = append(rationale, fmt.Sprintf("heavy wind (%.0f mph) grounds the passing game", wx.WindMPH))
		} else {
			score += 10
			rationale = append(rationale, fmt.Sprintf("heavy wind (%.0f mph) funnels volume to the run", wx.WindMPH))
		}
	case wx.WindMPH >= breezyWindMPH:
		if passing {
			score -= 8
			rationale = append(rationale, fmt.Sprintf("breezy (%.0f mph) trims deep passing", wx.WindMPH))
		} else {
			score += 5
			rationale = append(rationale, fmt.Sprintf("breezy (%.0f mph) nudges run volume", wx.WindMPH))
		}
	}

	if wx.PrecipChance >= wetPrecipChance {
		if passing {
			score -= 8
		} else {
			score += 4
		}
		rationale = append(rationale, fmt.Sprintf("%.0f%% precipitation chance", wx.PrecipChance*100))
	}

	if wx.TemperatureF <= frigidTempF && wx.TemperatureF != 0 && passing {
		score -= 5
		rationale = append(rationale, fmt.Sprintf("frigid kickoff (%.0fF) stiffens the ball", wx.TemperatureF))
	}

	if len(rationale) == 0 {
		rationale = append(rationale, "benign outdoor conditions")
	}

	return verdict(a.Name(), score, rationale...), nil
}
