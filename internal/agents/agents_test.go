package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

func testProp() *models.PropCandidate {
	return &models.PropCandidate{
		Player:    "Josh Allen",
		PlayerKey: "josh allen",
		Team:      "BUF",
		Opponent:  "KC",
		Position:  models.PositionQB,
		StatType:  models.StatPassingYards,
		Line:      249.5,
		GameKey:   "2025-w05-KC@BUF",
		Season:    2025,
		Week:      5,
	}
}

func emptyWeek() *signal.WeekContext {
	return &signal.WeekContext{Season: 2025, Week: 5}
}

func TestBuildRegistry(t *testing.T) {
	registry := BuildRegistry(0)
	require.Len(t, registry, 9)

	names := make([]string, 0, len(registry))
	for _, agent := range registry {
		names = append(names, agent.Name())
	}
	assert.Equal(t, Names(), names)
}

func TestAllAgentsAbstainOnEmptyContext(t *testing.T) {
	prop := testProp()
	week := emptyWeek()

	for _, agent := range BuildRegistry(0) {
		t.Run(agent.Name(), func(t *testing.T) {
			v, err := agent.Analyze(context.Background(), prop, week)
			assert.Nil(t, v)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrMissingSignal)
		})
	}
}

func TestLadderGrade(t *testing.T) {
	l := ladder{
		Bands: []band{
			{Floor: 10, Score: 80},
			{Floor: 0, Score: 60},
		},
		Fallback: band{Score: 30},
	}

	assert.Equal(t, 80.0, l.grade(15).Score)
	assert.Equal(t, 80.0, l.grade(10).Score)
	assert.Equal(t, 60.0, l.grade(3).Score)
	assert.Equal(t, 30.0, l.grade(-1).Score)
}

func TestVerdictClampsAndDirects(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		wantScore float64
		wantDir   models.Direction
	}{
		{"Clamped high", 130, 100, models.DirectionOver},
		{"Clamped low", -20, 0, models.DirectionUnder},
		{"Over lean", 55, 55, models.DirectionOver},
		{"Under lean", 45, 45, models.DirectionUnder},
		{"Dead zone", 50, 50, models.DirectionAvoid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := verdict("test", tt.score, "because")
			assert.Equal(t, tt.wantScore, v.Score)
			assert.Equal(t, tt.wantDir, v.Direction)
		})
	}
}

func TestEfficiencyAgent(t *testing.T) {
	prop := testProp()
	week := emptyWeek()
	week.Efficiency = map[string]signal.TeamEfficiency{
		"BUF": {Team: "BUF", PassOffense: 8.2, RushOffense: 0.5},
		"KC":  {Team: "KC", PassDefense: -2.5, RushDefense: 3.0},
	}

	agent := NewEfficiencyAgent()
	v, err := agent.Analyze(context.Background(), prop, week)
	require.NoError(t, err)

	// +8.2 vs -2.5 is a 10.7 differential, the top band
	assert.Equal(t, 78.0, v.Score)
	assert.Equal(t, models.DirectionOver, v.Direction)
	assert.NotEmpty(t, v.Rationale)

	// Rushing prop reads the rush units instead
	rush := testProp()
	rush.StatType = models.StatRushingYards
	v, err = agent.Analyze(context.Background(), rush, week)
	require.NoError(t, err)
	// 0.5 vs 3.0 is a -2.5 differential
	assert.Equal(t, 42.0, v.Score)
}

func TestEfficiencyAgentAbstainsWithoutOpponent(t *testing.T) {
	prop := testProp()
	week := emptyWeek()
	week.Efficiency = map[string]signal.TeamEfficiency{
		"BUF": {Team: "BUF", PassOffense: 8.2},
	}

	_, err := NewEfficiencyAgent().Analyze(context.Background(), prop, week)
	assert.ErrorIs(t, err, models.ErrMissingSignal)
}

func TestMatchupAgent(t *testing.T) {
	prop := testProp()
	prop.Position = models.PositionWR
	prop.StatType = models.StatReceptions
	week := emptyWeek()
	week.Defense = map[string]signal.DefenseVsPosition{
		signal.DefenseKey("KC", models.PositionWR): {
			Team: "KC", Position: models.PositionWR, Rank: 29, CatchesPerGame: 7.1,
		},
	}

	v, err := NewMatchupAgent().Analyze(context.Background(), prop, week)
	require.NoError(t, err)
	// Bottom-five rank (74) plus the catch-volume bump
	assert.Equal(t, 78.0, v.Score)
	assert.Len(t, v.Rationale, 2)
}

func TestUsageAgentByStatFamily(t *testing.T) {
	week := emptyWeek()
	week.Usage = map[string]signal.PlayerUsage{
		"josh allen": {PlayerKey: "josh allen", SnapShare: 0.99, TargetShare: 0.30, CarryShare: 0.12},
	}

	tests := []struct {
		name string
		stat models.StatType
		want float64
	}{
		{"Passing reads snap share", models.StatPassingYards, 60},
		{"Receiving reads target share", models.StatReceivingYards, 72},
		{"Rushing reads carry share", models.StatRushingAttempts, 42},
	}

	agent := NewUsageAgent()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := testProp()
			prop.StatType = tt.stat
			v, err := agent.Analyze(context.Background(), prop, week)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Score)
		})
	}
}

func TestInjuryAgent(t *testing.T) {
	tests := []struct {
		name      string
		report    signal.InjuryReport
		wantScore float64
		wantDir   models.Direction
	}{
		{
			"Ruled out",
			signal.InjuryReport{Status: "OUT", Detail: "ankle"},
			5, models.DirectionUnder,
		},
		{
			"Doubtful",
			signal.InjuryReport{Status: "DOUBTFUL", Detail: "hamstring"},
			18, models.DirectionUnder,
		},
		{
			"Questionable, no log",
			signal.InjuryReport{Status: "QUESTIONABLE", Detail: "shoulder"},
			40, models.DirectionUnder,
		},
		{
			"Questionable trending up to full",
			signal.InjuryReport{Status: "QUESTIONABLE", Detail: "shoulder", PracticeLog: "DNP,LP,FP"},
			50, models.DirectionAvoid,
		},
		{
			"Questionable, never practiced",
			signal.InjuryReport{Status: "QUESTIONABLE", Detail: "knee", PracticeLog: "DNP,DNP,DNP"},
			30, models.DirectionUnder,
		},
		{
			"Healthy",
			signal.InjuryReport{Status: "HEALTHY"},
			55, models.DirectionOver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Fresh agent per case: the report cache is keyed by player+week
			agent := NewInjuryAgent(time.Minute)
			prop := testProp()
			week := emptyWeek()
			week.Injuries = map[string]signal.InjuryReport{"josh allen": tt.report}

			v, err := agent.Analyze(context.Background(), prop, week)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, v.Score)
			assert.Equal(t, tt.wantDir, v.Direction)
		})
	}
}

func TestInjuryAgentRejectsUnknownStatus(t *testing.T) {
	prop := testProp()
	week := emptyWeek()
	week.Injuries = map[string]signal.InjuryReport{
		"josh allen": {Status: "MAYBE"},
	}

	_, err := NewInjuryAgent(time.Minute).Analyze(context.Background(), prop, week)
	assert.ErrorIs(t, err, models.ErrMalformedContext)
}

func TestParsePracticeLog(t *testing.T) {
	trend := parsePracticeLog("DNP, LP, FP")
	assert.Equal(t, 3, trend.Sessions)
	assert.True(t, trend.FullFinal)
	assert.True(t, trend.Improving)
	assert.False(t, trend.AllOut)

	trend = parsePracticeLog("DNP,DNP")
	assert.True(t, trend.AllOut)
	assert.False(t, trend.Improving)
}

func TestInjuryReportCacheReuse(t *testing.T) {
	agent := NewInjuryAgent(time.Minute)
	prop := testProp()
	week := emptyWeek()
	week.Injuries = map[string]signal.InjuryReport{
		"josh allen": {Status: "QUESTIONABLE", Detail: "shoulder", PracticeLog: "LP,FP"},
	}

	_, err := agent.Analyze(context.Background(), prop, week)
	require.NoError(t, err)
	assert.Equal(t, 1, agent.reports.ItemCount())

	// Second prop for the same player hits the parsed report
	second := testProp()
	second.StatType = models.StatPassingTDs
	_, err = agent.Analyze(context.Background(), second, week)
	require.NoError(t, err)
	assert.Equal(t, 1, agent.reports.ItemCount())
}

func TestTrendAgent(t *testing.T) {
	prop := testProp()
	week := emptyWeek()
	week.Trends = map[string]signal.PlayerTrend{
		"josh allen": {
			PlayerKey: "josh allen",
			Recent: map[models.StatType][]float64{
				models.StatPassingYards: {310, 295, 280, 220, 210},
			},
		},
	}

	v, err := NewTrendAgent().Analyze(context.Background(), prop, week)
	require.NoError(t, err)
	// avg3 = 295 vs 249.5 line (ratio 1.18) with upward momentum
	assert.Equal(t, 77.0, v.Score)
	assert.Equal(t, models.DirectionOver, v.Direction)
}

func TestTrendAgentNeedsThreeGames(t *testing.T) {
	prop := testProp()
	week := emptyWeek()
	week.Trends = map[string]signal.PlayerTrend{
		"josh allen": {
			PlayerKey: "josh allen",
			Recent:    map[models.StatType][]float64{models.StatPassingYards: {310, 295}},
		},
	}

	_, err := NewTrendAgent().Analyze(context.Background(), prop, week)
	assert.ErrorIs(t, err, models.ErrMissingSignal)
}

func TestGameScriptAgent(t *testing.T) {
	week := emptyWeek()
	week.Games = map[string]signal.GameEnvironment{
		"2025-w05-KC@BUF": {
			GameKey: "2025-w05-KC@BUF", HomeTeam: "BUF", AwayTeam: "KC",
			HomeSpread: -7, Total: 52.5,
		},
	}

	tests := []struct {
		name string
		team string
		stat models.StatType
		want float64
	}{
		{"Favored passer loses volume, shootout adds some back", "BUF", models.StatPassingYards, 48},
		{"Underdog passer gains volume", "KC", models.StatPassingYards, 70},
		{"Favored back gets the script", "BUF", models.StatRushingAttempts, 72},
		{"Underdog back loses the script", "KC", models.StatRushingYards, 44},
	}

	agent := NewGameScriptAgent()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := testProp()
			prop.Team = tt.team
			prop.Opponent = map[string]string{"BUF": "KC", "KC": "BUF"}[tt.team]
			prop.StatType = tt.stat

			v, err := agent.Analyze(context.Background(), prop, week)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Score)
		})
	}
}

func TestReliabilityAgent(t *testing.T) {
	agent := NewReliabilityAgent()

	tests := []struct {
		name  string
		games []float64
		want  float64
	}{
		{"Consistently over", []float64{280, 275, 290, 265, 270}, 70},
		{"Consistently under", []float64{200, 210, 195, 205}, 30},
		{"Too volatile to lean", []float64{420, 80, 390, 60}, 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := testProp()
			week := emptyWeek()
			week.Trends = map[string]signal.PlayerTrend{
				"josh allen": {
					PlayerKey: "josh allen",
					Recent:    map[models.StatType][]float64{models.StatPassingYards: tt.games},
				},
			}

			v, err := agent.Analyze(context.Background(), prop, week)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Score)
		})
	}
}

func TestLineHistoryAgent(t *testing.T) {
	agent := NewLineHistoryAgent()
	prop := testProp()

	week := emptyWeek()
	week.LineHistory = map[string]signal.LineHistory{
		signal.LineKey("josh allen", models.StatPassingYards, 249.5): {
			PlayerKey: "josh allen", StatType: models.StatPassingYards,
			Line: 249.5, Overs: 8, Samples: 10,
		},
	}

	v, err := agent.Analyze(context.Background(), prop, week)
	require.NoError(t, err)
	assert.Equal(t, 72.0, v.Score)

	// Thin sample regresses halfway toward neutral
	week.LineHistory = map[string]signal.LineHistory{
		signal.LineKey("josh allen", models.StatPassingYards, 249.5): {
			PlayerKey: "josh allen", StatType: models.StatPassingYards,
			Line: 249.5, Overs: 4, Samples: 5,
		},
	}
	v, err = agent.Analyze(context.Background(), prop, week)
	require.NoError(t, err)
	assert.Equal(t, 61.0, v.Score)

	// Below the sample floor the agent abstains
	week.LineHistory = map[string]signal.LineHistory{
		signal.LineKey("josh allen", models.StatPassingYards, 249.5): {
			PlayerKey: "josh allen", StatType: models.StatPassingYards,
			Line: 249.5, Overs: 2, Samples: 2,
		},
	}
	_, err = agent.Analyze(context.Background(), prop, week)
	assert.ErrorIs(t, err, models.ErrMissingSignal)
}

func TestWeatherAgent(t *testing.T) {
	agent := NewWeatherAgent()

	tests := []struct {
		name string
		wx   signal.WeatherReport
		stat models.StatType
		want float64
	}{
		{
			"Dome passing",
			signal.WeatherReport{Dome: true},
			models.StatPassingYards, 55,
		},
		{
			"Dome rushing",
			signal.WeatherReport{Dome: true},
			models.StatRushingYards, 50,
		},
		{
			"Heavy wind passing yards",
			signal.WeatherReport{WindMPH: 24, TemperatureF: 40},
			models.StatPassingYards, 28,
		},
		{
			"Heavy wind receptions hold up better",
			signal.WeatherReport{WindMPH: 24, TemperatureF: 40},
			models.StatReceptions, 38,
		},
		{
			"Heavy wind rushing",
			signal.WeatherReport{WindMPH: 24, TemperatureF: 40},
			models.StatRushingAttempts, 60,
		},
		{
			"Wet and breezy passing",
			signal.WeatherReport{WindMPH: 14, PrecipChance: 0.7, TemperatureF: 40},
			models.StatPassingYards, 34,
		},
		{
			"Benign outdoors",
			signal.WeatherReport{WindMPH: 4, TemperatureF: 62},
			models.StatReceivingYards, 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := testProp()
			prop.StatType = tt.stat
			week := emptyWeek()
			tt.wx.GameKey = prop.GameKey
			week.Weather = map[string]signal.WeatherReport{prop.GameKey: tt.wx}

			v, err := agent.Analyze(context.Background(), prop, week)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Score)
		})
	}
}
