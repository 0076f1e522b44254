package analysis

import "github.com/scottolmer/nfl-betting-system-sub001/internal/models"

// rung is one graded level of conviction. Floor applies to the over side;
// the under side mirrors it around the 50 midline (floor 70 pairs with
// ceiling 30).
type rung struct {
	Floor float64
	Over  models.Recommendation
	Under models.Recommendation
}

// recommendationLadder is ordered strongest conviction first
var recommendationLadder = []rung{
	{Floor: 70, Over: models.RecommendationStrongOver, Under: models.RecommendationStrongUnder},
	{Floor: 60, Over: models.RecommendationModerateOver, Under: models.RecommendationModerateUnder},
	{Floor: 55, Over: models.RecommendationLeanOver, Under: models.RecommendationLeanUnder},
}

// Recommend maps a composite confidence to the graded call and its side.
// Confidence inside the 45-55 dead zone is an AVOID.
func Recommend(confidence float64) (models.Recommendation, models.Direction) {
	for _, r := range recommendationLadder {
		if confidence >= r.Floor {
			return r.Over, models.DirectionOver
		}
		if confidence <= 100-r.Floor {
			return r.Under, models.DirectionUnder
		}
	}
	return models.RecommendationAvoid, models.DirectionAvoid
}
