package tabletennis

import "github.com/ezBadminton/ttrank/core"

const (
	// Points needed to win a game
	ScoreMinimum = 11
	// Lead needed to win a game
	ScoreDistance = 2

	// Games in a set of most leagues and tournaments
	BestOf = 5
)

// Returns the standard game rules. A game goes to 11 and
// has to be won by 2.
func GameRules() *core.GameRules {
	return &core.GameRules{
		ScoreMinimum:  ScoreMinimum,
		ScoreDistance: ScoreDistance,
	}
}

// Returns the standard game rules in a best of n set
func SetRules(bestOf int) core.SetRules {
	return core.SetRules{
		GameRules: GameRules(),
		BestOf:    bestOf,
	}
}

// Creates set rules and validates them
func NewSetRules(scoreMinimum, scoreDistance, bestOf int) (core.SetRules, error) {
	rules := core.SetRules{
		GameRules: &core.GameRules{
			ScoreMinimum:  scoreMinimum,
			ScoreDistance: scoreDistance,
		},
		BestOf: bestOf,
	}

	if err := rules.Validate(); err != nil {
		return rules, err
	}

	return rules, nil
}

// Returns the common league points: 2 for a victory, 1 for a defeat
func MatchRules() core.MatchRules {
	return core.MatchRules{VictoryPoints: 2, DefeatPoints: 1}
}
