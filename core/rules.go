package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRules = errors.New("invalid rules")

	ErrScoreDistance = fmt.Errorf("%w: the score distance must be 1 or more", ErrInvalidRules)
	ErrScoreMinimum  = fmt.Errorf("%w: the score minimum must not be less than the score distance", ErrInvalidRules)
	ErrNoGameRules   = fmt.Errorf("%w: the set rules have no game rules", ErrInvalidRules)
	ErrBestOf        = fmt.Errorf("%w: best of must be 1 or more", ErrInvalidRules)
	ErrVictoryPoints = fmt.Errorf("%w: the victory points must be more than the defeat points", ErrInvalidRules)
	ErrDefeatPoints  = fmt.Errorf("%w: the defeat points must be zero or more", ErrInvalidRules)
)

// The GameRules decide when a single game is won.
type GameRules struct {
	// The score that the winner has to reach at least.
	// In table tennis this is almost always 11.
	ScoreMinimum int `json:"scoreMinimum" yaml:"score_minimum"`

	// The lead that the winner needs to have.
	// In table tennis this is almost always 2.
	ScoreDistance int `json:"scoreDistance" yaml:"score_distance"`
}

func (r GameRules) Validate() error {
	if r.ScoreDistance < 1 {
		return ErrScoreDistance
	}
	if r.ScoreMinimum < r.ScoreDistance {
		return ErrScoreMinimum
	}
	return nil
}

// The SetRules decide when a set is won.
// A set is won by the player who first wins the majority
// of BestOf games.
type SetRules struct {
	GameRules *GameRules `json:"gameRules" yaml:"game"`

	// The maximum amount of games in a set. Often 5 or 7.
	// With 5 a player needs 3 game wins, with 7 it's 4.
	BestOf int `json:"bestOf" yaml:"best_of"`
}

func (r SetRules) Validate() error {
	if r.GameRules == nil {
		return ErrNoGameRules
	}
	if err := r.GameRules.Validate(); err != nil {
		return err
	}
	if r.BestOf < 1 {
		return ErrBestOf
	}
	return nil
}

// Returns the number of game wins that decide a set
func (r SetRules) RequiredWins() int {
	return (r.BestOf + 1) / 2
}

// The MatchRules describe how many ranking points a set
// result is worth.
type MatchRules struct {
	// Points for winning a set, also when it was won by walkover
	VictoryPoints int `json:"victoryPoints" yaml:"victory_points"`

	// Points for losing a played set. Losing by walkover
	// gives no points.
	DefeatPoints int `json:"defeatPoints" yaml:"defeat_points"`
}

func (r MatchRules) Validate() error {
	if r.VictoryPoints <= r.DefeatPoints {
		return ErrVictoryPoints
	}
	if r.DefeatPoints < 0 {
		return ErrDefeatPoints
	}
	return nil
}
