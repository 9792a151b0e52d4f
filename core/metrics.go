package core

import "errors"

var ErrIncompleteSet = errors.New("the set has no winner yet")

// The change that a complete set causes in the
// ranking metrics of one of its players
type PointChange struct {
	PlayerId int

	// Ranking points awarded for the set
	Points int

	// Games won and lost in the set
	GameRatio Ratio

	// Game scores won and lost summed over all games of the set
	ScoreRatio Ratio
}

// The outcome of a complete set as it is used for ranking
type SetOutcome struct {
	Set    *MatchSet
	Winner Side

	Home PointChange
	Away PointChange
}

// Returns the change of the player with the given id or nil
// if the player did not take part in the set
func (o *SetOutcome) ChangeOf(playerId int) *PointChange {
	switch playerId {
	case o.Home.PlayerId:
		return &o.Home
	case o.Away.PlayerId:
		return &o.Away
	}
	return nil
}

// Creates the outcome of the set.
//
// The winner gets the victory points. The loser only gets the
// defeat points when the set was actually played. A walkover
// gives nothing to the absent side and zero ratios to both.
//
// Errors with ErrIncompleteSet when the set is not decided.
func NewSetOutcome(set *MatchSet, matchRules MatchRules, setRules SetRules) (*SetOutcome, error) {
	if err := matchRules.Validate(); err != nil {
		return nil, err
	}
	if err := setRules.Validate(); err != nil {
		return nil, err
	}
	outcome := createSetOutcome(set, matchRules, setRules)
	if outcome == nil {
		return nil, ErrIncompleteSet
	}
	return outcome, nil
}

// Returns nil for incomplete sets. The rules are expected
// to be validated.
func createSetOutcome(set *MatchSet, matchRules MatchRules, setRules SetRules) *SetOutcome {
	winner, complete := completeSetWinner(set.Set, setRules)
	if !complete {
		return nil
	}

	outcome := &SetOutcome{
		Set:    set,
		Winner: winner,
		Home:   PointChange{PlayerId: set.HomePlayerId},
		Away:   PointChange{PlayerId: set.AwayPlayerId},
	}

	winnerChange := outcome.ChangeOf(set.PlayerOf(winner))
	loserChange := outcome.ChangeOf(set.PlayerOf(winner.Other()))

	winnerChange.Points = matchRules.VictoryPoints
	if set.Set.IsWalkover() {
		return outcome
	}
	loserChange.Points = matchRules.DefeatPoints

	gameRules := *setRules.GameRules
	for _, game := range set.Set.Games {
		outcome.Home.ScoreRatio = outcome.Home.ScoreRatio.Add(NewRatio(game.HomeScore, game.AwayScore))

		switch gameWinner(game, gameRules) {
		case Home:
			outcome.Home.GameRatio.Won += 1
		case Away:
			outcome.Home.GameRatio.Lost += 1
		}
	}
	outcome.Away.GameRatio = outcome.Home.GameRatio.Invert()
	outcome.Away.ScoreRatio = outcome.Home.ScoreRatio.Invert()

	return outcome
}

// The accumulated metrics of a player over a selection of sets
type setMetrics struct {
	points     int
	gameRatio  Ratio
	scoreRatio Ratio
}

func (m *setMetrics) add(change *PointChange) {
	m.points += change.Points
	m.gameRatio = m.gameRatio.Add(change.GameRatio)
	m.scoreRatio = m.scoreRatio.Add(change.ScoreRatio)
}
