package core

import (
	"errors"
	"strconv"
	"strings"
)

var ErrUnknownSide = errors.New("unknown side")

// A Side is one of the two opponents of a game or set.
type Side int

const (
	// No side, e.g. the winner of an undecided game
	NoSide Side = iota
	Home
	Away
)

// Returns the opponent side. NoSide stays NoSide.
func (s Side) Other() Side {
	switch s {
	case Home:
		return Away
	case Away:
		return Home
	}
	return NoSide
}

func (s Side) String() string {
	switch s {
	case Home:
		return "home"
	case Away:
		return "away"
	}
	return "none"
}

// The score of a single game
type Game struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// Returns the score of the given side followed by the opponent's score
func (g Game) ScoreOf(side Side) (int, int) {
	if side == Away {
		return g.AwayScore, g.HomeScore
	}
	return g.HomeScore, g.AwayScore
}

// A Set is a best-of-n sequence of games between two players.
//
// A set without games and without walkover is not an error, it
// is just incomplete.
type Set struct {
	// The games in the order they were played.
	// Empty when the set was a walkover.
	Games []Game `json:"games"`

	// The side that won because the opponent did not play the set.
	// NoSide when the set was played.
	Walkover Side `json:"walkover,omitempty"`
}

func (s *Set) IsWalkover() bool {
	return s.Walkover != NoSide
}

func (s *Set) String() string {
	if s.IsWalkover() {
		return "wo:" + s.Walkover.String()
	}

	games := make([]string, 0, len(s.Games))
	for _, g := range s.Games {
		games = append(games, strconv.Itoa(g.HomeScore)+"-"+strconv.Itoa(g.AwayScore))
	}
	return strings.Join(games, ",")
}

// Returns the side that won the game according to the rules or
// NoSide if the game is not decided yet.
//
// A game is won when the leading side reached the score minimum
// and leads by at least the score distance.
func GameWinner(game Game, rules GameRules) (Side, error) {
	if err := rules.Validate(); err != nil {
		return NoSide, err
	}
	return gameWinner(game, rules), nil
}

func gameWinner(game Game, rules GameRules) Side {
	diff := game.HomeScore - game.AwayScore

	hasMinimum := max(game.HomeScore, game.AwayScore) >= rules.ScoreMinimum
	hasDistance := diff >= rules.ScoreDistance || -diff >= rules.ScoreDistance

	if !hasMinimum || !hasDistance {
		return NoSide
	}
	if diff > 0 {
		return Home
	}
	return Away
}

// Returns the side that won the played set or NoSide if
// the set is incomplete.
//
// The games are counted in order until the first undecided game.
// Games after an undecided game are never looked at.
// Walkovers are not resolved here, check Set.Walkover first.
func SetWinner(set *Set, rules SetRules) (Side, error) {
	if err := rules.Validate(); err != nil {
		return NoSide, err
	}
	return setWinner(set, rules), nil
}

func setWinner(set *Set, rules SetRules) Side {
	requiredWins := rules.RequiredWins()
	homeWins, awayWins := 0, 0
	for _, game := range set.Games {
		switch gameWinner(game, *rules.GameRules) {
		case Home:
			homeWins += 1
		case Away:
			awayWins += 1
		default:
			return NoSide
		}

		if homeWins >= requiredWins {
			return Home
		}
		if awayWins >= requiredWins {
			return Away
		}
	}

	return NoSide
}

// Returns the winner of a set including walkovers.
// The second return value is false when the set is incomplete.
func completeSetWinner(set *Set, rules SetRules) (Side, bool) {
	if set.IsWalkover() {
		return set.Walkover, true
	}
	winner := setWinner(set, rules)
	return winner, winner != NoSide
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "home":
		*s = Home
	case "away":
		*s = Away
	case "none", "":
		*s = NoSide
	default:
		return ErrUnknownSide
	}
	return nil
}
