package tabletennis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ezBadminton/ttrank/core"
)

var ErrInvalidGameScore = errors.New("unable to parse game score")

const (
	walkoverHome = "wo:home"
	walkoverAway = "wo:away"
)

// Parses a game score of the form "11-9" where the first
// number is the home score.
func ParseGame(input string) (core.Game, error) {
	home, away, found := strings.Cut(input, "-")
	if !found {
		return core.Game{}, fmt.Errorf("%w from %q", ErrInvalidGameScore, input)
	}

	homeScore, err := parseScore(home)
	if err != nil {
		return core.Game{}, fmt.Errorf("%w from %q", err, input)
	}
	awayScore, err := parseScore(away)
	if err != nil {
		return core.Game{}, fmt.Errorf("%w from %q", err, input)
	}

	return core.Game{HomeScore: homeScore, AwayScore: awayScore}, nil
}

// Only plain digits are allowed. No signs, no whitespace.
func parseScore(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidGameScore
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidGameScore
		}
	}
	score, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidGameScore
	}
	return score, nil
}

// Parses a set score.
//
// The games of a set are separated by commas: "11-9, 9-11, 11-7".
// Whitespace around games and empty items are ignored so the empty
// string is a set without any games. "wo:home" and "wo:away" are
// walkovers won by the named side.
func ParseSet(input string) (*core.Set, error) {
	switch strings.TrimSpace(input) {
	case walkoverHome:
		return &core.Set{Walkover: core.Home}, nil
	case walkoverAway:
		return &core.Set{Walkover: core.Away}, nil
	}

	games := make([]core.Game, 0)
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		game, err := ParseGame(item)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return &core.Set{Games: games}, nil
}

// Like ParseSet but panics on invalid input.
// Meant for fixed scores in tests and examples.
func MustParseSet(input string) *core.Set {
	set, err := ParseSet(input)
	if err != nil {
		panic(err)
	}
	return set
}

// Renders the set in the notation that ParseSet reads
func FormatSet(set *core.Set) string {
	switch set.Walkover {
	case core.Home:
		return walkoverHome
	case core.Away:
		return walkoverAway
	}

	games := make([]string, 0, len(set.Games))
	for _, g := range set.Games {
		games = append(games, fmt.Sprintf("%d-%d", g.HomeScore, g.AwayScore))
	}
	return strings.Join(games, ",")
}
