// Package document reads competition documents and turns them into
// rankable competitions.
//
// A document lists the players, the sets in score notation and
// optionally the rules:
//
//	name: Group A
//	rules:
//	  best_of: 5
//	players: [Anna, Ben, Carl]
//	sets:
//	  - {home: Anna, away: Ben, score: "11-9,11-7,11-3"}
//	  - {home: Ben, away: Carl, score: "wo:home"}
package document

import (
	"errors"
	"fmt"

	"github.com/ezBadminton/ttrank/core"
	"github.com/ezBadminton/ttrank/tabletennis"
)

var (
	ErrInvalidDocument = errors.New("invalid competition document")

	ErrEmptyPlayer   = fmt.Errorf("%w: player name is empty", ErrInvalidDocument)
	ErrUnknownPlayer = fmt.Errorf("%w: set references a player that is not listed", ErrInvalidDocument)
)

// Document is the serialized form of a competition.
type Document struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Rules *Rules `json:"rules,omitempty" yaml:"rules,omitempty"`

	// When empty, the players are taken from the sets
	// in the order they first appear.
	Players []string `json:"players,omitempty" yaml:"players,omitempty"`

	Sets []Set `json:"sets" yaml:"sets"`
}

// Set is one set between two listed players.
type Set struct {
	Home  string `json:"home" yaml:"home"`
	Away  string `json:"away" yaml:"away"`
	Score string `json:"score" yaml:"score"`
}

// Rules override the defaults field by field.
type Rules struct {
	ScoreMinimum  *int `json:"scoreMinimum,omitempty" yaml:"score_minimum,omitempty"`
	ScoreDistance *int `json:"scoreDistance,omitempty" yaml:"score_distance,omitempty"`
	BestOf        *int `json:"bestOf,omitempty" yaml:"best_of,omitempty"`
	VictoryPoints *int `json:"victoryPoints,omitempty" yaml:"victory_points,omitempty"`
	DefeatPoints  *int `json:"defeatPoints,omitempty" yaml:"defeat_points,omitempty"`
}

// Competition is a document that was built into a competition
// together with its effective rules.
type Competition struct {
	Name        string
	Competition *core.Competition[string]
	MatchRules  core.MatchRules
	SetRules    core.SetRules
}

// Rank generates the ranking of the competition
func (c *Competition) Rank() (*core.Ranking[string], error) {
	return core.GenerateRanking(c.Competition, c.MatchRules, c.SetRules)
}

// Build creates the competition of the document. Rules that the
// document does not set are taken from the given defaults.
func (d *Document) Build(defaultMatch core.MatchRules, defaultSet core.SetRules) (*Competition, error) {
	matchRules, setRules := d.Rules.apply(defaultMatch, defaultSet)
	if err := setRules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := matchRules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	competition := core.NewCompetition[string]()
	ids := make(map[string]int)

	addPlayer := func(name string) error {
		if name == "" {
			return ErrEmptyPlayer
		}
		id, err := competition.AddPlayer(name)
		if err != nil {
			return fmt.Errorf("%w: player %q: %w", ErrInvalidDocument, name, err)
		}
		ids[name] = id
		return nil
	}

	for _, name := range d.Players {
		if err := addPlayer(name); err != nil {
			return nil, err
		}
	}

	inferPlayers := len(d.Players) == 0
	for i, s := range d.Sets {
		for _, name := range []string{s.Home, s.Away} {
			if _, known := ids[name]; known {
				continue
			}
			if !inferPlayers {
				return nil, fmt.Errorf("set %d: %q: %w", i+1, name, ErrUnknownPlayer)
			}
			if err := addPlayer(name); err != nil {
				return nil, fmt.Errorf("set %d: %w", i+1, err)
			}
		}

		set, err := tabletennis.ParseSet(s.Score)
		if err != nil {
			return nil, fmt.Errorf("%w: set %d: %w", ErrInvalidDocument, i+1, err)
		}
		if _, err := competition.AddSet(ids[s.Home], ids[s.Away], set); err != nil {
			return nil, fmt.Errorf("%w: set %d: %w", ErrInvalidDocument, i+1, err)
		}
	}

	built := &Competition{
		Name:        d.Name,
		Competition: competition,
		MatchRules:  matchRules,
		SetRules:    setRules,
	}
	return built, nil
}

func (r *Rules) apply(match core.MatchRules, set core.SetRules) (core.MatchRules, core.SetRules) {
	gameRules := core.GameRules{}
	if set.GameRules != nil {
		gameRules = *set.GameRules
	}
	set.GameRules = &gameRules

	if r == nil {
		return match, set
	}

	override := func(target *int, value *int) {
		if value != nil {
			*target = *value
		}
	}
	override(&gameRules.ScoreMinimum, r.ScoreMinimum)
	override(&gameRules.ScoreDistance, r.ScoreDistance)
	override(&set.BestOf, r.BestOf)
	override(&match.VictoryPoints, r.VictoryPoints)
	override(&match.DefeatPoints, r.DefeatPoints)

	return match, set
}
