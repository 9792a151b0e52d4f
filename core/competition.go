package core

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicatePlayer = errors.New("the player was already added")
	ErrSamePlayer      = errors.New("the home and away player cannot be the same")
	ErrUnknownPlayer   = errors.New("the player is not part of the competition")
	ErrDuplicateSet    = errors.New("the set was already added")
	ErrNilSet          = errors.New("the set is nil")
	ErrInvalidSide     = errors.New("the walkover side is neither home, away nor none")
)

// A player of a competition together with the id that
// was assigned when it was added.
type Entry[T comparable] struct {
	Id     int
	Player T
}

// A set as it was recorded in a competition
type MatchSet struct {
	Id           int
	HomePlayerId int
	AwayPlayerId int
	Set          *Set
}

// Returns true if the player with the id is the home or away player
func (s *MatchSet) ContainsPlayer(id int) bool {
	return s.HomePlayerId == id || s.AwayPlayerId == id
}

// Returns the side that the player with the id is on or NoSide
func (s *MatchSet) SideOf(id int) Side {
	switch id {
	case s.HomePlayerId:
		return Home
	case s.AwayPlayerId:
		return Away
	}
	return NoSide
}

// Returns the player id of the given side
func (s *MatchSet) PlayerOf(side Side) int {
	switch side {
	case Home:
		return s.HomePlayerId
	case Away:
		return s.AwayPlayerId
	}
	panic("NoSide has no player")
}

// A Competition is an append-only record of players and
// the sets that were played between them.
//
// Players are generic so any comparable value like a name
// or a struct can identify them. Ids are assigned sequentially
// starting at 1 for both players and sets.
//
// A Competition is not safe for concurrent writes. Once all
// players and sets are added it can be ranked concurrently.
type Competition[T comparable] struct {
	players []T
	sets    []*MatchSet

	// Sets are deduplicated by identity, not by value.
	// Two equal scores are two different sets.
	setIds map[*Set]int

	graph *PlayerGraph
}

func NewCompetition[T comparable]() *Competition[T] {
	return &Competition[T]{
		setIds: make(map[*Set]int),
		graph:  NewPlayerGraph(),
	}
}

// Adds a player and returns its id.
// Errors when an equal player was already added.
func (c *Competition[T]) AddPlayer(player T) (int, error) {
	for _, p := range c.players {
		if p == player {
			return 0, ErrDuplicatePlayer
		}
	}

	id := len(c.players) + 1
	if err := c.graph.AddPlayer(id); err != nil {
		return 0, fmt.Errorf("adding player %d to the graph: %w", id, err)
	}
	c.players = append(c.players, player)

	return id, nil
}

// Records a set between the two players and returns its id.
//
// Errors when the players are the same or unknown, when the
// walkover side is invalid or when the very same set was already added.
func (c *Competition[T]) AddSet(homePlayerId, awayPlayerId int, set *Set) (int, error) {
	switch {
	case set == nil:
		return 0, ErrNilSet
	case set.Walkover != NoSide && set.Walkover != Home && set.Walkover != Away:
		return 0, fmt.Errorf("walkover %d: %w", set.Walkover, ErrInvalidSide)
	case homePlayerId == awayPlayerId:
		return 0, ErrSamePlayer
	case !c.isPlayerIdKnown(homePlayerId):
		return 0, fmt.Errorf("home player %d: %w", homePlayerId, ErrUnknownPlayer)
	case !c.isPlayerIdKnown(awayPlayerId):
		return 0, fmt.Errorf("away player %d: %w", awayPlayerId, ErrUnknownPlayer)
	}
	if _, known := c.setIds[set]; known {
		return 0, ErrDuplicateSet
	}

	id := len(c.sets) + 1
	if err := c.graph.AddSet(homePlayerId, awayPlayerId, id); err != nil {
		return 0, fmt.Errorf("adding set %d to the graph: %w", id, err)
	}

	matchSet := &MatchSet{
		Id:           id,
		HomePlayerId: homePlayerId,
		AwayPlayerId: awayPlayerId,
		Set:          set,
	}
	c.sets = append(c.sets, matchSet)
	c.setIds[set] = id

	return id, nil
}

// Returns all players in the order they were added
func (c *Competition[T]) Players() []Entry[T] {
	entries := make([]Entry[T], 0, len(c.players))
	for i, p := range c.players {
		entries = append(entries, Entry[T]{Id: i + 1, Player: p})
	}
	return entries
}

// Returns all sets in the order they were added
func (c *Competition[T]) Sets() []*MatchSet {
	return c.sets
}

func (c *Competition[T]) NumPlayers() int {
	return len(c.players)
}

// Returns the player with the id. The second return value is
// false when no such player exists.
func (c *Competition[T]) PlayerById(id int) (T, bool) {
	if !c.isPlayerIdKnown(id) {
		var zero T
		return zero, false
	}
	return c.players[id-1], true
}

// Returns the set with the id or nil
func (c *Competition[T]) SetById(id int) *MatchSet {
	if id < 1 || id > len(c.sets) {
		return nil
	}
	return c.sets[id-1]
}

// Returns all sets that the player took part in
func (c *Competition[T]) SetsOfPlayer(id int) []*MatchSet {
	return c.setsByIds(c.graph.SetsOf(id))
}

// Returns all sets between the two players
func (c *Competition[T]) SetsBetween(id1, id2 int) []*MatchSet {
	return c.setsByIds(c.graph.SetsBetween(id1, id2))
}

// Returns the ids of all players that the player has
// at least one set against
func (c *Competition[T]) Opponents(id int) []int {
	return c.graph.Opponents(id)
}

func (c *Competition[T]) setsByIds(ids []int) []*MatchSet {
	sets := make([]*MatchSet, 0, len(ids))
	for _, id := range ids {
		sets = append(sets, c.sets[id-1])
	}
	return sets
}

func (c *Competition[T]) isPlayerIdKnown(id int) bool {
	return id >= 1 && id <= len(c.players)
}
