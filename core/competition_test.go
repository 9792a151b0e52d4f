package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayer(t *testing.T) {
	c := NewCompetition[string]()

	id, err := c.AddPlayer("A")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = c.AddPlayer("B")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	_, err = c.AddPlayer("A")
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
	assert.Equal(t, 2, c.NumPlayers())

	assert.Equal(t, []Entry[string]{{1, "A"}, {2, "B"}}, c.Players())

	player, ok := c.PlayerById(2)
	assert.True(t, ok)
	assert.Equal(t, "B", player)

	_, ok = c.PlayerById(3)
	assert.False(t, ok)
	_, ok = c.PlayerById(0)
	assert.False(t, ok)
}

func TestAddPlayerStructPayload(t *testing.T) {
	type member struct {
		Name string
		Club string
	}

	c := NewCompetition[member]()
	_, err := c.AddPlayer(member{"Timo", "TTC"})
	require.NoError(t, err)
	_, err = c.AddPlayer(member{"Timo", "TSV"})
	require.NoError(t, err)
	_, err = c.AddPlayer(member{"Timo", "TTC"})
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestAddSet(t *testing.T) {
	c := NewCompetition[string]()
	a, _ := c.AddPlayer("A")
	b, _ := c.AddPlayer("B")

	set := &Set{Games: []Game{game(11, 0)}}
	id, err := c.AddSet(a, b, set)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = c.AddSet(a, b, set)
	assert.ErrorIs(t, err, ErrDuplicateSet)

	// Equal but not identical sets are separate sets
	id, err = c.AddSet(b, a, &Set{Games: []Game{game(11, 0)}})
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	_, err = c.AddSet(a, a, &Set{})
	assert.ErrorIs(t, err, ErrSamePlayer)

	_, err = c.AddSet(a, 3, &Set{})
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = c.AddSet(0, b, &Set{})
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = c.AddSet(a, b, nil)
	assert.ErrorIs(t, err, ErrNilSet)

	_, err = c.AddSet(a, b, &Set{Walkover: Side(5)})
	assert.ErrorIs(t, err, ErrInvalidSide)
	assert.Len(t, c.graph.SetsOf(a), 2)

	require.Len(t, c.Sets(), 2)
	assert.Same(t, set, c.SetById(1).Set)
	assert.Equal(t, b, c.SetById(2).HomePlayerId)
	assert.Nil(t, c.SetById(3))
	assert.Nil(t, c.SetById(0))
}

func TestSetLookups(t *testing.T) {
	c := NewCompetition[string]()
	a, _ := c.AddPlayer("A")
	b, _ := c.AddPlayer("B")
	cc, _ := c.AddPlayer("C")
	d, _ := c.AddPlayer("D")

	s1, _ := c.AddSet(a, b, &Set{})
	s2, _ := c.AddSet(b, cc, &Set{})
	s3, _ := c.AddSet(b, a, &Set{})
	s4, _ := c.AddSet(cc, a, &Set{})

	ids := func(sets []*MatchSet) []int {
		ids := make([]int, 0, len(sets))
		for _, s := range sets {
			ids = append(ids, s.Id)
		}
		return ids
	}

	assert.Equal(t, []int{s1, s3}, ids(c.SetsBetween(a, b)))
	assert.Equal(t, []int{s1, s3}, ids(c.SetsBetween(b, a)))
	assert.Empty(t, c.SetsBetween(a, d))

	assert.Equal(t, []int{s1, s3, s4}, ids(c.SetsOfPlayer(a)))
	assert.Equal(t, []int{s1, s2, s3}, ids(c.SetsOfPlayer(b)))
	assert.Empty(t, c.SetsOfPlayer(d))

	assert.Equal(t, []int{b, cc}, c.Opponents(a))
	assert.Empty(t, c.Opponents(d))
}

func TestMatchSetSides(t *testing.T) {
	s := &MatchSet{Id: 1, HomePlayerId: 3, AwayPlayerId: 7}

	assert.Equal(t, Home, s.SideOf(3))
	assert.Equal(t, Away, s.SideOf(7))
	assert.Equal(t, NoSide, s.SideOf(1))
	assert.Equal(t, 7, s.PlayerOf(Away))
	assert.True(t, s.ContainsPlayer(3))
	assert.False(t, s.ContainsPlayer(4))
	assert.Panics(t, func() { s.PlayerOf(NoSide) })
}
