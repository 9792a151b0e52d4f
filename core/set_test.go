package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardGame = GameRules{ScoreMinimum: 11, ScoreDistance: 2}

func game(home, away int) Game {
	return Game{HomeScore: home, AwayScore: away}
}

func TestGameWinner(t *testing.T) {
	cases := []struct {
		game     Game
		expected Side
	}{
		{game(11, 9), Home},
		{game(10, 12), Away},
		{game(11, 10), NoSide},
		{game(10, 8), NoSide},
		{game(0, 0), NoSide},
		{game(11, 0), Home},
		{game(0, 11), Away},
		{game(15, 13), Home},
		{game(20, 19), NoSide},
		// Beyond the minimum the distance still decides
		{game(30, 2), Home},
	}

	for _, c := range cases {
		winner, err := GameWinner(c.game, standardGame)
		require.NoError(t, err)
		assert.Equal(t, c.expected, winner, "game %v", c.game)
	}
}

func TestGameWinnerInvalidRules(t *testing.T) {
	_, err := GameWinner(game(11, 0), GameRules{ScoreMinimum: 11})
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestSetWinner(t *testing.T) {
	cases := []struct {
		bestOf   int
		games    []Game
		expected Side
	}{
		{1, []Game{game(11, 0)}, Home},
		{1, []Game{game(0, 11)}, Away},
		{1, []Game{}, NoSide},
		{3, []Game{game(11, 0), game(0, 11), game(0, 0)}, NoSide},
		{3, []Game{game(11, 0), game(0, 11), game(11, 5)}, Home},
		{3, []Game{game(11, 0), game(11, 0)}, Home},
		{5, []Game{game(0, 11), game(0, 11), game(0, 9)}, NoSide},
		{5, []Game{game(0, 11), game(0, 11), game(0, 11)}, Away},
		// The walk stops at the first undecided game
		{3, []Game{game(11, 0), game(5, 5), game(11, 0)}, NoSide},
		// Games after the decision are not looked at
		{3, []Game{game(11, 0), game(11, 0), game(0, 11)}, Home},
		// Even best of counts the majority of bestOf
		{4, []Game{game(11, 0), game(11, 0)}, Home},
	}

	for _, c := range cases {
		rules := SetRules{GameRules: &standardGame, BestOf: c.bestOf}
		winner, err := SetWinner(&Set{Games: c.games}, rules)
		require.NoError(t, err)
		assert.Equal(t, c.expected, winner, "best of %d with %v", c.bestOf, c.games)
	}
}

func TestSetWinnerIgnoresWalkover(t *testing.T) {
	rules := SetRules{GameRules: &standardGame, BestOf: 3}
	set := &Set{Walkover: Away}

	winner, err := SetWinner(set, rules)
	require.NoError(t, err)
	assert.Equal(t, NoSide, winner)

	winner, complete := completeSetWinner(set, rules)
	assert.True(t, complete)
	assert.Equal(t, Away, winner)
}

func TestSetWinnerInvalidRules(t *testing.T) {
	_, err := SetWinner(&Set{}, SetRules{GameRules: &standardGame})
	assert.ErrorIs(t, err, ErrBestOf)
}

func TestSide(t *testing.T) {
	assert.Equal(t, Away, Home.Other())
	assert.Equal(t, Home, Away.Other())
	assert.Equal(t, NoSide, NoSide.Other())

	var side Side
	require.NoError(t, side.UnmarshalText([]byte("away")))
	assert.Equal(t, Away, side)
	assert.ErrorIs(t, side.UnmarshalText([]byte("left")), ErrUnknownSide)

	text, err := Home.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "home", string(text))
}

func TestSetString(t *testing.T) {
	assert.Equal(t, "wo:away", (&Set{Walkover: Away}).String())
	assert.Equal(t, "11-9,7-11", (&Set{Games: []Game{game(11, 9), game(7, 11)}}).String())
	assert.Equal(t, "", (&Set{}).String())
}
