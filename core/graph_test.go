package core

import (
	"slices"
	"testing"
)

func TestPlayerGraph(t *testing.T) {
	g := NewPlayerGraph()
	for id := 1; id <= 3; id += 1 {
		if err := g.AddPlayer(id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := g.AddPlayer(2); err == nil {
		t.Fatal("adding a player twice did not error")
	}

	g.AddSet(1, 2, 1)
	g.AddSet(2, 1, 2)
	g.AddSet(3, 1, 3)

	if !slices.Equal(g.SetsBetween(2, 1), []int{1, 2}) {
		t.Fatal("the sets between two players were not shared on one edge")
	}
	if !slices.Equal(g.SetsOf(1), []int{1, 2, 3}) {
		t.Fatal("not all sets of the player were found")
	}
	if !slices.Equal(g.SetsOf(3), []int{3}) {
		t.Fatal("the sets of the player are wrong")
	}
	if !slices.Equal(g.Opponents(1), []int{2, 3}) {
		t.Fatal("not all opponents were found")
	}
	if len(g.SetsBetween(2, 3)) != 0 {
		t.Fatal("unconnected players have sets")
	}

	size, _ := g.Size()
	if size != 2 {
		t.Fatalf("the graph has %d edges, expected 2", size)
	}
}

func TestPlayerGraphAdjacencyFollowsAdditions(t *testing.T) {
	g := NewPlayerGraph()
	g.AddPlayer(1)
	g.AddPlayer(2)
	g.AddSet(1, 2, 1)

	// Players joining after the first sets keep the earlier edges
	g.AddPlayer(3)
	if !slices.Equal(g.Opponents(1), []int{2}) {
		t.Fatal("an earlier edge was lost when a player was added")
	}
	if len(g.Opponents(3)) != 0 {
		t.Fatal("a new player has opponents")
	}

	g.AddSet(3, 2, 2)
	g.AddSet(2, 3, 3)
	g.AddSet(1, 2, 4)

	if !slices.Equal(g.SetsOf(2), []int{1, 2, 3, 4}) {
		t.Fatalf("the sets of player 2 are %v", g.SetsOf(2))
	}
	if !slices.Equal(g.SetsOf(3), []int{2, 3}) {
		t.Fatalf("the sets of player 3 are %v", g.SetsOf(3))
	}

	expected, err := g.Graph.AdjacencyMap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for id, adjacent := range expected {
		for opponent := range adjacent {
			if _, ok := g.adjacencyMap[id][opponent]; !ok {
				t.Fatalf("the edge %d-%d is missing from the cache", id, opponent)
			}
		}
		if len(g.adjacencyMap[id]) != len(adjacent) {
			t.Fatalf("player %d has %d cached opponents, expected %d", id, len(g.adjacencyMap[id]), len(adjacent))
		}
	}
}
