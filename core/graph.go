// This file contains a thin wrapper around the graph module
// for keeping track of who played whom.
package core

import (
	"errors"
	"slices"

	"github.com/dominikbraun/graph"
)

// The edge data of a PlayerGraph. Holds the ids of all sets
// that were played between the two players of the edge.
type pairing struct {
	setIds []int
}

// A PlayerGraph has the ids of the players of a competition as its
// vertices. An undirected edge connects two players when at least
// one set between them was recorded. Multiple sets between the same
// players share the edge, so the graph models the multigraph of
// sets without needing parallel edges.
type PlayerGraph struct {
	graph.Graph[int, int]

	// Kept in step with the graph so that reads never write
	adjacencyMap map[int]map[int]graph.Edge[int]
}

func NewPlayerGraph() *PlayerGraph {
	return &PlayerGraph{
		Graph:        graph.New(graph.IntHash),
		adjacencyMap: make(map[int]map[int]graph.Edge[int]),
	}
}

func (g *PlayerGraph) AddPlayer(id int) error {
	if err := g.Graph.AddVertex(id); err != nil {
		return err
	}
	g.adjacencyMap[id] = make(map[int]graph.Edge[int])
	return nil
}

// Connects the two players with the set.
func (g *PlayerGraph) AddSet(homeId, awayId, setId int) error {
	edge, err := g.Graph.Edge(homeId, awayId)
	if errors.Is(err, graph.ErrEdgeNotFound) {
		data := &pairing{setIds: []int{setId}}
		if err := g.Graph.AddEdge(homeId, awayId, graph.EdgeData(data)); err != nil {
			return err
		}
		g.connect(homeId, awayId, data)
		return nil
	}
	if err != nil {
		return err
	}

	// The edge data is shared with the adjacency map
	data := edge.Properties.Data.(*pairing)
	data.setIds = append(data.setIds, setId)
	return nil
}

// Returns the ids of all sets between the two players in
// ascending order
func (g *PlayerGraph) SetsBetween(id1, id2 int) []int {
	edge, err := g.Graph.Edge(id1, id2)
	if err != nil {
		return nil
	}
	return slices.Clone(edge.Properties.Data.(*pairing).setIds)
}

// Returns the ids of all sets that the player took part in
// in ascending order
func (g *PlayerGraph) SetsOf(id int) []int {
	adjacent := g.adjacencyMap[id]
	setIds := make([]int, 0, len(adjacent))
	for _, edge := range adjacent {
		setIds = append(setIds, edge.Properties.Data.(*pairing).setIds...)
	}
	slices.Sort(setIds)
	return setIds
}

// Returns the ids of the players that the player has at least
// one set against in ascending order
func (g *PlayerGraph) Opponents(id int) []int {
	adjacent := g.adjacencyMap[id]
	opponents := make([]int, 0, len(adjacent))
	for opponent := range adjacent {
		opponents = append(opponents, opponent)
	}
	slices.Sort(opponents)
	return opponents
}

// Caches the new edge in both directions like the
// undirected AdjacencyMap of the graph module does
func (g *PlayerGraph) connect(id1, id2 int, data *pairing) {
	properties := graph.EdgeProperties{
		Attributes: make(map[string]string),
		Data:       data,
	}
	g.adjacencyMap[id1][id2] = graph.Edge[int]{Source: id1, Target: id2, Properties: properties}
	g.adjacencyMap[id2][id1] = graph.Edge[int]{Source: id2, Target: id1, Properties: properties}
}
