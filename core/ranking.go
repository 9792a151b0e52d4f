package core

import (
	"fmt"
	"slices"
	"strings"
)

// A Criterion is one step of the tie-break ladder that orders
// the players of a competition.
type Criterion int

const (
	// Points over all ranked sets
	TotalPoints Criterion = iota
	// Points over the sets between the players of the tied cohort
	CohortPoints
	// Game ratio over the sets between the players of the tied cohort
	CohortGameRatio
	// Score ratio over the sets between the players of the tied cohort
	CohortScoreRatio
	// Game ratio over all ranked sets of each cohort player
	FieldGameRatio
	// Score ratio over all ranked sets of each cohort player
	FieldScoreRatio

	numCriteria
)

func (c Criterion) String() string {
	switch c {
	case TotalPoints:
		return "points"
	case CohortPoints:
		return "cohort points"
	case CohortGameRatio:
		return "cohort game ratio"
	case CohortScoreRatio:
		return "cohort score ratio"
	case FieldGameRatio:
		return "game ratio"
	case FieldScoreRatio:
		return "score ratio"
	}
	return "unknown"
}

func (c Criterion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Criterion) UnmarshalText(text []byte) error {
	for criterion := TotalPoints; criterion < numCriteria; criterion++ {
		if criterion.String() == string(text) {
			*c = criterion
			return nil
		}
	}
	return fmt.Errorf("unknown criterion %q", text)
}

// The rank of a player and the metrics that led to it.
//
// The SameRank metrics are the values of the last cohort that
// the player was compared in. They stay zero when the cascade
// never got to compute them for the player.
type PlayerRank[T comparable] struct {
	Id     int
	Player T

	// Points over all ranked sets
	Points int

	SameRankPoints          int
	SameRankGameRatio       Ratio
	SameRankScoreRatio      Ratio
	SameRankGameRatioEvery  Ratio
	SameRankScoreRatioEvery Ratio

	// The criterion that last separated this player from
	// others in its cohort
	DecidedBy Criterion

	// Ids of the players that this player could not be
	// separated from. Empty when the rank is not shared.
	SharedWith []int
}

func (r *PlayerRank[T]) IsShared() bool {
	return len(r.SharedWith) > 0
}

// The result of ranking a competition
type Ranking[T comparable] struct {
	// Descending in rank. Players who share a rank are next
	// to each other and link each other in SharedWith.
	Ranked []*PlayerRank[T]

	// Players who were struck for giving up too many sets
	Unranked []Entry[T]

	// The complete sets between ranked players which are the only
	// sets that the ranking is based on
	RankedSets []*MatchSet
}

// Returns the ranks as a slice of slices.
//
// A slice with multiple players in it means the rank
// is shared between them.
func (r *Ranking[T]) TiedRanks() [][]*PlayerRank[T] {
	tiedRanks := make([][]*PlayerRank[T], 0, len(r.Ranked))
	for _, rank := range r.Ranked {
		last := len(tiedRanks) - 1
		if last >= 0 && slices.Contains(rank.SharedWith, tiedRanks[last][0].Id) {
			tiedRanks[last] = append(tiedRanks[last], rank)
			continue
		}
		tiedRanks = append(tiedRanks, []*PlayerRank[T]{rank})
	}
	return tiedRanks
}

// Returns the shared ranks that are in the
// given top n of ranks
func (r *Ranking[T]) BlockingTies(topN int) [][]*PlayerRank[T] {
	blockingTies := make([][]*PlayerRank[T], 0)
	rankIndex := 0

	for _, t := range r.TiedRanks() {
		if rankIndex >= topN {
			break
		}
		if len(t) > 1 {
			blockingTies = append(blockingTies, t)
		}
		rankIndex += len(t)
	}

	return blockingTies
}

// Returns the 1-based place of the player. Players who share
// a rank share the place of the first of them.
// Returns 0 when the player is not ranked.
func (r *Ranking[T]) Place(playerId int) int {
	place := 1
	for _, t := range r.TiedRanks() {
		for _, rank := range t {
			if rank.Id == playerId {
				return place
			}
		}
		place += len(t)
	}
	return 0
}

// Returns the rank of the player or nil when the player is not ranked
func (r *Ranking[T]) RankOf(playerId int) *PlayerRank[T] {
	for _, rank := range r.Ranked {
		if rank.Id == playerId {
			return rank
		}
	}
	return nil
}

func (r *Ranking[T]) String() string {
	var sb strings.Builder

	for _, t := range r.TiedRanks() {
		for _, rank := range t {
			sb.WriteString(fmt.Sprintf("%v\t%d", rank.Player, rank.Points))
			sb.WriteRune('\n')
		}
		sb.WriteString("---")
		sb.WriteRune('\n')
	}

	return sb.String()
}

// Ranks the players of the competition.
//
// Players who gave up too many sets are struck first (see StruckPlayers).
// The remaining players are sorted by their points. Every group of
// players with equal points is then broken up by the ladder of
// criteria. Whenever a criterion separates a group, each resulting
// sub-group starts over at CohortPoints because the sets between its
// members have changed. Groups that no criterion can separate share
// their rank.
//
// The rules are validated before anything is ranked.
func GenerateRanking[T comparable](
	competition *Competition[T],
	matchRules MatchRules,
	setRules SetRules,
) (*Ranking[T], error) {
	if err := matchRules.Validate(); err != nil {
		return nil, err
	}
	if err := setRules.Validate(); err != nil {
		return nil, err
	}

	rankedPlayers, unrankedPlayers := partitionPlayers(competition)

	r := newRanker(competition, rankedPlayers, matchRules, setRules)
	cohort := make([]*PlayerRank[T], 0, len(rankedPlayers))
	for _, p := range rankedPlayers {
		cohort = append(cohort, r.ranks[p.Id])
	}
	r.rankCohort(cohort, TotalPoints)

	ranking := &Ranking[T]{
		Ranked:     r.result,
		Unranked:   unrankedPlayers,
		RankedSets: r.rankedSets,
	}
	return ranking, nil
}

type ranker[T comparable] struct {
	competition *Competition[T]

	ranks map[int]*PlayerRank[T]

	// Outcomes of the ranked sets by set id
	outcomes   map[int]*SetOutcome
	rankedSets []*MatchSet

	result []*PlayerRank[T]
}

func newRanker[T comparable](
	competition *Competition[T],
	rankedPlayers []Entry[T],
	matchRules MatchRules,
	setRules SetRules,
) *ranker[T] {
	ranks := make(map[int]*PlayerRank[T], len(rankedPlayers))
	for _, p := range rankedPlayers {
		ranks[p.Id] = &PlayerRank[T]{Id: p.Id, Player: p.Player}
	}

	outcomes := make(map[int]*SetOutcome)
	rankedSets := make([]*MatchSet, 0)
	for _, s := range competition.Sets() {
		_, homeRanked := ranks[s.HomePlayerId]
		_, awayRanked := ranks[s.AwayPlayerId]
		if !homeRanked || !awayRanked {
			continue
		}
		outcome := createSetOutcome(s, matchRules, setRules)
		if outcome == nil {
			continue
		}
		outcomes[s.Id] = outcome
		rankedSets = append(rankedSets, s)
	}

	return &ranker[T]{
		competition: competition,
		ranks:       ranks,
		outcomes:    outcomes,
		rankedSets:  rankedSets,
		result:      make([]*PlayerRank[T], 0, len(rankedPlayers)),
	}
}

// Orders the cohort starting at the given criterion and appends it to the result
func (r *ranker[T]) rankCohort(cohort []*PlayerRank[T], criterion Criterion) {
	if len(cohort) <= 1 {
		r.result = append(r.result, cohort...)
		return
	}
	if criterion >= numCriteria {
		shareRank(cohort)
		r.result = append(r.result, cohort...)
		return
	}

	r.updateCriterion(criterion, cohort)
	sorted := sortByCriterion(cohort, criterion)

	if len(sorted) == 1 {
		r.rankCohort(cohort, criterion+1)
		return
	}

	// Break emerged sub-cohorts
	for _, subCohort := range sorted {
		for _, rank := range subCohort {
			rank.DecidedBy = criterion
		}
		r.rankCohort(subCohort, CohortPoints)
	}
}

// Recomputes the metric of the criterion for every player in the cohort
func (r *ranker[T]) updateCriterion(criterion Criterion, cohort []*PlayerRank[T]) {
	switch criterion {
	case TotalPoints:
		metrics := r.metricsOf(cohort, r.rankedSets)
		for _, rank := range cohort {
			rank.Points = metrics[rank.Id].points
		}
	case CohortPoints:
		metrics := r.metricsOf(cohort, r.setsWithin(cohort))
		for _, rank := range cohort {
			rank.SameRankPoints = metrics[rank.Id].points
		}
	case CohortGameRatio:
		metrics := r.metricsOf(cohort, r.setsWithin(cohort))
		for _, rank := range cohort {
			rank.SameRankGameRatio = metrics[rank.Id].gameRatio
		}
	case CohortScoreRatio:
		metrics := r.metricsOf(cohort, r.setsWithin(cohort))
		for _, rank := range cohort {
			rank.SameRankScoreRatio = metrics[rank.Id].scoreRatio
		}
	case FieldGameRatio:
		metrics := r.metricsOf(cohort, r.setsTouching(cohort))
		for _, rank := range cohort {
			rank.SameRankGameRatioEvery = metrics[rank.Id].gameRatio
		}
	case FieldScoreRatio:
		metrics := r.metricsOf(cohort, r.setsTouching(cohort))
		for _, rank := range cohort {
			rank.SameRankScoreRatioEvery = metrics[rank.Id].scoreRatio
		}
	default:
		panic(fmt.Sprintf("criterion %d is not on the ladder", criterion))
	}
}

// Accumulates the metrics of the cohort players over the given ranked sets.
// Every cohort player has an entry in the returned map.
func (r *ranker[T]) metricsOf(cohort []*PlayerRank[T], sets []*MatchSet) map[int]*setMetrics {
	metrics := make(map[int]*setMetrics, len(cohort))
	for _, rank := range cohort {
		metrics[rank.Id] = &setMetrics{}
	}

	for _, s := range sets {
		outcome := r.outcomes[s.Id]
		for _, change := range []*PointChange{&outcome.Home, &outcome.Away} {
			if _, ranked := r.ranks[change.PlayerId]; !ranked {
				panic("Ranked set has a player who is not ranked")
			}
			if m, ok := metrics[change.PlayerId]; ok {
				m.add(change)
			}
		}
	}

	return metrics
}

// Returns the ranked sets where both players are in the cohort
func (r *ranker[T]) setsWithin(cohort []*PlayerRank[T]) []*MatchSet {
	sets := make([]*MatchSet, 0)
	for i, rank1 := range cohort {
		for _, rank2 := range cohort[i+1:] {
			for _, s := range r.competition.SetsBetween(rank1.Id, rank2.Id) {
				if _, ranked := r.outcomes[s.Id]; ranked {
					sets = append(sets, s)
				}
			}
		}
	}
	return sets
}

// Returns the ranked sets where at least one player is in the cohort
func (r *ranker[T]) setsTouching(cohort []*PlayerRank[T]) []*MatchSet {
	seen := make(map[int]bool)
	sets := make([]*MatchSet, 0)
	for _, rank := range cohort {
		for _, s := range r.competition.SetsOfPlayer(rank.Id) {
			if _, ranked := r.outcomes[s.Id]; !ranked || seen[s.Id] {
				continue
			}
			seen[s.Id] = true
			sets = append(sets, s)
		}
	}
	return sets
}

// Links all players of the cohort to each other as sharing a rank
func shareRank[T comparable](cohort []*PlayerRank[T]) {
	for _, rank := range cohort {
		sharedWith := make([]int, 0, len(cohort)-1)
		for _, other := range cohort {
			if other != rank {
				sharedWith = append(sharedWith, other.Id)
			}
		}
		rank.SharedWith = sharedWith
	}
}

func criterionMetric[T comparable](criterion Criterion, rank *PlayerRank[T]) float64 {
	switch criterion {
	case TotalPoints:
		return float64(rank.Points)
	case CohortPoints:
		return float64(rank.SameRankPoints)
	case CohortGameRatio:
		return rank.SameRankGameRatio.Value()
	case CohortScoreRatio:
		return rank.SameRankScoreRatio.Value()
	case FieldGameRatio:
		return rank.SameRankGameRatioEvery.Value()
	case FieldScoreRatio:
		return rank.SameRankScoreRatioEvery.Value()
	}
	panic(fmt.Sprintf("criterion %d is not on the ladder", criterion))
}

// Sorts the players in descending buckets of the criterion's metric.
// Players with equal metrics keep their order.
func sortByCriterion[T comparable](cohort []*PlayerRank[T], criterion Criterion) [][]*PlayerRank[T] {
	sorted := slices.Clone(cohort)
	slices.SortStableFunc(sorted, func(a, b *PlayerRank[T]) int {
		return compareMetric(criterionMetric(criterion, b), criterionMetric(criterion, a))
	})

	buckets := make([][]*PlayerRank[T], 0, len(sorted))
	for i, rank := range sorted {
		if i > 0 && compareMetric(criterionMetric(criterion, sorted[i-1]), criterionMetric(criterion, rank)) == 0 {
			last := len(buckets) - 1
			buckets[last] = append(buckets[last], rank)
			continue
		}
		buckets = append(buckets, []*PlayerRank[T]{rank})
	}

	return buckets
}
