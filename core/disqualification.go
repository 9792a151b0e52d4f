package core

// Returns the ids of the players who are struck from the ranking
// in ascending order.
//
// Every player who lost a set by walkover is a candidate. A candidate
// is struck when at most half of their sets were actually played.
// Players who never gave up a set are never struck no matter how few
// sets they have.
func StruckPlayers[T comparable](competition *Competition[T]) []int {
	isCandidate := make(map[int]bool)
	for _, s := range competition.Sets() {
		if s.Set.IsWalkover() {
			absent := s.PlayerOf(s.Set.Walkover.Other())
			isCandidate[absent] = true
		}
	}

	struck := make([]int, 0, len(isCandidate))
	for _, entry := range competition.Players() {
		if !isCandidate[entry.Id] {
			continue
		}
		if isStruck(competition.SetsOfPlayer(entry.Id)) {
			struck = append(struck, entry.Id)
		}
	}

	return struck
}

func isStruck(sets []*MatchSet) bool {
	total := len(sets)
	played := 0
	for _, s := range sets {
		if !s.Set.IsWalkover() {
			played += 1
		}
	}
	return 2*played <= total
}

// Separates the players into those who are ranked and those who
// are struck according to StruckPlayers
func partitionPlayers[T comparable](competition *Competition[T]) (ranked, unranked []Entry[T]) {
	struck := make(map[int]bool)
	for _, id := range StruckPlayers(competition) {
		struck[id] = true
	}

	players := competition.Players()
	ranked = make([]Entry[T], 0, len(players))
	unranked = make([]Entry[T], 0, len(struck))
	for _, p := range players {
		if struck[p.Id] {
			unranked = append(unranked, p)
		} else {
			ranked = append(ranked, p)
		}
	}

	return ranked, unranked
}
