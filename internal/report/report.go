// Package report turns rankings into standings that can be
// rendered as text, JSON or spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ezBadminton/ttrank/core"
	"github.com/ezBadminton/ttrank/tabletennis"
)

// Report is the presentable result of ranking one competition.
type Report struct {
	RunID string `json:"runId,omitempty"`
	Name  string `json:"name,omitempty"`

	Rules Rules `json:"rules"`

	Standings []Standing `json:"standings"`

	// Players who were struck from the ranking
	Unranked []string `json:"unranked"`

	// The sets that the standings are based on
	Sets []SetLine `json:"sets"`
}

type Rules struct {
	ScoreMinimum  int `json:"scoreMinimum"`
	ScoreDistance int `json:"scoreDistance"`
	BestOf        int `json:"bestOf"`
	VictoryPoints int `json:"victoryPoints"`
	DefeatPoints  int `json:"defeatPoints"`
}

// Standing is one row of the standings.
type Standing struct {
	// 1-based. Players who share a rank share the place
	// of the first of them.
	Place  int    `json:"place"`
	Player string `json:"player"`
	Points int    `json:"points"`

	CohortPoints     int        `json:"cohortPoints"`
	CohortGameRatio  core.Ratio `json:"cohortGameRatio"`
	CohortScoreRatio core.Ratio `json:"cohortScoreRatio"`
	GameRatio        core.Ratio `json:"gameRatio"`
	ScoreRatio       core.Ratio `json:"scoreRatio"`

	DecidedBy  core.Criterion `json:"decidedBy"`
	SharedWith []string       `json:"sharedWith,omitempty"`
}

// SetLine is one ranked set.
type SetLine struct {
	Id     int    `json:"id"`
	Home   string `json:"home"`
	Away   string `json:"away"`
	Score  string `json:"score"`
	Winner string `json:"winner"`

	HomePoints int `json:"homePoints"`
	AwayPoints int `json:"awayPoints"`
}

// New creates the report of a ranking of the competition.
func New(
	name string,
	competition *core.Competition[string],
	ranking *core.Ranking[string],
	matchRules core.MatchRules,
	setRules core.SetRules,
) (*Report, error) {
	report := &Report{
		Name: name,
		Rules: Rules{
			ScoreMinimum:  setRules.GameRules.ScoreMinimum,
			ScoreDistance: setRules.GameRules.ScoreDistance,
			BestOf:        setRules.BestOf,
			VictoryPoints: matchRules.VictoryPoints,
			DefeatPoints:  matchRules.DefeatPoints,
		},
		Standings: make([]Standing, 0, len(ranking.Ranked)),
		Unranked:  make([]string, 0, len(ranking.Unranked)),
		Sets:      make([]SetLine, 0, len(ranking.RankedSets)),
	}

	playerName := func(id int) string {
		player, _ := competition.PlayerById(id)
		return player
	}

	place := 1
	for _, tie := range ranking.TiedRanks() {
		for _, rank := range tie {
			sharedWith := make([]string, 0, len(rank.SharedWith))
			for _, id := range rank.SharedWith {
				sharedWith = append(sharedWith, playerName(id))
			}

			report.Standings = append(report.Standings, Standing{
				Place:            place,
				Player:           rank.Player,
				Points:           rank.Points,
				CohortPoints:     rank.SameRankPoints,
				CohortGameRatio:  rank.SameRankGameRatio,
				CohortScoreRatio: rank.SameRankScoreRatio,
				GameRatio:        rank.SameRankGameRatioEvery,
				ScoreRatio:       rank.SameRankScoreRatioEvery,
				DecidedBy:        rank.DecidedBy,
				SharedWith:       sharedWith,
			})
		}
		place += len(tie)
	}

	for _, entry := range ranking.Unranked {
		report.Unranked = append(report.Unranked, entry.Player)
	}

	for _, s := range ranking.RankedSets {
		outcome, err := core.NewSetOutcome(s, matchRules, setRules)
		if err != nil {
			return nil, fmt.Errorf("set %d: %w", s.Id, err)
		}
		report.Sets = append(report.Sets, SetLine{
			Id:         s.Id,
			Home:       playerName(s.HomePlayerId),
			Away:       playerName(s.AwayPlayerId),
			Score:      tabletennis.FormatSet(s.Set),
			Winner:     playerName(s.PlayerOf(outcome.Winner)),
			HomePoints: outcome.Home.Points,
			AwayPoints: outcome.Away.Points,
		})
	}

	return report, nil
}

// Returns the number of places that are shared by more than one player
func (r *Report) SharedPlaces() int {
	shared := 0
	for i, s := range r.Standings {
		if len(s.SharedWith) > 0 && (i == 0 || r.Standings[i-1].Place != s.Place) {
			shared += 1
		}
	}
	return shared
}

// WriteText renders the report as aligned plain text tables.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.Name != "" {
		fmt.Fprintf(tw, "%s\n\n", r.Name)
	}

	fmt.Fprintln(tw, "#\tPlayer\tPts\tCohort\tGames\tScores\tDecided by\tShared with")
	for _, s := range r.Standings {
		place := fmt.Sprintf("%d", s.Place)
		if len(s.SharedWith) > 0 {
			place += "="
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			place,
			s.Player,
			s.Points,
			s.CohortPoints,
			s.GameRatio,
			s.ScoreRatio,
			s.DecidedBy,
			strings.Join(s.SharedWith, ", "),
		)
	}

	if len(r.Unranked) > 0 {
		fmt.Fprintf(tw, "\nStruck: %s\n", strings.Join(r.Unranked, ", "))
	}

	if len(r.Sets) > 0 {
		fmt.Fprintln(tw, "\nSet\tHome\tAway\tScore\tWinner")
		for _, s := range r.Sets {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.Id, s.Home, s.Away, s.Score, s.Winner)
		}
	}

	return tw.Flush()
}
