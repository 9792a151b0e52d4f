// Package spreadsheet reads competition documents from and writes
// reports to XLSX workbooks.
//
// An input workbook has a sheet named "Sets" (or uses its first sheet)
// with the columns home, away and score. An optional header row is
// skipped. An optional "Players" sheet lists the players in its first
// column and an optional "Rules" sheet holds rows of rule name and value,
// e.g. "best_of | 3".
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ezBadminton/ttrank/internal/document"
	"github.com/ezBadminton/ttrank/internal/report"
)

const (
	SetsSheet      = "Sets"
	PlayersSheet   = "Players"
	RulesSheet     = "Rules"
	StandingsSheet = "Standings"
	UnrankedSheet  = "Unranked"
)

var ErrInvalidWorkbook = errors.New("invalid workbook")

// ReadDocument reads the competition document of an XLSX workbook.
func ReadDocument(r io.Reader) (*document.Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open XLSX file: %w", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: XLSX file has no sheets", ErrInvalidWorkbook)
	}

	setsSheet := sheets[0]
	if hasSheet(sheets, SetsSheet) {
		setsSheet = SetsSheet
	}

	doc := &document.Document{Sets: []document.Set{}}

	rows, err := f.GetRows(setsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrInvalidWorkbook, setsSheet, err)
	}
	for i, row := range rows {
		if isBlank(row) || (i == 0 && isHeader(row, "home")) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: sheet %q row %d needs a home and an away player", ErrInvalidWorkbook, setsSheet, i+1)
		}
		set := document.Set{
			Home: strings.TrimSpace(row[0]),
			Away: strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			set.Score = strings.TrimSpace(row[2])
		}
		doc.Sets = append(doc.Sets, set)
	}

	if hasSheet(sheets, PlayersSheet) {
		rows, err := f.GetRows(PlayersSheet)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrInvalidWorkbook, PlayersSheet, err)
		}
		for i, row := range rows {
			if isBlank(row) || (i == 0 && isHeader(row, "player")) {
				continue
			}
			doc.Players = append(doc.Players, strings.TrimSpace(row[0]))
		}
	}

	if hasSheet(sheets, RulesSheet) {
		rules, err := readRules(f)
		if err != nil {
			return nil, err
		}
		doc.Rules = rules
	}

	return doc, nil
}

func readRules(f *excelize.File) (*document.Rules, error) {
	rows, err := f.GetRows(RulesSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrInvalidWorkbook, RulesSheet, err)
	}

	rules := &document.Rules{}
	fields := map[string]**int{
		"score_minimum":  &rules.ScoreMinimum,
		"score_distance": &rules.ScoreDistance,
		"best_of":        &rules.BestOf,
		"victory_points": &rules.VictoryPoints,
		"defeat_points":  &rules.DefeatPoints,
	}

	for i, row := range rows {
		if isBlank(row) || (i == 0 && isHeader(row, "rule")) {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(row[0]))
		field, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown rule %q in row %d", ErrInvalidWorkbook, row[0], i+1)
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: rule %q has no value", ErrInvalidWorkbook, name)
		}
		value, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %w", ErrInvalidWorkbook, name, err)
		}
		*field = &value
	}

	return rules, nil
}

func hasSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isHeader(row []string, first string) bool {
	return strings.EqualFold(strings.TrimSpace(row[0]), first)
}

// WriteReport writes the report as a workbook with a standings sheet,
// a sets sheet and, when players were struck, an unranked sheet.
func WriteReport(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), StandingsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	standings := [][]any{{
		"Place", "Player", "Points",
		"Cohort points", "Cohort games", "Cohort scores",
		"Games", "Scores", "Decided by", "Shared with",
	}}
	for _, s := range r.Standings {
		standings = append(standings, []any{
			s.Place, s.Player, s.Points,
			s.CohortPoints, s.CohortGameRatio.String(), s.CohortScoreRatio.String(),
			s.GameRatio.String(), s.ScoreRatio.String(),
			s.DecidedBy.String(), strings.Join(s.SharedWith, ", "),
		})
	}
	if err := writeRows(f, StandingsSheet, standings, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SetsSheet); err != nil {
		return err
	}
	sets := [][]any{{"Home", "Away", "Score", "Winner", "Home points", "Away points"}}
	for _, s := range r.Sets {
		sets = append(sets, []any{s.Home, s.Away, s.Score, s.Winner, s.HomePoints, s.AwayPoints})
	}
	if err := writeRows(f, SetsSheet, sets, bold); err != nil {
		return err
	}

	if len(r.Unranked) > 0 {
		if _, err := f.NewSheet(UnrankedSheet); err != nil {
			return err
		}
		unranked := [][]any{{"Player"}}
		for _, p := range r.Unranked {
			unranked = append(unranked, []any{p})
		}
		if err := writeRows(f, UnrankedSheet, unranked, bold); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
