/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// BuildStandingsOutput formats the standings into an aligned text table.
// Breakers are shown as percentages with one decimal.
func BuildStandingsOutput(s *State) string {
	players := s.Sorted()
	if len(players) == 0 {
		return "No players in standings\n"
	}

	type row struct{ rank, name, points, record, omw, gw, ogw string }
	var rows []row
	for idx, p := range players {
		rows = append(rows, row{
			rank:   fmt.Sprintf("%v.", idx+1),
			name:   p.DisplayName(),
			points: fmt.Sprintf("%d", p.MatchPoints),
			record: p.Record(),
			omw:    percent(p.OpponentMatchWinPercent),
			gw:     percent(p.GameWinPercent),
			ogw:    percent(p.OpponentGameWinPercent),
		})
	}

	headers := row{"Place", "Name", "Points", "Record", "OMW%", "GW%", "OGW%"}
	widths := []int{len(headers.rank), len(headers.name), len(headers.points),
		len(headers.record), len(headers.omw), len(headers.gw),
		len(headers.ogw)}
	for _, r := range rows {
		for i, l := range []int{len(r.rank), len(r.name), len(r.points),
			len(r.record), len(r.omw), len(r.gw), len(r.ogw)} {
			if l > widths[i] {
				widths[i] = l
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Standings after Round %v of %v:\n\n",
		s.CurrentRound, s.MinRound))
	for _, r := range append([]row{headers}, rows...) {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %*s  %-*s  %*s  %*s  %*s\n",
			widths[0], r.rank, widths[1], r.name, widths[2], r.points,
			widths[3], r.record, widths[4], r.omw, widths[5], r.gw,
			widths[6], r.ogw))
	}

	return sb.String()
}

// BuildPairingsOutput formats the current pairings, one row per table, in
// the order the pairings were generated.
func BuildPairingsOutput(s *State) string {
	if len(s.Pairings) == 0 {
		return fmt.Sprintf("No pairings for Round %v\n", s.CurrentRound+1)
	}

	type row struct{ table, a, b string }
	var rows []row
	var byes []string
	for idx, pairing := range s.Pairings {
		if pairing.IsBye() {
			id := pairing.Other(ByeID)
			byes = append(byes, s.describe(id))
			continue
		}
		rows = append(rows, row{
			table: fmt.Sprintf("%d.", idx+1),
			a:     s.describe(pairing[0]),
			b:     s.describe(pairing[1]),
		})
	}

	maxT, maxA := len("Table"), len("Player")
	for _, r := range rows {
		if l := len(r.table); l > maxT {
			maxT = l
		}
		if l := len(r.a); l > maxA {
			maxA = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", s.CurrentRound+1))
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxT, "Table", maxA,
		"Player", "Opponent"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxT, r.table, maxA,
			r.a, r.b))
	}
	for _, b := range byes {
		sb.WriteString(fmt.Sprintf("BYE: %s\n", b))
	}

	return sb.String()
}

func (s *State) describe(id string) string {
	p, ok := s.Players[id]
	if !ok {
		return id
	}
	return fmt.Sprintf("%s(%d)", p.DisplayName(), p.MatchPoints)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f", v*100)
}
