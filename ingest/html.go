/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/swiss-topcut/internal"
	"github.com/mikeb26/swiss-topcut/swiss"
)

var roundCaptionRe = regexp.MustCompile(`(?i)round\s+(\d+)\s+of\s+(\d+)`)

// ParseStandingsHTML reads a published standings page: a table#standings
// with Place, Name, Points, Record (W-L-D), OMW%, GW% and OGW% columns in
// any order. Rows may carry a data-persona-id attribute; otherwise players
// are keyed by their normalized name. The round counter comes from a
// "Round X of Y" caption; minRound is used when the caption is absent.
// The returned State has no pairings and no opponent history.
func ParseStandingsHTML(r io.Reader, minRound int) (*swiss.State, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse standings page: %w", err)
	}
	table := doc.Find("table#standings").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no standings table", ErrMalformedPayload)
	}

	currentRound := 0
	caption := strings.TrimSpace(table.Find("caption").Text())
	if caption == "" {
		caption = strings.TrimSpace(doc.Find("h1, h2, h3").First().Text())
	}
	if m := roundCaptionRe.FindStringSubmatch(caption); m != nil {
		currentRound, _ = strconv.Atoi(m[1])
		minRound, _ = strconv.Atoi(m[2])
	}
	if minRound < 1 {
		return nil, fmt.Errorf("%w: standings page does not give the number of rounds",
			ErrMalformedPayload)
	}

	cols := make(map[string]int)
	table.Find("tr").First().Find("th").Each(func(idx int, th *goquery.Selection) {
		key := strings.ToLower(strings.TrimSpace(th.Text()))
		cols[strings.TrimSuffix(key, "%")] = idx
	})
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: standings table has no Name column",
			ErrMalformedPayload)
	}

	var players []*swiss.Player
	var rowErr error
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if rowErr != nil {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		p, err := rowToPlayer(row, cells, cols)
		if err != nil {
			rowErr = err
			return
		}
		p.Rank = len(players) + 1
		players = append(players, p)
	})
	if rowErr != nil {
		return nil, rowErr
	}

	s, err := swiss.NewState(players, minRound)
	if err != nil {
		return nil, err
	}
	s.CurrentRound = currentRound
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return s, nil
}

func rowToPlayer(row, cells *goquery.Selection,
	cols map[string]int) (*swiss.Player, error) {

	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= cells.Length() {
			return ""
		}
		return strings.TrimSpace(cells.Eq(idx).Text())
	}

	name := cell("name")
	if name == "" {
		return nil, fmt.Errorf("%w: standings row without a name",
			ErrMalformedPayload)
	}
	p := &swiss.Player{}
	p.PersonaID, _ = row.Attr("data-persona-id")
	if p.PersonaID == "" {
		p.PersonaID = "name:" + internal.NormalizeName(name)
	}
	if idx := strings.LastIndex(name, " "); idx != -1 {
		p.FirstName, p.LastName = name[:idx], name[idx+1:]
	} else {
		p.FirstName = name
	}

	if rec := cell("record"); rec != "" {
		if _, err := fmt.Sscanf(rec, "%d-%d-%d", &p.Wins, &p.Losses,
			&p.Draws); err != nil {
			return nil, fmt.Errorf("%w: record %q for %v", ErrMalformedPayload,
				rec, name)
		}
	}
	p.MatchPoints = p.Wins*3 + p.Draws
	if pts := cell("points"); pts != "" {
		mp, err := strconv.Atoi(pts)
		if err != nil {
			return nil, fmt.Errorf("%w: points %q for %v", ErrMalformedPayload,
				pts, name)
		}
		p.MatchPoints = mp
	}

	var err error
	for _, f := range []struct {
		col string
		dst *float64
	}{
		{"omw", &p.OpponentMatchWinPercent},
		{"gw", &p.GameWinPercent},
		{"ogw", &p.OpponentGameWinPercent},
	} {
		if *f.dst, err = parsePercent(cell(f.col)); err != nil {
			return nil, fmt.Errorf("%w: %v for %v: %w", ErrMalformedPayload,
				f.col, name, err)
		}
	}

	return p, nil
}

// parsePercent reads "55.6" or "55.6%" as 0.556. Empty cells read as 0.
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}
