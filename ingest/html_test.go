/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mikeb26/swiss-topcut/swiss"
)

const standingsPage = `<html><body>
<h2>Friday Night Standings</h2>
<table id="standings">
  <caption>Standings after Round 2 of 4</caption>
  <thead>
    <tr><th>Place</th><th>Name</th><th>Points</th><th>Record</th><th>OMW%</th><th>GW%</th><th>OGW%</th></tr>
  </thead>
  <tbody>
    <tr data-persona-id="p-1"><td>1.</td><td>Jane Doe</td><td>6</td><td>2-0-0</td><td>50.0%</td><td>80.0%</td><td>45.5%</td></tr>
    <tr><td>2.</td><td>Mary Ann Smith</td><td>4</td><td>1-0-1</td><td>66.7</td><td>60.0</td><td>52.1</td></tr>
    <tr><td>3.</td><td>Bob Jones</td><td>0</td><td>0-2-0</td><td>75.0</td><td>33.3</td><td>61.0</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseStandingsHTML(t *testing.T) {
	s, err := ParseStandingsHTML(strings.NewReader(standingsPage), 0)
	if err != nil {
		t.Fatalf("ParseStandingsHTML: %v", err)
	}
	if s.CurrentRound != 2 || s.MinRound != 4 {
		t.Errorf("round %v of %v", s.CurrentRound, s.MinRound)
	}
	if s.RealPlayerCount() != 3 {
		t.Fatalf("%v players", s.RealPlayerCount())
	}
	if _, ok := s.Players[swiss.ByeID]; !ok {
		t.Errorf("odd field without bye")
	}

	jane := s.Players["p-1"]
	if jane == nil || jane.MatchPoints != 6 || jane.Wins != 2 ||
		math.Abs(jane.GameWinPercent-0.8) > 1e-9 || jane.Rank != 1 {
		t.Errorf("jane: %+v", jane)
	}
	mary := s.Players["name:mary ann smith"]
	if mary == nil || mary.FirstName != "Mary Ann" || mary.LastName != "Smith" ||
		mary.Draws != 1 || mary.MatchPoints != 4 {
		t.Errorf("mary: %+v", mary)
	}

	var order []string
	for _, p := range s.Sorted() {
		order = append(order, p.PersonaID)
	}
	want := "p-1,name:mary ann smith,name:bob jones"
	if strings.Join(order, ",") != want {
		t.Errorf("order %v", order)
	}
}

func TestParseStandingsHTMLErrors(t *testing.T) {
	cases := map[string]string{
		"no table":  `<html><body><p>nothing</p></body></html>`,
		"no rounds": `<table id="standings"><tr><th>Name</th></tr><tr><td>A</td></tr></table>`,
		"bad record": `<table id="standings"><caption>Round 1 of 3</caption>
			<tr><th>Name</th><th>Record</th></tr>
			<tr><td>A</td><td>one-oh</td></tr></table>`,
		"round past the end": `<table id="standings"><caption>Round 5 of 4</caption>
			<tr><th>Name</th></tr><tr><td>A</td></tr><tr><td>B</td></tr></table>`,
		"negative record": `<table id="standings"><caption>Round 1 of 3</caption>
			<tr><th>Name</th><th>Record</th></tr>
			<tr><td>A</td><td>-1-0-0</td></tr><tr><td>B</td><td>0-1-0</td></tr></table>`,
	}
	for name, page := range cases {
		_, err := ParseStandingsHTML(strings.NewReader(page), 0)
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("%v: err = %v", name, err)
		}
	}

	// the caller can supply the round count
	s, err := ParseStandingsHTML(strings.NewReader(
		`<table id="standings"><tr><th>Name</th></tr><tr><td>A</td></tr>`+
			`<tr><td>B</td></tr></table>`), 3)
	if err != nil || s.MinRound != 3 || s.RealPlayerCount() != 2 {
		t.Errorf("explicit rounds: %v %+v", err, s)
	}
}
