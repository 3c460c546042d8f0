/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"testing"
)

// newField builds a fresh event of n players named p01..pNN.
func newField(t *testing.T, n, minRound int) *State {
	t.Helper()
	var players []*Player
	for i := 1; i <= n; i++ {
		players = append(players, &Player{
			PersonaID: fmt.Sprintf("p%02d", i),
			FirstName: "Player",
			LastName:  fmt.Sprintf("%02d", i),
		})
	}
	s, err := NewState(players, minRound)
	if err != nil {
		t.Fatalf("NewState(%v): %v", n, err)
	}
	return s
}

// scriptedRand replays vals for Float64 and always answers 0 for Intn.
type scriptedRand struct {
	vals []float64
	idx  int
}

func (r *scriptedRand) Float64() float64 {
	v := r.vals[r.idx%len(r.vals)]
	r.idx++
	return v
}

func (r *scriptedRand) Intn(n int) int { return 0 }

// checkPairings verifies every pairable player appears exactly once.
func checkPairings(t *testing.T, s *State) {
	t.Helper()
	seen := make(map[string]int)
	for _, pairing := range s.Pairings {
		seen[pairing[0]]++
		seen[pairing[1]]++
	}
	want := 0
	for id, p := range s.Players {
		if !pairable(p) {
			continue
		}
		want++
		if seen[id] != 1 {
			t.Fatalf("player %v paired %v times in %v", id, seen[id],
				s.Pairings)
		}
	}
	if len(s.Pairings) != want/2 {
		t.Fatalf("expected %v pairings, got %v", want/2, len(s.Pairings))
	}
}
