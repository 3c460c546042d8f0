/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"errors"
	"fmt"
	"testing"
)

func TestPairingCompleteness(t *testing.T) {
	const trials = 1000

	for n := 2; n <= 16; n += 2 {
		t.Run(fmt.Sprintf("%v players", n), func(t *testing.T) {
			// a rematch-free round always exists while fewer than n/2
			// rounds have been played
			rounds := n / 2
			for trial := 0; trial < trials; trial++ {
				rng := NewRand(int64(trial + 1))
				s := newField(t, n, rounds)
				for round := 0; round < rounds; round++ {
					if err := GeneratePairings(s, rng); err != nil {
						t.Fatalf("trial %v round %v: %v", trial, round+1, err)
					}
					checkPairings(t, s)
					checkNoRematches(t, s)

					var err error
					s, err = ResolveRound(s, "p01", ResultWin, rng)
					if err != nil {
						t.Fatalf("trial %v round %v: %v", trial, round+1, err)
					}
				}
			}
		})
	}
}

func checkNoRematches(t *testing.T, s *State) {
	t.Helper()
	for _, pairing := range s.Pairings {
		a, b := s.Players[pairing[0]], s.Players[pairing[1]]
		if a.hasPlayed(b.PersonaID) || b.hasPlayed(a.PersonaID) {
			t.Fatalf("rematch %v in round %v", pairing, s.CurrentRound+1)
		}
	}
}

func TestOddFieldBye(t *testing.T) {
	for n := 3; n <= 15; n += 2 {
		rng := NewRand(int64(n))
		s := newField(t, n, 3)
		byes := make(map[string]int)
		for round := 0; round < 3; round++ {
			if err := GeneratePairings(s, rng); err != nil {
				t.Fatalf("%v players round %v: %v", n, round+1, err)
			}
			checkPairings(t, s)

			count := 0
			for _, pairing := range s.Pairings {
				if pairing.IsBye() {
					count++
					byes[pairing.Other(ByeID)]++
				}
			}
			if count != 1 {
				t.Fatalf("%v players: %v bye pairings in %v", n, count,
					s.Pairings)
			}

			var err error
			s, err = ResolveRound(s, "p01", ResultLoss, rng)
			if err != nil {
				t.Fatalf("%v players round %v: %v", n, round+1, err)
			}
		}
		for id, count := range byes {
			if count > 1 {
				t.Errorf("%v players: %v received %v byes", n, id, count)
			}
		}
	}
}

func TestPairingBacktracks(t *testing.T) {
	// whichever of c or d a is offered first, only a-d leaves b a legal
	// opponent
	for seed := int64(1); seed <= 200; seed++ {
		s := newField(t, 4, 3)
		s.Players["p01"].Opponents = []string{"p02"}
		s.Players["p02"].Opponents = []string{"p01", "p04"}
		s.Players["p04"].Opponents = []string{"p02"}

		if err := GeneratePairings(s, NewRand(seed)); err != nil {
			t.Fatalf("seed %v: %v", seed, err)
		}
		checkPairings(t, s)
		checkNoRematches(t, s)
		if opp, _ := s.OpponentOf("p01"); opp != "p04" {
			t.Fatalf("seed %v: p01 paired with %v", seed, opp)
		}
	}
}

func TestPairingScoreGroups(t *testing.T) {
	s := newField(t, 4, 3)
	s.Players["p03"].Wins, s.Players["p03"].MatchPoints = 1, 3
	s.Players["p04"].Wins, s.Players["p04"].MatchPoints = 1, 3

	for seed := int64(1); seed <= 50; seed++ {
		cp := s.Copy()
		if err := GeneratePairings(cp, NewRand(seed)); err != nil {
			t.Fatalf("seed %v: %v", seed, err)
		}
		if opp, _ := cp.OpponentOf("p03"); opp != "p04" {
			t.Fatalf("seed %v: p03 paired down against %v", seed, opp)
		}
	}
}

func TestNoLegalPairing(t *testing.T) {
	s := newField(t, 2, 3)
	s.Players["p01"].Opponents = []string{"p02"}
	s.Players["p02"].Opponents = []string{"p01"}

	err := GeneratePairings(s, NewRand(1))
	if !errors.Is(err, ErrNoLegalPairing) {
		t.Fatalf("GeneratePairings = %v; want ErrNoLegalPairing", err)
	}
	if s.Pairings != nil {
		t.Errorf("failed pairing left pairings %v", s.Pairings)
	}

	pr := NewPairer(NewRand(1))
	pr.AllowRematches = true
	if err := pr.Pair(s); err != nil {
		t.Fatalf("Pair with rematches: %v", err)
	}
	checkPairings(t, s)
}

func TestPairingSkipsDropped(t *testing.T) {
	s := newField(t, 6, 3)
	s.Players["p02"].Dropped = true
	if err := GeneratePairings(s, NewRand(3)); err != nil {
		t.Fatalf("GeneratePairings: %v", err)
	}
	checkPairings(t, s)
	if _, ok := s.OpponentOf("p02"); ok {
		t.Errorf("dropped player was paired")
	}
	if _, ok := s.OpponentOf(ByeID); !ok {
		t.Errorf("bye missing from pairings of a 5 player field")
	}
}
