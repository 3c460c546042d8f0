/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

const (
	DefaultTopCut = 8
	// DefaultDrawRate is the chance an unscripted match ends in a 1-1 draw.
	DefaultDrawRate = 0.01
)

// Resolver plays out one round of a State.
type Resolver struct {
	TopCut   int
	DrawRate float64

	rng Rand
}

func NewResolver(rng Rand) *Resolver {
	return &Resolver{
		TopCut:   DefaultTopCut,
		DrawRate: DefaultDrawRate,
		rng:      rng,
	}
}

// ResolveRound is shorthand for NewResolver(rng).Resolve(s, target, result).
func ResolveRound(s *State, target string, result Result,
	rng Rand) (*State, error) {

	return NewResolver(rng).Resolve(s, target, result)
}

// Resolve plays the current pairings of s and returns the resulting State.
// The target's match is fixed to result: a win is taken as 2-1, a draw as
// 1-1 and a loss as 0-2. Every other match is rolled at random, except that
// two players far enough above the cut line draw intentionally. s is not
// modified.
func (r *Resolver) Resolve(s *State, target string,
	result Result) (*State, error) {

	if !result.Valid() {
		return nil, fmt.Errorf("%w: unrecognized result %q", ErrInvalidArgument,
			result)
	}
	if target == ByeID {
		return nil, fmt.Errorf("%w: cannot resolve for the bye",
			ErrInvalidArgument)
	}
	if _, ok := s.Players[target]; !ok {
		return nil, fmt.Errorf("%w: target player %v", ErrNotFound, target)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.IsFinished() {
		return nil, fmt.Errorf("%w: all %v rounds already resolved",
			ErrInvalidArgument, s.MinRound)
	}
	if err := s.checkCoverage(); err != nil {
		return nil, err
	}

	next := s.Copy()
	cutPoints, haveCut := 0, false
	if line, ok := next.cutLine(r.topCut()); ok {
		cutPoints, haveCut = line.MatchPoints, true
	}

	for _, pairing := range next.Pairings {
		a, b := next.Players[pairing[0]], next.Players[pairing[1]]
		if pairing[1] == target {
			a, b = b, a
		}

		switch {
		case pairing.IsBye():
			if a.PersonaID == ByeID {
				a, b = b, a
			}
			a.Wins++
			a.GameWins += 2
		case a.PersonaID == target:
			playMatch(a, b, scriptedGames(result))
		case haveCut && a.MatchPoints-2 > cutPoints &&
			b.MatchPoints-2 > cutPoints:
			a.Draws++
			b.Draws++
		default:
			playMatch(a, b, r.rollGames())
		}

		if b.PersonaID != ByeID {
			b.Opponents = append(b.Opponents, a.PersonaID)
		}
		if a.PersonaID != ByeID {
			a.Opponents = append(a.Opponents, b.PersonaID)
		}
	}

	if err := recomputeBreakers(next.Players); err != nil {
		return nil, err
	}
	rerank(next.Players)
	next.CurrentRound = s.CurrentRound + 1
	next.Pairings = nil

	return next, nil
}

func (r *Resolver) topCut() int {
	if r.TopCut <= 0 {
		return DefaultTopCut
	}
	return r.TopCut
}

// games is a match score from side A's perspective.
type games struct {
	a, b int
}

func scriptedGames(result Result) games {
	switch result {
	case ResultWin:
		return games{2, 1}
	case ResultDraw:
		return games{1, 1}
	default:
		return games{0, 2}
	}
}

// rollGames picks one of the four decisive best-of-three scores with equal
// probability, or a 1-1 draw with probability DrawRate.
func (r *Resolver) rollGames() games {
	margin := r.rng.Float64()
	drawRoll := r.rng.Float64()
	if drawRoll < r.DrawRate {
		return games{1, 1}
	}
	switch {
	case margin < 0.25:
		return games{0, 2}
	case margin < 0.50:
		return games{1, 2}
	case margin < 0.75:
		return games{2, 1}
	default:
		return games{2, 0}
	}
}

func playMatch(a, b *Player, g games) {
	a.GameWins += g.a
	a.GameLosses += g.b
	b.GameWins += g.b
	b.GameLosses += g.a

	switch {
	case g.a > g.b:
		a.Wins++
		b.Losses++
	case g.a < g.b:
		a.Losses++
		b.Wins++
	default:
		a.Draws++
		b.Draws++
	}
}

// checkCoverage verifies every player still in the event, and the bye when
// present, appears in the current pairings.
func (s *State) checkCoverage() error {
	if len(s.Pairings) == 0 {
		return fmt.Errorf("%w: no pairings for round %v", ErrNotFound,
			s.CurrentRound+1)
	}
	paired := make(map[string]bool, len(s.Players))
	for _, pairing := range s.Pairings {
		paired[pairing[0]] = true
		paired[pairing[1]] = true
	}
	for _, id := range sortedIDs(s.Players) {
		if pairable(s.Players[id]) && !paired[id] {
			return fmt.Errorf("%w: no pairing for player %v", ErrNotFound, id)
		}
	}
	return nil
}

// recomputeBreakers derives match points and breakers for every real player
// from their record and their opponents' records.
func recomputeBreakers(players map[string]*Player) error {
	for _, p := range players {
		if !p.isReal() {
			continue
		}
		var omw, ogw float64
		counted := 0
		for _, id := range p.Opponents {
			if id == ByeID {
				continue
			}
			opp, ok := players[id]
			if !ok {
				return fmt.Errorf("%w: %v lists unknown opponent %v",
					ErrInconsistentState, p.PersonaID, id)
			}
			omw += floorRate(opp.Wins, opp.Losses)
			ogw += floorRate(opp.GameWins, opp.GameLosses)
			counted++
		}
		if counted == 0 {
			p.OpponentMatchWinPercent = breakerFloor
			p.OpponentGameWinPercent = breakerFloor
		} else {
			// averaging can land an ulp under the floor
			p.OpponentMatchWinPercent = max(omw/float64(counted), breakerFloor)
			p.OpponentGameWinPercent = max(ogw/float64(counted), breakerFloor)
		}
		p.GameWinPercent = floorRate(p.GameWins, p.GameLosses)
		p.MatchPoints = p.Wins*3 + p.Draws
	}

	return nil
}
