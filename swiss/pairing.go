/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

// DefaultPairingBudget bounds how many candidate opponents the Pairer tries
// (across all backtracking) before giving up on a round.
const DefaultPairingBudget = 1 << 16

// Pairer generates Swiss pairings. Each player, taken in ranking order, is
// paired against a random opponent from the highest match point level at or
// below their own that still has an eligible opponent. When an earlier choice
// leaves a later player without any eligible opponent, the Pairer backs up and
// tries the next candidate.
type Pairer struct {
	// AllowRematches permits a second pass that ignores prior opponents when
	// no rematch-free pairing exists.
	AllowRematches bool
	Budget         int

	rng Rand
}

func NewPairer(rng Rand) *Pairer {
	return &Pairer{
		Budget: DefaultPairingBudget,
		rng:    rng,
	}
}

// GeneratePairings is shorthand for NewPairer(rng).Pair(s).
func GeneratePairings(s *State, rng Rand) error {
	return NewPairer(rng).Pair(s)
}

// Pair replaces s.Pairings with a pairing covering every player once. The bye
// pseudo-player is added or removed first so the field is even.
func (pr *Pairer) Pair(s *State) error {
	s.EnsureBye()
	order := sortPlayers(s.Players, pairable)

	pairings, ok := pr.search(s.Players, order, false)
	if !ok && pr.AllowRematches {
		pairings, ok = pr.search(s.Players, order, true)
	}
	if !ok {
		return fmt.Errorf("%w: round %v with %v players", ErrNoLegalPairing,
			s.CurrentRound+1, len(order))
	}
	s.Pairings = pairings

	return nil
}

func (pr *Pairer) search(players map[string]*Player, order []*Player,
	rematches bool) ([]Pairing, bool) {

	budget := pr.Budget
	if budget <= 0 {
		budget = DefaultPairingBudget
	}
	ps := &pairingSearch{
		rng:       pr.rng,
		players:   players,
		order:     order,
		byPoints:  make(map[int][]string),
		paired:    make(map[string]bool, len(order)),
		rematches: rematches,
		budget:    budget,
		out:       make([]Pairing, 0, len(order)/2),
	}
	for _, p := range order {
		ps.byPoints[p.MatchPoints] = append(ps.byPoints[p.MatchPoints],
			p.PersonaID)
	}
	if !ps.run(0) {
		return nil, false
	}

	return ps.out, true
}

type pairingSearch struct {
	rng       Rand
	players   map[string]*Player
	order     []*Player
	byPoints  map[int][]string
	paired    map[string]bool
	rematches bool
	budget    int
	out       []Pairing
}

func (ps *pairingSearch) run(start int) bool {
	idx := start
	for idx < len(ps.order) && ps.paired[ps.order[idx].PersonaID] {
		idx++
	}
	if idx == len(ps.order) {
		return true
	}

	p := ps.order[idx]
	ps.paired[p.PersonaID] = true
	for level := p.MatchPoints; level >= 0; level-- {
		candidates := ps.candidates(p, level)
		shuffle(ps.rng, candidates)
		for _, opp := range candidates {
			if ps.budget <= 0 {
				ps.paired[p.PersonaID] = false
				return false
			}
			ps.budget--

			ps.paired[opp] = true
			ps.out = append(ps.out, Pairing{opp, p.PersonaID})
			if ps.run(idx + 1) {
				return true
			}
			ps.out = ps.out[:len(ps.out)-1]
			ps.paired[opp] = false
		}
	}
	ps.paired[p.PersonaID] = false

	return false
}

func (ps *pairingSearch) candidates(p *Player, level int) []string {
	var ret []string
	for _, id := range ps.byPoints[level] {
		if id == p.PersonaID || ps.paired[id] {
			continue
		}
		if !ps.rematches &&
			(p.hasPlayed(id) || ps.players[id].hasPlayed(p.PersonaID)) {
			continue
		}
		ret = append(ret, id)
	}
	return ret
}
