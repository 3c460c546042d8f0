/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/mikeb26/swiss-topcut/swiss"
)

// CompletedRounds returns the Swiss rounds played before the round in
// progress, in round order.
func (e *Event) CompletedRounds() []Round {
	var ret []Round
	for _, round := range e.GameState.Rounds {
		if round.IsPlayoff || round.Number >= e.GameState.CurrentRoundNumber {
			continue
		}
		ret = append(ret, round)
	}
	return ret
}

// Current returns the round in progress, from currentRound when present and
// otherwise from rounds.
func (e *Event) Current() *Round {
	gs := e.GameState
	if gs.CurrentRound != nil {
		return gs.CurrentRound
	}
	for idx := range gs.Rounds {
		if gs.Rounds[idx].Number == gs.CurrentRoundNumber {
			return &gs.Rounds[idx]
		}
	}
	return nil
}

// State builds the engine's view of the event. Records and breakers come
// from the standings; game tallies and opponent lists are rebuilt from the
// completed rounds; the round in progress becomes the pairings. Before the
// first standings are published every player starts from an empty record.
func (e *Event) State() (*swiss.State, error) {
	gs := e.GameState
	current := e.Current()

	players := make(map[string]*swiss.Player)
	var order []*swiss.Player
	add := func(p *swiss.Player) {
		if _, ok := players[p.PersonaID]; ok {
			return
		}
		players[p.PersonaID] = p
		order = append(order, p)
	}

	teamToPersona := make(map[string]string)
	if len(gs.Standings) > 0 {
		for _, st := range gs.Standings {
			teamToPersona[st.Team.ID] = st.Team.PersonaID()
			add(standingToPlayer(st))
		}
	} else if current != nil {
		for _, m := range current.Matches {
			for _, t := range m.Teams {
				if t.PersonaID() != "" {
					add(userToPlayer(t.Players[0], len(order)+1))
				}
			}
		}
	}

	// players missing from the standings (e.g. removed after dropping) are
	// rebuilt from their match history so opponents' breakers still resolve
	placeholders := make(map[string]bool)
	for _, round := range e.CompletedRounds() {
		for _, m := range round.Matches {
			for _, t := range m.Teams {
				id := t.PersonaID()
				if id == "" || id == swiss.ByeID {
					continue
				}
				if _, ok := players[id]; !ok {
					p := userToPlayer(t.Players[0], 0)
					p.Dropped = true
					add(p)
					placeholders[id] = true
				}
			}
		}
	}

	for _, round := range e.CompletedRounds() {
		for _, m := range round.Matches {
			applyMatch(players, placeholders, m)
		}
	}

	var pairings []swiss.Pairing
	paired := make(map[string]bool)
	if current != nil {
		for _, m := range current.Matches {
			a := m.Teams[0].PersonaID()
			b := swiss.ByeID
			if !m.IsBye {
				b = m.Teams[1].PersonaID()
			}
			pairings = append(pairings, swiss.Pairing{a, b})
			paired[a], paired[b] = true, true
		}
	}

	for id := range placeholders {
		if paired[id] {
			players[id].Dropped = false
		}
	}
	for _, d := range gs.Drops {
		id, ok := teamToPersona[d.TeamID]
		if !ok || paired[id] || d.RoundNumber >= gs.CurrentRoundNumber {
			continue
		}
		players[id].Dropped = true
	}

	s, err := swiss.NewState(order, gs.MinRounds)
	if err != nil {
		return nil, err
	}
	s.CurrentRound = min(gs.CurrentRoundNumber-1, gs.MinRounds)
	s.Pairings = pairings
	for _, round := range gs.Rounds {
		if round.raw != nil {
			s.RoundHistory = append(s.RoundHistory, round.raw)
		} else if raw, err := json.Marshal(&round); err == nil {
			s.RoundHistory = append(s.RoundHistory, raw)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: event %v: %w", ErrMalformedPayload, e.ID,
			err)
	}

	return s, nil
}

func standingToPlayer(st Standing) *swiss.Player {
	u := st.Team.Players[0]
	return &swiss.Player{
		PersonaID:               u.PersonaID,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Wins:                    st.Wins,
		Losses:                  st.Losses,
		Draws:                   st.Draws,
		MatchPoints:             st.MatchPoints,
		GameWinPercent:          fraction(st.GameWinPercent),
		OpponentGameWinPercent:  fraction(st.OpponentGameWinPercent),
		OpponentMatchWinPercent: fraction(st.OpponentMatchWinPercent),
		Rank:                    st.Rank,
	}
}

func userToPlayer(u User, rank int) *swiss.Player {
	return &swiss.Player{
		PersonaID: u.PersonaID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Rank:      rank,
	}
}

// fraction accepts breakers on either a 0-1 or a 0-100 scale.
func fraction(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// applyMatch adds one completed match to the game tallies and opponent
// lists. A bye counts as a 2-0 win. Placeholder players also get their
// match record from it.
func applyMatch(players map[string]*swiss.Player, placeholders map[string]bool,
	m Match) {

	a := players[m.Teams[0].PersonaID()]
	if m.IsBye {
		a.GameWins += 2
		a.Opponents = append(a.Opponents, swiss.ByeID)
		if placeholders[a.PersonaID] {
			a.Wins++
			a.MatchPoints = a.Wins*3 + a.Draws
		}
		return
	}

	b := players[m.Teams[1].PersonaID()]
	a.Opponents = append(a.Opponents, b.PersonaID)
	b.Opponents = append(b.Opponents, a.PersonaID)
	for idx, p := range []*swiss.Player{a, b} {
		team := m.Teams[idx]
		if len(team.Results) == 0 {
			continue
		}
		res := team.Results[0]
		p.GameWins += res.Wins
		p.GameLosses += res.Losses
		if !placeholders[p.PersonaID] {
			continue
		}
		switch {
		case res.Wins > res.Losses:
			p.Wins++
		case res.Wins < res.Losses:
			p.Losses++
		default:
			p.Draws++
		}
	}
	for _, p := range []*swiss.Player{a, b} {
		if placeholders[p.PersonaID] {
			p.MatchPoints = p.Wins*3 + p.Draws
		}
	}
}
