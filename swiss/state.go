/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Pairing is an unordered pair of personaIds for the round about to be
// played. Either side may be ByeID.
type Pairing [2]string

// Has reports whether id is one side of the pairing.
func (p Pairing) Has(id string) bool {
	return p[0] == id || p[1] == id
}

// Other returns the side of the pairing that is not id.
func (p Pairing) Other(id string) string {
	if p[0] == id {
		return p[1]
	}
	return p[0]
}

func (p Pairing) IsBye() bool {
	return p[0] == ByeID || p[1] == ByeID
}

// State is a snapshot of an event: every player's record plus the pairings
// of the round not yet played.
type State struct {
	Players  map[string]*Player `json:"players"`
	Pairings []Pairing          `json:"pairings"`
	// CurrentRound counts the rounds already resolved.
	CurrentRound int `json:"currentRound"`
	// MinRound is the number of Swiss rounds scheduled.
	MinRound int `json:"minRound"`
	// RoundHistory holds the raw match records of past rounds, one compact
	// JSON value each. It is carried along untouched.
	RoundHistory []json.RawMessage `json:"roundHistory"`
}

// NewState builds a State from a list of players. The bye pseudo-player is
// added when the field is odd.
func NewState(players []*Player, minRound int) (*State, error) {
	if minRound < 1 {
		return nil, fmt.Errorf("%w: minRound must be positive, got %d",
			ErrInvalidArgument, minRound)
	}
	s := &State{
		Players:  make(map[string]*Player, len(players)+1),
		MinRound: minRound,
	}
	for _, p := range players {
		if p == nil || p.PersonaID == "" {
			return nil, fmt.Errorf("%w: player without personaId",
				ErrInvalidArgument)
		}
		if !p.isReal() {
			continue
		}
		if _, ok := s.Players[p.PersonaID]; ok {
			return nil, fmt.Errorf("%w: duplicate personaId %v",
				ErrInvalidArgument, p.PersonaID)
		}
		s.Players[p.PersonaID] = p
	}
	s.EnsureBye()

	return s, nil
}

// EnsureBye adds the bye pseudo-player when the number of real players is
// odd and removes it when it is even.
func (s *State) EnsureBye() {
	if s.Players == nil {
		s.Players = make(map[string]*Player)
	}
	_, haveBye := s.Players[ByeID]
	odd := s.RealPlayerCount()%2 == 1
	if odd && !haveBye {
		s.Players[ByeID] = newByePlayer()
	} else if !odd && haveBye {
		delete(s.Players, ByeID)
	}
}

// RealPlayerCount returns the number of players still in the event,
// excluding the bye and dropped players.
func (s *State) RealPlayerCount() int {
	n := 0
	for _, p := range s.Players {
		if p.active() {
			n++
		}
	}
	return n
}

// Validate checks the State invariants.
func (s *State) Validate() error {
	if s.MinRound < 1 {
		return fmt.Errorf("%w: minRound %v", ErrInconsistentState, s.MinRound)
	}
	if s.CurrentRound < 0 || s.CurrentRound > s.MinRound {
		return fmt.Errorf("%w: currentRound %v outside [0,%v]",
			ErrInconsistentState, s.CurrentRound, s.MinRound)
	}
	for id, p := range s.Players {
		if p == nil {
			return fmt.Errorf("%w: nil player %v", ErrInconsistentState, id)
		}
		if p.PersonaID != id {
			return fmt.Errorf("%w: player keyed %v has personaId %v",
				ErrInconsistentState, id, p.PersonaID)
		}
		if p.Wins < 0 || p.Losses < 0 || p.Draws < 0 || p.MatchPoints < 0 ||
			p.GameWins < 0 || p.GameLosses < 0 {
			return fmt.Errorf("%w: negative record %v for %v",
				ErrInconsistentState, p.Record(), id)
		}
	}
	_, haveBye := s.Players[ByeID]
	if odd := s.RealPlayerCount()%2 == 1; odd != haveBye {
		return fmt.Errorf("%w: bye present=%v with %v real players",
			ErrInconsistentState, haveBye, s.RealPlayerCount())
	}

	seen := make(map[string]bool, len(s.Players))
	for _, pairing := range s.Pairings {
		if pairing[0] == pairing[1] {
			return fmt.Errorf("%w: %v paired against itself",
				ErrInconsistentState, pairing[0])
		}
		for _, id := range pairing {
			p, ok := s.Players[id]
			if !ok {
				return fmt.Errorf("%w: pairing references unknown player %v",
					ErrInconsistentState, id)
			}
			if p.Dropped {
				return fmt.Errorf("%w: pairing references dropped player %v",
					ErrInconsistentState, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: %v paired more than once",
					ErrInconsistentState, id)
			}
			seen[id] = true
		}
	}

	return nil
}

// Copy returns a deep copy. Players, their opponent lists and the pairings
// are independent of the receiver; RoundHistory is shared since nothing
// mutates it.
func (s *State) Copy() *State {
	ret := &State{
		Players:      make(map[string]*Player, len(s.Players)),
		CurrentRound: s.CurrentRound,
		MinRound:     s.MinRound,
		RoundHistory: s.RoundHistory,
	}
	for id, p := range s.Players {
		ret.Players[id] = p.clone()
	}
	if s.Pairings != nil {
		ret.Pairings = append(make([]Pairing, 0, len(s.Pairings)),
			s.Pairings...)
	}

	return ret
}

// OpponentOf returns id's opponent in the current pairings.
func (s *State) OpponentOf(id string) (string, bool) {
	for _, pairing := range s.Pairings {
		if pairing.Has(id) {
			return pairing.Other(id), true
		}
	}
	return "", false
}

// IsFinished reports whether every scheduled round has been resolved.
func (s *State) IsFinished() bool {
	return s.CurrentRound >= s.MinRound
}

// Sorted returns the players still in the event in ranking order.
func (s *State) Sorted() []*Player {
	return sortPlayers(s.Players, (*Player).active)
}

// InTopCut reports whether id is among the first cut entries of Sorted.
func (s *State) InTopCut(id string, cut int) bool {
	for idx, p := range s.Sorted() {
		if idx >= cut {
			break
		}
		if p.PersonaID == id {
			return true
		}
	}
	return false
}

// cutLine returns the player holding the last top-cut place, or false when
// the field is too small to have one.
func (s *State) cutLine(cut int) (*Player, bool) {
	sorted := s.Sorted()
	if cut <= 0 || len(sorted) < cut {
		return nil, false
	}
	return sorted[cut-1], true
}

// Encode writes s as JSON.
func (s *State) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("unable to encode state: %w", err)
	}
	return nil
}

// Decode reads a JSON State written by Encode and validates it.
func Decode(r io.Reader) (*State, error) {
	s := &State{}
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("unable to decode state: %w", err)
	}
	if s.Players == nil {
		s.Players = make(map[string]*Player)
	}
	// Encode indents history entries along with everything else
	for idx, raw := range s.RoundHistory {
		compact, err := CompactJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("unable to decode state: round history %v: %w",
				idx, err)
		}
		s.RoundHistory[idx] = compact
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// CompactJSON returns raw with insignificant whitespace removed.
func CompactJSON(raw json.RawMessage) (json.RawMessage, error) {
	if raw == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// sortedIDs returns the keys of players in ascending order so ties in the
// ranking comparator resolve the same way on every call.
func sortedIDs(players map[string]*Player) []string {
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Standings is Sorted under the name the output helpers use.
func (s *State) Standings() []*Player {
	return s.Sorted()
}
