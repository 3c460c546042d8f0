/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// ByeID is the personaId of the synthetic opponent used when the field size
// is odd.
const ByeID = "bye"

// breakerFloor is the minimum credited win rate for breaker purposes.
const breakerFloor = 1.0 / 3.0

// Player holds one competitor's cumulative record and derived breakers.
type Player struct {
	PersonaID string `json:"personaId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`
	MatchPoints int `json:"matchPoints"`
	GameWins    int `json:"gameWins"`
	GameLosses  int `json:"gameLosses"`

	GameWinPercent          float64 `json:"gameWinPercent"`
	OpponentGameWinPercent  float64 `json:"opponentGameWinPercent"`
	OpponentMatchWinPercent float64 `json:"opponentMatchWinPercent"`

	// Opponents lists the personaIds faced so far in round order.
	Opponents []string `json:"opponents"`
	Rank      int      `json:"rank"`
	IsBye     bool     `json:"isBye"`
	// Dropped players still count toward their opponents' breakers but are
	// neither paired nor ranked.
	Dropped bool `json:"dropped,omitempty"`
}

func newByePlayer() *Player {
	return &Player{PersonaID: ByeID, IsBye: true}
}

func (p *Player) isReal() bool {
	return !p.IsBye && p.PersonaID != ByeID
}

// active reports whether p takes part in pairing and ranking.
func (p *Player) active() bool {
	return p.isReal() && !p.Dropped
}

func (p *Player) clone() *Player {
	cp := *p
	if p.Opponents != nil {
		cp.Opponents = append(make([]string, 0, len(p.Opponents)+1),
			p.Opponents...)
	}
	return &cp
}

// DisplayName returns "First Last", falling back to the personaId.
func (p *Player) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.PersonaID
	}
	return name
}

// Record returns the match record as W-L-D.
func (p *Player) Record() string {
	return fmt.Sprintf("%d-%d-%d", p.Wins, p.Losses, p.Draws)
}

func (p *Player) hasPlayed(id string) bool {
	for _, opp := range p.Opponents {
		if opp == id {
			return true
		}
	}
	return false
}

// floorRate returns max(1/3, won/(won+lost)). A player with no recorded
// matches or games is credited with the floor.
func floorRate(won, lost int) float64 {
	total := won + lost
	if total <= 0 {
		return breakerFloor
	}
	rate := float64(won) / float64(total)
	if rate < breakerFloor {
		return breakerFloor
	}
	return rate
}
