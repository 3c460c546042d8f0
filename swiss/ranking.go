/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "sort"

// Less reports whether a ranks ahead of b: match points, then opponent match
// win %, then game win %, then opponent game win %, all higher first. Players
// equal on all four are not ordered.
func Less(a, b *Player) bool {
	if a.MatchPoints != b.MatchPoints {
		return a.MatchPoints > b.MatchPoints
	}
	if a.OpponentMatchWinPercent != b.OpponentMatchWinPercent {
		return a.OpponentMatchWinPercent > b.OpponentMatchWinPercent
	}
	if a.GameWinPercent != b.GameWinPercent {
		return a.GameWinPercent > b.GameWinPercent
	}
	return a.OpponentGameWinPercent > b.OpponentGameWinPercent
}

// sortPlayers orders the players accepted by keep using Less. Full ties keep
// personaId order.
func sortPlayers(players map[string]*Player, keep func(*Player) bool) []*Player {
	ret := make([]*Player, 0, len(players))
	for _, id := range sortedIDs(players) {
		if p := players[id]; keep(p) {
			ret = append(ret, p)
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return Less(ret[i], ret[j])
	})

	return ret
}

// pairable reports whether p takes part in pairing: active players and the
// bye pseudo-player.
func pairable(p *Player) bool {
	return p.active() || p.PersonaID == ByeID
}

// rerank assigns 1-based ranks to the active players; the bye and dropped
// players get 0.
func rerank(players map[string]*Player) {
	for _, p := range players {
		p.Rank = 0
	}
	for idx, p := range sortPlayers(players, (*Player).active) {
		p.Rank = idx + 1
	}
}
