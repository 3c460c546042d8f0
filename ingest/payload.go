/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ingest turns event data from the organizer platform into a
// swiss.State: the GraphQL loadEvent payload (or just its event object) and
// the public HTML standings page.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikeb26/swiss-topcut/internal"
)

var ErrMalformedPayload = errors.New("malformed event payload")

type envelope struct {
	Data *struct {
		Event *Event `json:"event"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	GameState *GameState `json:"gameState"`
}

type GameState struct {
	MinRounds int `json:"minRounds"`
	// CurrentRoundNumber is the 1-based round in progress.
	CurrentRoundNumber int        `json:"currentRoundNumber"`
	CurrentRound       *Round     `json:"currentRound"`
	Rounds             []Round    `json:"rounds"`
	Standings          []Standing `json:"standings"`
	Drops              []Drop     `json:"drops"`
}

type Round struct {
	ID              string  `json:"id"`
	Number          int     `json:"number"`
	IsFinalRound    bool    `json:"isFinalRound"`
	IsPlayoff       bool    `json:"isPlayoff"`
	ActualStartTime *string `json:"actualStartTime"`
	ActualEndTime   *string `json:"actualEndTime"`
	Matches         []Match `json:"matches"`

	raw json.RawMessage
}

func (r *Round) UnmarshalJSON(data []byte) error {
	type plain Round
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	r.raw = json.RawMessage(buf.Bytes())
	return nil
}

// Times returns the round's actual start and end; either is zero when the
// payload does not carry it.
func (r *Round) Times() (start, end time.Time, err error) {
	if r.ActualStartTime != nil {
		if start, err = internal.ParseDateOrZero(*r.ActualStartTime); err != nil {
			return start, end, fmt.Errorf("%w: round %v start time: %w",
				ErrMalformedPayload, r.Number, err)
		}
	}
	if r.ActualEndTime != nil {
		if end, err = internal.ParseDateOrZero(*r.ActualEndTime); err != nil {
			return start, end, fmt.Errorf("%w: round %v end time: %w",
				ErrMalformedPayload, r.Number, err)
		}
	}
	return start, end, nil
}

type Match struct {
	ID                 string `json:"id"`
	IsBye              bool   `json:"isBye"`
	TableNumber        *int   `json:"tableNumber"`
	Teams              []Team `json:"teams"`
	IsLeftTeamDropped  bool   `json:"isLeftTeamDropped"`
	IsRightTeamDropped bool   `json:"isRightTeamDropped"`
}

type Team struct {
	ID      string       `json:"id"`
	Players []User       `json:"players"`
	Results []TeamResult `json:"results"`
}

// PersonaID returns the id of the team's first player.
func (t *Team) PersonaID() string {
	if len(t.Players) == 0 {
		return ""
	}
	return t.Players[0].PersonaID
}

type User struct {
	PersonaID   string `json:"personaId"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type TeamResult struct {
	Wins    int  `json:"wins"`
	Losses  int  `json:"losses"`
	Draws   int  `json:"draws"`
	IsBye   bool `json:"isBye"`
	IsFinal bool `json:"isFinal"`
}

type Standing struct {
	Team                    Team    `json:"team"`
	Rank                    int     `json:"rank"`
	Wins                    int     `json:"wins"`
	Losses                  int     `json:"losses"`
	Draws                   int     `json:"draws"`
	Byes                    int     `json:"byes"`
	MatchPoints             int     `json:"matchPoints"`
	GameWinPercent          float64 `json:"gameWinPercent"`
	OpponentGameWinPercent  float64 `json:"opponentGameWinPercent"`
	OpponentMatchWinPercent float64 `json:"opponentMatchWinPercent"`
}

type Drop struct {
	TeamID      string `json:"teamId"`
	RoundNumber int    `json:"roundNumber"`
}

// DecodeEvent reads either a full GraphQL response ({"data":{"event":...}})
// or a bare event object and validates it.
func DecodeEvent(r io.Reader) (*Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read event payload: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if len(env.Errors) > 0 {
		var msgs []string
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("%w: server returned errors: %v",
			ErrMalformedPayload, strings.Join(msgs, "; "))
	}

	var event *Event
	if env.Data != nil && env.Data.Event != nil {
		event = env.Data.Event
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		event = &Event{}
		if err := dec.Decode(event); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks the parts of the payload State depends on.
func (e *Event) Validate() error {
	gs := e.GameState
	if gs == nil {
		return fmt.Errorf("%w: event %v has no gameState", ErrMalformedPayload,
			e.ID)
	}
	if gs.MinRounds < 1 {
		return fmt.Errorf("%w: minRounds %v", ErrMalformedPayload,
			gs.MinRounds)
	}
	if gs.CurrentRoundNumber < 1 {
		return fmt.Errorf("%w: currentRoundNumber %v", ErrMalformedPayload,
			gs.CurrentRoundNumber)
	}
	for _, st := range gs.Standings {
		if st.Team.PersonaID() == "" {
			return fmt.Errorf("%w: standing at rank %v has no player",
				ErrMalformedPayload, st.Rank)
		}
	}

	rounds := gs.Rounds
	if gs.CurrentRound != nil {
		rounds = append(rounds[:len(rounds):len(rounds)], *gs.CurrentRound)
	}
	for _, round := range rounds {
		for idx, m := range round.Matches {
			if err := m.validate(); err != nil {
				return fmt.Errorf("%w: round %v match %v: %v",
					ErrMalformedPayload, round.Number, idx+1, err)
			}
		}
		if _, _, err := round.Times(); err != nil {
			return err
		}
	}

	return nil
}

func (m *Match) validate() error {
	want := 2
	if m.IsBye {
		want = 1
	}
	if len(m.Teams) < want {
		return fmt.Errorf("%v teams", len(m.Teams))
	}
	for _, t := range m.Teams[:want] {
		if t.PersonaID() == "" {
			return fmt.Errorf("team %v has no player", t.ID)
		}
	}
	return nil
}
