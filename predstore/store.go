/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package predstore persists a player's predicted results and event
// snapshots in any httpcache.Cache: in memory, S3 or Redis.
package predstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/mikeb26/swiss-topcut/swiss"
)

// Predictions is the result sequence a player expects for every Swiss round
// of an event.
type Predictions struct {
	EventID   string         `json:"eventId"`
	PersonaID string         `json:"personaId"`
	Results   []swiss.Result `json:"results"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type Store struct {
	cache  httpcache.Cache
	logger *zap.Logger
	now    func() time.Time
}

func New(cache httpcache.Cache, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func predictionsKey(eventID string) string {
	return "predictions/" + eventID
}

func snapshotKey(eventID string) string {
	return "snapshot/" + eventID
}

func checkEventID(eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("%w: empty event id", swiss.ErrInvalidArgument)
	}
	return nil
}

// SavePredictions stores p under p.EventID, replacing any earlier entry.
func (st *Store) SavePredictions(p *Predictions) error {
	if err := checkEventID(p.EventID); err != nil {
		return err
	}
	for _, r := range p.Results {
		if !r.Valid() {
			return fmt.Errorf("%w: unrecognized result %q",
				swiss.ErrInvalidArgument, r)
		}
	}

	rec := *p
	rec.UpdatedAt = st.now().UTC()
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("unable to encode predictions: %w", err)
	}
	st.cache.Set(predictionsKey(p.EventID), data)
	st.logger.Debug("saved predictions", zap.String("event", p.EventID),
		zap.String("results", swiss.FormatResults(p.Results)))

	return nil
}

// LoadPredictions returns swiss.ErrNotFound when nothing is stored for
// eventID.
func (st *Store) LoadPredictions(eventID string) (*Predictions, error) {
	if err := checkEventID(eventID); err != nil {
		return nil, err
	}
	data, ok := st.cache.Get(predictionsKey(eventID))
	if !ok {
		return nil, fmt.Errorf("%w: predictions for event %v",
			swiss.ErrNotFound, eventID)
	}

	var p Predictions
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unable to decode predictions for event %v: %w",
			eventID, err)
	}
	for _, r := range p.Results {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: stored result %q for event %v",
				swiss.ErrInconsistentState, r, eventID)
		}
	}

	return &p, nil
}

func (st *Store) SaveSnapshot(eventID string, s *swiss.State) error {
	if err := checkEventID(eventID); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return err
	}
	st.cache.Set(snapshotKey(eventID), buf.Bytes())
	st.logger.Debug("saved snapshot", zap.String("event", eventID),
		zap.Int("round", s.CurrentRound), zap.Int("bytes", buf.Len()))

	return nil
}

func (st *Store) LoadSnapshot(eventID string) (*swiss.State, error) {
	if err := checkEventID(eventID); err != nil {
		return nil, err
	}
	data, ok := st.cache.Get(snapshotKey(eventID))
	if !ok {
		return nil, fmt.Errorf("%w: snapshot for event %v", swiss.ErrNotFound,
			eventID)
	}
	return swiss.Decode(bytes.NewReader(data))
}

// Forget removes everything stored for eventID.
func (st *Store) Forget(eventID string) {
	st.cache.Delete(predictionsKey(eventID))
	st.cache.Delete(snapshotKey(eventID))
}
