package storage

import (
	"context"
	"encoding/json"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string][]byte)}
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) (string, error) {
	prepare(rec)
	payload, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[rec.ID] = payload
	return rec.ID, nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	payload, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(payload)
}

func (s *MemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*Record, 0, len(s.runs))
	for _, payload := range s.runs {
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	sortRecords(recs)
	return recs, nil
}

func (s *MemoryStore) Close() error { return nil }

// storedRecord carries the controls that Result leaves out of its JSON form.
type storedRecord struct {
	*Record
	Controls [][]Control `json:"controls"`
}

func encodeRecord(rec *Record) ([]byte, error) {
	sr := storedRecord{Record: rec, Controls: make([][]Control, len(rec.Results))}
	for i, res := range rec.Results {
		sr.Controls[i] = res.Controls
	}
	return json.Marshal(sr)
}

func decodeRecord(payload []byte) (*Record, error) {
	sr := storedRecord{Record: &Record{}}
	if err := json.Unmarshal(payload, &sr); err != nil {
		return nil, err
	}
	for i := range sr.Results {
		if i < len(sr.Controls) {
			sr.Results[i].Controls = sr.Controls[i]
		}
	}
	return sr.Record, nil
}
