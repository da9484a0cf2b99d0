package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store persists run records.
type Store interface {
	Init(ctx context.Context) error
	// Save stores rec, assigning an ID and timestamp when they are unset,
	// and returns the ID.
	Save(ctx context.Context, rec *Record) (string, error)
	Load(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Close() error
}

func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
}

func sortRecords(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.Before(recs[j].Timestamp)
		}
		return recs[i].ID < recs[j].ID
	})
}
