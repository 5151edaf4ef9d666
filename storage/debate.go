// Package storage persists debate snapshots using NATS KV.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/debateclub/debate"
)

// BucketDebates is the KV bucket holding debate records.
const BucketDebates = "DEBATECLUB_DEBATES"

// Record is one persisted debate: its identifier, lifecycle metadata and
// the most recent state snapshot.
type Record struct {
	ID        string        `json:"id"`
	State     *debate.State `json:"state"`
	Complete  bool          `json:"complete"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DebateStore persists debate records in a NATS KV bucket keyed by
// debate identifier.
type DebateStore struct {
	debates jetstream.KeyValue
}

// NewDebateStore creates the store, creating the bucket if needed.
func NewDebateStore(ctx context.Context, js jetstream.JetStream) (*DebateStore, error) {
	debates, err := getOrCreateBucket(ctx, js, BucketDebates)
	if err != nil {
		return nil, fmt.Errorf("create debates bucket: %w", err)
	}
	return &DebateStore{debates: debates}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Debateclub debate snapshots",
		History:     5, // Keep last 5 revisions
	})
}

// Save writes a debate record, creating or overwriting it.
func (s *DebateStore) Save(ctx context.Context, record *Record) error {
	if record.ID == "" {
		return fmt.Errorf("record ID is required")
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal debate: %w", err)
	}

	if _, err := s.debates.Put(ctx, record.ID, data); err != nil {
		return fmt.Errorf("store debate: %w", err)
	}

	return nil
}

// Load retrieves a debate record by ID.
func (s *DebateStore) Load(ctx context.Context, id string) (*Record, error) {
	entry, err := s.debates.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get debate: %w", err)
	}

	var record Record
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return nil, fmt.Errorf("unmarshal debate: %w", err)
	}

	return &record, nil
}

// List returns all debate records, newest first.
func (s *DebateStore) List(ctx context.Context) ([]*Record, error) {
	keys, err := s.debates.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list debate keys: %w", err)
	}

	records := make([]*Record, 0, len(keys))
	for _, key := range keys {
		entry, err := s.debates.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var record Record
		if err := json.Unmarshal(entry.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// Delete removes a debate record.
func (s *DebateStore) Delete(ctx context.Context, id string) error {
	if err := s.debates.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete debate: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
