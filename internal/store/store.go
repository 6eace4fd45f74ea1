package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"toolshed/internal/state"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketTools   = []byte("tools")
	bucketBundles = []byte("bundles")
	bucketHistory = []byte("history")
	bucketMeta    = []byte("meta")

	keyRecentSearches = []byte("recent_searches")
	keyLastSync       = []byte("last_sync")
)

// ErrUnknownTool is returned by mutations targeting an id the store
// has never seen.
var ErrUnknownTool = errors.New("unknown tool id")

const maxSearchHistory = 100

// Store is the persistent inventory of tools and bundles. It is safe
// for concurrent use; all synchronization is internal to bbolt. The
// interactive core only ever reads point-in-time snapshots and applies
// explicit mutations.
type Store struct {
	db   *bolt.DB
	path string
}

// Open opens (or creates) the inventory database at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTools, bucketBundles, bucketHistory, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db, path: trimmed}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SnapshotTools returns every tool record, ordered by name.
func (s *Store) SnapshotTools() ([]state.Tool, error) {
	var tools []state.Tool
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTools).ForEach(func(_, value []byte) error {
			var t state.Tool
			if err := json.Unmarshal(value, &t); err != nil {
				return fmt.Errorf("decode tool record: %w", err)
			}
			tools = append(tools, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tools, func(i, j int) bool {
		return strings.ToLower(tools[i].Name) < strings.ToLower(tools[j].Name)
	})
	return tools, nil
}

// SnapshotBundles returns every bundle, ordered by name.
func (s *Store) SnapshotBundles() ([]state.Bundle, error) {
	var bundles []state.Bundle
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBundles).ForEach(func(_, value []byte) error {
			var b state.Bundle
			if err := json.Unmarshal(value, &b); err != nil {
				return fmt.Errorf("decode bundle record: %w", err)
			}
			bundles = append(bundles, b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(bundles, func(i, j int) bool {
		return strings.ToLower(bundles[i].Name) < strings.ToLower(bundles[j].Name)
	})
	return bundles, nil
}

// UpsertTools writes or replaces tool records.
func (s *Store) UpsertTools(tools []state.Tool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketTools)
		for _, t := range tools {
			if strings.TrimSpace(t.ID) == "" {
				return fmt.Errorf("tool %q has no id", t.Name)
			}
			value, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(t.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertBundle writes or replaces one bundle.
func (s *Store) UpsertBundle(b state.Bundle) error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("bundle %q has no id", b.Name)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		value, err := json.Marshal(b)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketBundles).Put([]byte(b.ID), value)
	})
}

// DeleteBundle removes a bundle; deleting a missing id is a no-op.
func (s *Store) DeleteBundle(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBundles).Delete([]byte(id))
	})
}

// RecordUsage bumps the usage counter and last-used timestamp for a
// tool.
func (s *Store) RecordUsage(toolID string, at time.Time) error {
	return s.updateTool(toolID, func(t *state.Tool) {
		t.UsageCount++
		if at.After(t.LastUsed) {
			t.LastUsed = at
		}
	})
}

// SetLastSync records when the inventory was last refreshed from the
// outside world.
func (s *Store) SetLastSync(at time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		value, err := at.UTC().MarshalText()
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyLastSync, value)
	})
}

// LastSync returns the recorded sync time, zero when never synced.
func (s *Store) LastSync() (time.Time, error) {
	var at time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketMeta).Get(keyLastSync)
		if value == nil {
			return nil
		}
		return at.UnmarshalText(value)
	})
	return at, err
}

func (s *Store) updateTool(id string, mutate func(*state.Tool)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketTools)
		value := bucket.Get([]byte(id))
		if value == nil {
			return fmt.Errorf("%w: %s", ErrUnknownTool, id)
		}
		var t state.Tool
		if err := json.Unmarshal(value, &t); err != nil {
			return fmt.Errorf("decode tool record: %w", err)
		}
		mutate(&t)
		updated, err := json.Marshal(t)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), updated)
	})
}
