package store

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// SaveSearch prepends query to the search history. Adjacent duplicates
// collapse and the history is capped at maxSearchHistory entries.
func (s *Store) SaveSearch(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		recent, err := decodeSearches(bucket.Get(keyRecentSearches))
		if err != nil {
			return err
		}
		if len(recent) > 0 && recent[0] == trimmed {
			return nil
		}
		recent = append([]string{trimmed}, recent...)
		if len(recent) > maxSearchHistory {
			recent = recent[:maxSearchHistory]
		}
		value, err := json.Marshal(recent)
		if err != nil {
			return err
		}
		return bucket.Put(keyRecentSearches, value)
	})
}

// RecentSearches returns up to n prior queries, most recent first.
func (s *Store) RecentSearches(n int) ([]string, error) {
	var recent []string
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		recent, err = decodeSearches(tx.Bucket(bucketHistory).Get(keyRecentSearches))
		return err
	})
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(recent) > n {
		recent = recent[:n]
	}
	return recent, nil
}

func decodeSearches(value []byte) ([]string, error) {
	if len(value) == 0 {
		return nil, nil
	}
	var recent []string
	if err := json.Unmarshal(value, &recent); err != nil {
		return nil, err
	}
	return recent, nil
}
