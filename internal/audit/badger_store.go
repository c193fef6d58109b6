// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package audit

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// BadgerStore implements Store on top of an embedded badger KV database.
// Events are written under a primary key and indexed by a time-ordered
// secondary key, since badger has no query planner to build one for us.
type BadgerStore struct {
	db *badger.DB
}

const (
	eventKeyPrefix = "event:"
	indexKeyPrefix = "idx:"
)

// NewBadgerStore opens (or creates) a badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("audit: open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func eventKey(id string) []byte {
	return []byte(eventKeyPrefix + id)
}

// indexKey orders lexicographically by timestamp by zero-padding the
// Unix nanosecond value to a fixed width.
func indexKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", indexKeyPrefix, ts.UnixNano(), id))
}

// Save persists an audit event and its time-ordered index entry.
func (s *BadgerStore) Save(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(eventKey(event.ID), payload); err != nil {
			return err
		}
		return txn.Set(indexKey(event.Timestamp, event.ID), []byte(event.ID))
	})
}

// Get retrieves an event by ID.
func (s *BadgerStore) Get(ctx context.Context, id string) (*Event, error) {
	var event Event
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(eventKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("event not found: %s", id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &event)
		})
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Query retrieves events matching the filter, newest first, by walking
// the secondary index in reverse.
func (s *BadgerStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	var results []Event
	skipped := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(indexKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(indexKeyPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix([]byte(indexKeyPrefix)); it.Next() {
			var id string
			err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			item, err := txn.Get(eventKey(id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}

			var event Event
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			}); err != nil {
				return err
			}

			if !matchesFilter(&event, &filter) {
				continue
			}

			if filter.Offset > 0 && skipped < filter.Offset {
				skipped++
				continue
			}

			results = append(results, event)
			if filter.Limit > 0 && len(results) >= filter.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	return results, nil
}

// Count returns the number of events matching the filter.
func (s *BadgerStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	filter.Limit = 0
	filter.Offset = 0
	events, err := s.Query(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

// Delete removes events with a timestamp older than olderThan, along
// with their index entries, returning the number removed.
func (s *BadgerStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	var removed int64
	cutoff := []byte(fmt.Sprintf("%s%020d:", indexKeyPrefix, olderThan.UnixNano()))

	for {
		var ids []string
		var indexKeys [][]byte

		err := s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(indexKeyPrefix)
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(indexKeyPrefix)); it.ValidForPrefix([]byte(indexKeyPrefix)); it.Next() {
				key := it.Item().KeyCopy(nil)
				if bytes.Compare(key, cutoff) >= 0 {
					break
				}
				var id string
				if err := it.Item().Value(func(val []byte) error {
					id = string(val)
					return nil
				}); err != nil {
					return err
				}
				ids = append(ids, id)
				indexKeys = append(indexKeys, key)
				if len(ids) >= 1000 {
					break
				}
			}
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("audit: delete scan: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		err = s.db.Update(func(txn *badger.Txn) error {
			for i, id := range ids {
				if err := txn.Delete(eventKey(id)); err != nil {
					return err
				}
				if err := txn.Delete(indexKeys[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("audit: delete batch: %w", err)
		}
		removed += int64(len(ids))
	}

	return removed, nil
}

// matchesFilter mirrors MemoryStore's filter semantics so both stores
// behave identically from a caller's perspective.
func matchesFilter(event *Event, filter *QueryFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if event.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Severities) > 0 {
		found := false
		for _, sev := range filter.Severities {
			if event.Severity == sev {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Outcomes) > 0 {
		found := false
		for _, o := range filter.Outcomes {
			if event.Outcome == o {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.ActorID != "" && event.Actor.ID != filter.ActorID {
		return false
	}
	if filter.ActorType != "" && event.Actor.Type != filter.ActorType {
		return false
	}
	if filter.TargetType != "" && (event.Target == nil || event.Target.Type != filter.TargetType) {
		return false
	}
	if filter.TargetID != "" && (event.Target == nil || event.Target.ID != filter.TargetID) {
		return false
	}
	if filter.SourceIP != "" && event.Source.IPAddress != filter.SourceIP {
		return false
	}
	if filter.CorrelationID != "" && event.CorrelationID != filter.CorrelationID {
		return false
	}
	if filter.RequestID != "" && event.RequestID != filter.RequestID {
		return false
	}
	if filter.StartTime != nil && event.Timestamp.Before(*filter.StartTime) {
		return false
	}
	if filter.EndTime != nil && event.Timestamp.After(*filter.EndTime) {
		return false
	}
	if filter.SearchText != "" {
		needle := strings.ToLower(filter.SearchText)
		haystack := strings.ToLower(event.Description + " " + event.Action)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}

	return true
}
