package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketUnits = []byte("units")
	bucketRuns  = []byte("runs")
)

// UnitRecord describes one unit file a run wrote to disk
type UnitRecord struct {
	Name      string    `json:"name"` // unit file name, e.g. "caddy.container"
	Kind      string    `json:"kind"`
	User      string    `json:"user"`
	Path      string    `json:"path"` // absolute path on disk
	SHA256    string    `json:"sha256"`
	RunID     string    `json:"run_id"`
	WrittenAt time.Time `json:"written_at"`
}

// Key scopes the record to its user; two users may receive a unit with the
// same file name
func (r *UnitRecord) Key() string {
	return r.User + "/" + r.Name
}

// Run describes one generation run
type Run struct {
	ID        string    `json:"id"`
	Distro    string    `json:"distro"`
	StartedAt time.Time `json:"started_at"`
	UnitCount int       `json:"unit_count"`
}

// Store persists unit records and runs in BoltDB. Generation itself never
// reads the store; it exists so later invocations can list what was written
// and clean up units the manifest no longer produces.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketUnits, bucketRuns} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun saves a run and its unit records in one transaction
func (s *Store) RecordRun(run *Run, records []*UnitRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketRuns).Put([]byte(run.ID), data); err != nil {
			return err
		}

		units := tx.Bucket(bucketUnits)
		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := units.Put([]byte(record.Key()), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveUnit upserts a single unit record
func (s *Store) SaveUnit(record *UnitRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketUnits).Put([]byte(record.Key()), data)
	})
}

// GetUnit looks up a unit record by its user-scoped key
func (s *Store) GetUnit(key string) (*UnitRecord, error) {
	var record UnitRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketUnits).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("unit record not found: %s", key)
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListUnits returns every unit record in key order
func (s *Store) ListUnits() ([]*UnitRecord, error) {
	var records []*UnitRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUnits).ForEach(func(k, v []byte) error {
			var record UnitRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, &record)
			return nil
		})
	})
	return records, err
}

// DeleteUnits removes the named records. Missing keys are not an error.
func (s *Store) DeleteUnits(keys []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		units := tx.Bucket(bucketUnits)
		for _, key := range keys {
			if err := units.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// StaleUnits returns recorded units whose key is absent from current, the
// set of user-scoped keys the present manifest produces
func (s *Store) StaleUnits(current map[string]struct{}) ([]*UnitRecord, error) {
	records, err := s.ListUnits()
	if err != nil {
		return nil, err
	}
	var stale []*UnitRecord
	for _, record := range records {
		if _, ok := current[record.Key()]; !ok {
			stale = append(stale, record)
		}
	}
	return stale, nil
}

// ListRuns returns every recorded run in id order
func (s *Store) ListRuns() ([]*Run, error) {
	var runs []*Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, &run)
			return nil
		})
	})
	return runs, err
}
