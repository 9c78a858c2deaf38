package jobqueue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var indexBucket = []byte("job_index")

// Store persists jobs in BoltDB ordered by priority and enqueue time.
// A second bucket maps job IDs to their ordering key.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "jobs"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Enqueue stores job, replacing a pending job with the same ID.
func (s *Store) Enqueue(job Job) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	job.normalize()
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx, job)
	})
}

// Pending returns up to limit jobs in processing order without removing them.
func (s *Store) Pending(limit int) ([]Job, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var jobs []Job
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(jobs) < limit; k, v = c.Next() {
			var job Job
			if err := json.Unmarshal(v, &job); err != nil {
				continue
			}
			job.key = append([]byte(nil), k...)
			jobs = append(jobs, job)
		}
		return nil
	})
	return jobs, err
}

// Has reports whether a job with id is pending.
func (s *Store) Has(id string) (bool, error) {
	if s == nil || s.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(indexBucket).Get([]byte(id)) != nil
		return nil
	})
	return found, err
}

// Ack removes a finished or dropped job.
func (s *Store) Ack(job Job) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.delete(tx, job.ID)
	})
}

// Retry records a failed attempt and moves the job to the back of its priority lane.
func (s *Store) Retry(job Job, cause error) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	job.Attempts++
	if cause != nil {
		job.LastError = cause.Error()
	}
	job.EnqueuedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx, job)
	})
}

// Size returns the number of pending jobs.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup removes jobs enqueued before olderThan and returns how many were dropped.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		var stale []string
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var job Job
			if err := json.Unmarshal(v, &job); err != nil {
				continue
			}
			if job.EnqueuedAt.Before(olderThan) {
				stale = append(stale, job.ID)
			}
		}
		for _, id := range stale {
			if err := s.delete(tx, id); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func (s *Store) put(tx *bolt.Tx, job Job) error {
	if err := s.delete(tx, job.ID); err != nil {
		return err
	}
	job.key = nil
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	key := []byte(buildKey(job))
	if err := tx.Bucket(s.bucket).Put(key, payload); err != nil {
		return err
	}
	return tx.Bucket(indexBucket).Put([]byte(job.ID), key)
}

func (s *Store) delete(tx *bolt.Tx, id string) error {
	index := tx.Bucket(indexBucket)
	key := index.Get([]byte(id))
	if key == nil {
		return nil
	}
	if err := tx.Bucket(s.bucket).Delete(key); err != nil {
		return err
	}
	return index.Delete([]byte(id))
}

func buildKey(job Job) string {
	return fmt.Sprintf("%d_%020d_%s", job.Priority, job.EnqueuedAt.UnixNano(), job.ID)
}
