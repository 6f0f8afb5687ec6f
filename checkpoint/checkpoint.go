// Package checkpoint saves and restores estimation iterates using a
// bolt database.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the bucket name for all records.
var MAIN = []byte("main")

// Record stores a single saved iterate.
type Record struct {
	// Parameters maps parameter names to their values.
	Parameters map[string]float64 `json:"parameters"`
	// Eps is the parameter change norm at this iterate.
	Eps float64 `json:"eps"`
	// Iter is the iteration counter.
	Iter int `json:"iter"`
	// Final marks the last iterate of a finished run.
	Final bool `json:"final"`
}

// IO provides saving and loading of records under a fixed key.
type IO struct {
	db      *bolt.DB
	key     []byte
	last    time.Time
	seconds float64
}

// NewIO creates a new IO; seconds is the minimum interval between
// saves.
func NewIO(db *bolt.DB, key []byte, seconds float64) (s *IO) {
	s = &IO{
		db:      db,
		key:     key,
		seconds: seconds,
	}
	return
}

// Save saves a record to the database.
func (s *IO) Save(rec *Record) error {
	// Even if saving fails, we do not want to run this code too
	// often.
	s.SetNow()
	data, err := json.Marshal(rec)
	if err != nil {
		log.Error("Error serializing checkpoint:", err)
		return err
	}
	err = SaveData(s.db, s.key, data)
	if err != nil {
		log.Error("Error saving checkpoint:", err)
	}
	return err
}

// Load returns the stored record, or nil if there is none.
func (s *IO) Load() (*Record, error) {
	b, err := LoadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	var rec *Record
	err = json.Unmarshal(b, &rec)
	if err != nil {
		return nil, err
	}

	if rec == nil || len(rec.Parameters) == 0 {
		return nil, nil
	}

	if rec.Final {
		log.Noticef("Found finished estimation checkpoint (iter=%v, eps=%v)", rec.Iter, rec.Eps)
	} else {
		log.Noticef("Found unfinished estimation checkpoint (iter=%v, eps=%v)", rec.Iter, rec.Eps)
	}

	return rec, nil
}

// Old returns true if the last save was too long ago.
func (s *IO) Old() bool {
	return time.Since(s.last).Seconds() > s.seconds
}

// SetNow sets the last save time to now.
func (s *IO) SetNow() {
	s.last = time.Now()
}

// SaveData saves a value in the bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	return err
}

// LoadData loads a value from the bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, err
}
