// Package kmerdb stores k-mer occurrence counts in BadgerDB.
//
// Keys are canonical k-mers (the smaller of a k-mer and its reverse
// complement) so either strand can be looked up. Values are big-endian uint32
// counts. The k-mer length the database was built with is stored under a
// metadata key and checked on every lookup.
package kmerdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"clrgen/internal/dna"
)

var (
	countPrefix = []byte("k:")
	metaK       = []byte("meta:k")
)

// ErrNoK is returned by Open when the database has no recorded k-mer length,
// which means it was never built.
var ErrNoK = errors.New("kmerdb: database has no k-mer length (not built?)")

// Config holds the settings for opening a database.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used by tests and one-shot builds.
	InMemory bool
	// ReadOnly opens an existing database without taking the write lock.
	ReadOnly bool
	// Logger receives Badger's internal messages. Nil silences them.
	Logger logrus.FieldLogger
}

// DB is a handle on an open k-mer count database. It is safe for concurrent
// readers.
type DB struct {
	db *badger.DB
	k  int
}

// badgerLogger adapts logrus to Badger's Logger interface, demoting Badger's
// chatty info messages to debug.
type badgerLogger struct {
	log logrus.FieldLogger
}

func (l badgerLogger) Errorf(f string, a ...interface{})   { l.log.Errorf(f, a...) }
func (l badgerLogger) Warningf(f string, a ...interface{}) { l.log.Warningf(f, a...) }
func (l badgerLogger) Infof(f string, a ...interface{})    { l.log.Debugf(f, a...) }
func (l badgerLogger) Debugf(f string, a ...interface{})   { l.log.Debugf(f, a...) }

// Open opens (or creates, unless ReadOnly) the database described by cfg.
func Open(cfg Config) (*DB, error) {
	var opts badger.Options
	switch {
	case cfg.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cfg.Path == "":
		return nil, errors.New("kmerdb: path is required for a persistent database")
	default:
		if cfg.ReadOnly {
			if _, err := os.Stat(cfg.Path); err != nil {
				return nil, fmt.Errorf("kmerdb: %w", err)
			}
		} else if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("kmerdb: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithReadOnly(cfg.ReadOnly)
	}
	opts = opts.WithNumVersionsToKeep(1).WithSyncWrites(false)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{log: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("kmerdb: open: %w", err)
	}
	d := &DB{db: db}
	if err := d.loadK(); err != nil && !errors.Is(err, ErrNoK) {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory is shorthand for an empty in-memory database.
func OpenInMemory() (*DB, error) { return Open(Config{InMemory: true}) }

// Close releases the database. It is safe to call on a nil DB.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// K reports the k-mer length the database was built with, or 0.
func (d *DB) K() int { return d.k }

func (d *DB) loadK() error {
	return d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaK)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoK
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if len(v) != 4 {
				return fmt.Errorf("kmerdb: corrupt k value (%d bytes)", len(v))
			}
			d.k = int(binary.BigEndian.Uint32(v))
			return nil
		})
	})
}

// OccurrenceCount returns how often kmer was seen on either strand. Longer
// inputs are looked up by their leading k bases; shorter ones count as zero.
func (d *DB) OccurrenceCount(kmer string) (int, error) {
	if d.k == 0 {
		return 0, ErrNoK
	}
	if len(kmer) < d.k {
		return 0, nil
	}
	key := countKey(dna.Canonical(kmer[:d.k]))
	var n int
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			n = int(binary.BigEndian.Uint32(v))
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("kmerdb: lookup: %w", err)
	}
	return n, nil
}

func countKey(canonical string) []byte {
	key := make([]byte, 0, len(countPrefix)+len(canonical))
	key = append(key, countPrefix...)
	return append(key, canonical...)
}

func encodeCount(n uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return b[:]
}
