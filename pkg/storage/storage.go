// Package storage persists sequence records in a pebble database keyed by
// KSUID, so iteration order follows insertion time.
package storage

import (
	"log/slog"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/kdmurray91/libqes/pkg/codec"
	"github.com/kdmurray91/libqes/pkg/seqrec"
	"github.com/segmentio/ksuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrCorrupt   = errors.New("stored record is corrupt")
	ErrClosed    = errors.New("store is closed")
	ErrInvalidID = errors.New("invalid record id")
)

// Options configures a Store.
type Options struct {
	Factory *seqrec.Factory
	Logger  *slog.Logger
	// Sync forces an fsync on every write.
	Sync bool
}

// Store is a persistent record store. It is safe for concurrent use.
type Store struct {
	db      *pebble.DB
	codec   *codec.RecordCodec
	factory *seqrec.Factory
	logger  *slog.Logger
	write   *pebble.WriteOptions
	closed  atomic.Bool
}

// Open opens or creates a store at path.
func Open(path string, opts Options) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open store at %s", path)
	}

	s := &Store{
		db:      db,
		codec:   codec.NewRecordCodec(),
		factory: opts.Factory,
		logger:  opts.Logger,
		write:   pebble.NoSync,
	}
	if s.factory == nil {
		s.factory = seqrec.DefaultFactory()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if opts.Sync {
		s.write = pebble.Sync
	}

	s.logger.Info("record store opened", "path", path)
	return s, nil
}

// ParseID parses the string form of a record id.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, errors.Wrapf(ErrInvalidID, "%q: %v", s, err)
	}
	return id, nil
}

// Create stores r under a new id.
func (s *Store) Create(r *seqrec.Record) (ksuid.KSUID, error) {
	if s.closed.Load() {
		return ksuid.Nil, ErrClosed
	}
	data, err := s.codec.Encode(r)
	if err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, s.write); err != nil {
		return ksuid.Nil, errors.Wrap(err, "store record")
	}
	s.logger.Debug("record created", "id", id.String(), "name", r.Name.String())
	return id, nil
}

// Read loads the record stored under id.
func (s *Store) Read(id ksuid.KSUID) (*seqrec.Record, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	data, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", id)
	}
	defer closer.Close()

	// data is only valid until closer.Close, so materialize before returning.
	return s.decode(id, data)
}

// Update replaces the record stored under id.
func (s *Store) Update(id ksuid.KSUID, r *seqrec.Record) error {
	if s.closed.Load() {
		return ErrClosed
	}
	_, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		return errors.Wrapf(err, "update %s", id)
	}
	if err := closer.Close(); err != nil {
		return errors.Wrapf(err, "update %s", id)
	}

	data, err := s.codec.Encode(r)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.db.Set(id.Bytes(), data, s.write), "update %s", id)
}

// Delete removes the record stored under id. Deleting a missing id is not
// an error.
func (s *Store) Delete(id ksuid.KSUID) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return errors.Wrapf(s.db.Delete(id.Bytes(), s.write), "delete %s", id)
}

// List calls fn for every record in id order. Records passed to fn are
// owned by the caller. Returning an error from fn stops the iteration and
// List returns that error.
func (s *Store) List(fn func(id ksuid.KSUID, r *seqrec.Record) error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return errors.Wrap(err, "list records")
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return errors.Wrapf(ErrCorrupt, "key %x: %v", iter.Key(), err)
		}
		r, err := s.decode(id, iter.Value())
		if err != nil {
			return err
		}
		if err := fn(id, r); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info("record store closed")
	return s.db.Close()
}

func (s *Store) decode(id ksuid.KSUID, data []byte) (*seqrec.Record, error) {
	frame, err := s.codec.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", id, err)
	}
	if err := frame.Validate(); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", id, err)
	}
	return frame.Record(s.factory)
}
