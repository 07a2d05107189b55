// internal/store/store.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/metrics"
)

// Collection names a persisted record family.
type Collection string

const (
	Subscriptions   Collection = "subscriptions"
	PendingRequests Collection = "pending_requests"
)

// Collections lists every collection the bot persists.
var Collections = []Collection{Subscriptions, PendingRequests}

// Records maps a stringified user id to its encoded record.
type Records map[string]json.RawMessage

// Clone returns a shallow copy; the raw values are never mutated in place.
func (r Records) Clone() Records {
	out := make(Records, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var (
	// ErrCorrupt marks a backing resource whose contents could not be decoded.
	ErrCorrupt = errors.New("collection corrupt")

	// ErrNoChange may be returned by an Update callback to skip the write.
	ErrNoChange = errors.New("no change")
)

// Store is the durable key-value persistence for the bot's collections.
type Store interface {
	// Load never fails. Missing, empty, unreachable or corrupt collections load as empty.
	Load(ctx context.Context, collection Collection) Records
	// Save overwrites the whole collection.
	Save(ctx context.Context, collection Collection, records Records) error
	// Update runs a load-modify-save sequence serialized per collection. If fn returns an
	// error nothing is written; ErrNoChange is swallowed, any other error is returned.
	Update(ctx context.Context, collection Collection, fn func(Records) error) error
}

// Backend is the raw persistence primitive behind a RecordStore.
type Backend interface {
	Name() string
	// Read returns an empty mapping for a missing resource and an error wrapping
	// ErrCorrupt when the contents cannot be decoded.
	Read(ctx context.Context, collection Collection) (Records, error)
	Write(ctx context.Context, collection Collection, records Records) error
}

// RecordStore adds the recovery policy, validation and per-collection locking on top of a Backend.
type RecordStore struct {
	backend Backend
	logger  logger.Logger

	mu    sync.Mutex
	locks map[Collection]*sync.Mutex
}

func New(backend Backend, log logger.Logger) *RecordStore {
	return &RecordStore{
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"store": backend.Name()}),
		locks:   make(map[Collection]*sync.Mutex),
	}
}

func (s *RecordStore) lock(collection Collection) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *RecordStore) Load(ctx context.Context, collection Collection) Records {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		s.logger.Error("collection unavailable, treating as empty", map[string]interface{}{
			"collection": string(collection),
			"error":      err,
		})
		return Records{}
	}
	return records
}

// read applies the lossy recovery policy: corrupt contents become an empty mapping,
// any other failure is returned.
func (s *RecordStore) read(ctx context.Context, collection Collection) (Records, error) {
	records, err := s.backend.Read(ctx, collection)
	if err == nil {
		err = validateDocument(collection, records)
	}
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		metrics.StoreCorruptions.WithLabelValues(string(collection)).Inc()
		stdErr := apperrors.NewStorageCorruptionError(string(collection), err)
		s.logger.Warn("collection corrupt, resetting to empty", map[string]interface{}{
			"collection": string(collection),
			"errorCode":  string(stdErr.Code),
			"details":    stdErr.Details,
		})
		return Records{}, nil
	}
	if records == nil {
		records = Records{}
	}
	return records, nil
}

func (s *RecordStore) Save(ctx context.Context, collection Collection, records Records) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	return s.write(ctx, collection, records)
}

func (s *RecordStore) write(ctx context.Context, collection Collection, records Records) error {
	if records == nil {
		records = Records{}
	}
	if err := s.backend.Write(ctx, collection, records); err != nil {
		return apperrors.NewStorageWriteFailedError(string(collection), err)
	}
	s.logger.Debug("collection saved", map[string]interface{}{
		"collection": string(collection),
		"records":    len(records),
	})
	return nil
}

func (s *RecordStore) Update(ctx context.Context, collection Collection, fn func(Records) error) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		// Writing back an empty mapping here would wipe a collection we merely failed to reach.
		return apperrors.NewStorageWriteFailedError(string(collection), err)
	}

	if err := fn(records); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}

	return s.write(ctx, collection, records)
}
