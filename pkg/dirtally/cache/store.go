package cache

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a cache entry doesn't exist.
var ErrNotFound = errors.New("cache entry not found")

// Store wraps Badger for cache operations.
type Store struct {
	db *badger.DB
}

// OpenStore opens or creates a store at the given directory.
func OpenStore(path string) (*Store, error) {
	return openStore(badger.DefaultOptions(path))
}

// OpenMemoryStore opens a store that lives only as long as the process.
func OpenMemoryStore() (*Store, error) {
	return openStore(badger.DefaultOptions("").WithInMemory(true))
}

func openStore(opts badger.Options) (*Store, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the value stored under key into v.
func (s *Store) Get(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(data []byte) error {
			return decode(data, v)
		})
	})
}

// Put encodes v and stores it under key.
func (s *Store) Put(key []byte, v any) error {
	value, err := encode(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a single entry.
func (s *Store) Delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Scan calls fn with the raw value of every key under prefix, newest key
// first when reverse is set. Returning false from fn stops the scan.
func (s *Store) Scan(prefix []byte, reverse bool, fn func(key, value []byte) (bool, error)) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		start := prefix
		if reverse {
			start = append(append([]byte{}, prefix...), 0xFF)
		}

		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			more, err := fn(item.KeyCopy(nil), value)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		return nil
	})
}

// Count returns the number of keys under prefix.
func (s *Store) Count(prefix []byte) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// DeletePrefix removes all entries with the given prefix.
func (s *Store) DeletePrefix(prefix []byte) error {
	return s.db.DropPrefix(prefix)
}

// DropAll removes every entry.
func (s *Store) DropAll() error {
	return s.db.DropAll()
}

// Size returns the on-disk size of the LSM tree and the value log.
func (s *Store) Size() (lsm, vlog int64) {
	return s.db.Size()
}
