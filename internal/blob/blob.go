// Package blob provides content-addressed storage for asset payload bytes
// (custom icons, uploads) in an embedded bbolt database. Blobs are keyed
// by SHA-256 hash and reference counted: identical uploads share one copy,
// and a blob is physically removed when its last reference is released.
package blob

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the blob store.
var (
	bucketBlobs = []byte("blobs")
	bucketRefs  = []byte("refs")
)

// Store is the bbolt-backed blob store.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the blob database at the given path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create blob directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketBlobs, bucketRefs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
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

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Hash returns the hex SHA-256 content hash used as the blob key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Put stores data and returns its content hash. Storing bytes that are
// already present only increments the reference count.
func (s *Store) Put(data []byte) (string, error) {
	hash := Hash(data)
	err := s.db.Update(func(tx *bolt.Tx) error {
		blobs := tx.Bucket(bucketBlobs)
		refs := tx.Bucket(bucketRefs)
		key := []byte(hash)

		if blobs.Get(key) == nil {
			if err := blobs.Put(key, data); err != nil {
				return fmt.Errorf("store blob: %w", err)
			}
		}
		return refs.Put(key, encodeCount(decodeCount(refs.Get(key))+1))
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Get returns the bytes for a content hash, or nil if absent.
func (s *Store) Get(hash string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(hash))
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, err
}

// Retain increments the reference count for an existing blob.
func (s *Store) Retain(hash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		refs := tx.Bucket(bucketRefs)
		key := []byte(hash)
		if tx.Bucket(bucketBlobs).Get(key) == nil {
			return fmt.Errorf("blob %s not found", hash)
		}
		return refs.Put(key, encodeCount(decodeCount(refs.Get(key))+1))
	})
}

// Release decrements the reference count and deletes the blob when it
// reaches zero. Releasing an absent hash is a no-op, which keeps cascade
// cleanup idempotent.
func (s *Store) Release(hash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		blobs := tx.Bucket(bucketBlobs)
		refs := tx.Bucket(bucketRefs)
		key := []byte(hash)

		if blobs.Get(key) == nil {
			return nil
		}
		count := decodeCount(refs.Get(key)) - 1
		if count > 0 {
			return refs.Put(key, encodeCount(count))
		}
		if err := refs.Delete(key); err != nil {
			return err
		}
		return blobs.Delete(key)
	})
}

// RefCount returns the current reference count for a hash (0 if absent).
func (s *Store) RefCount(hash string) (int64, error) {
	var count int64
	err := s.db.View(func(tx *bolt.Tx) error {
		count = decodeCount(tx.Bucket(bucketRefs).Get([]byte(hash)))
		return nil
	})
	return count, err
}

// Sweep removes blobs whose hash is not in the live set. It backs the
// orphan cleanup that runs after cascade deletes, where relational rows
// are authoritative and blob bytes are secondary.
func (s *Store) Sweep(live map[string]bool) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		blobs := tx.Bucket(bucketBlobs)
		refs := tx.Bucket(bucketRefs)

		var victims [][]byte
		cursor := blobs.Cursor()
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			if !live[string(k)] {
				victims = append(victims, append([]byte(nil), k...))
			}
		}
		for _, k := range victims {
			if err := blobs.Delete(k); err != nil {
				return err
			}
			if err := refs.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func encodeCount(n int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

func decodeCount(v []byte) int64 {
	if len(v) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}
