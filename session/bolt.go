package session

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("agriauth_session")

// BoltBinding persists the session record in a local bbolt file. Used by
// CLI and desktop console deployments that own their durable slot, unlike
// the browser deployment where the server manages the cookie.
type BoltBinding struct {
	db *bolt.DB
}

// NewBoltBinding opens (or creates) the bbolt file at path with owner-only
// permissions and ensures the session bucket exists.
func NewBoltBinding(path string) (*BoltBinding, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}

	return &BoltBinding{db: db}, nil
}

func (b *BoltBinding) Read(name string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(name))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (b *BoltBinding) Write(name string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(name), data)
	})
}

func (b *BoltBinding) Remove(name string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(name))
	})
}

// Close closes the underlying bbolt file.
func (b *BoltBinding) Close() error {
	return b.db.Close()
}
