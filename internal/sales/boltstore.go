package sales

import (
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
)

const salesBucket = "sales"

// BoltStorage persists committed sales in a single BoltDB file. Writes go
// through Set exactly once per sale; there is no update or delete path.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens (or creates) a BoltDB database at the given path and
// ensures the sales bucket exists. Safe to call on every startup.
func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(salesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStorage{db: db}, nil
}

// Close releases the database file lock.
func (b *BoltStorage) Close() error {
	return b.db.Close()
}

// Set persists a sale keyed by its ID. Returns ErrEmptyID if the sale has
// an empty ID. Writing the same sale twice is a no-op overwrite of an
// identical record, so a retried commit is safe.
func (b *BoltStorage) Set(sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(sale)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(salesBucket)).Put([]byte(sale.ID), data)
	})
}

// Read retrieves a sale by ID. Returns ErrNotFound if the key does not exist.
func (b *BoltStorage) Read(id string) (*Sale, error) {
	var sale Sale
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(salesBucket)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &sale)
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetAll retrieves every committed sale.
func (b *BoltStorage) GetAll() ([]*Sale, error) {
	sales := make([]*Sale, 0)
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(salesBucket)).ForEach(func(k, v []byte) error {
			var s Sale
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			sales = append(sales, &s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}
