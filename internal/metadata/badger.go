package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/radif/imagemeta/internal/image"
)

var recordPrefix = []byte("image/")

// BadgerRepository keeps records as JSON values in an embedded Badger database.
type BadgerRepository struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database at path.
func OpenBadger(path string) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return &BadgerRepository{db: db}, nil
}

func recordKey(imageID string) []byte {
	return append(append([]byte{}, recordPrefix...), imageID...)
}

// Put stores rec as JSON, overwriting any record with the same imageId.
func (r *BadgerRepository) Put(_ context.Context, rec *image.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.ImageID), data)
	})
}

// Get fetches a record by imageId, returning image.ErrNotFound when absent.
func (r *BadgerRepository) Get(_ context.Context, imageID string) (*image.Record, error) {
	var rec image.Record
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(imageID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, image.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", imageID, err)
	}
	return &rec, nil
}

// Delete removes the record for imageId. Deleting a missing key is not an error.
func (r *BadgerRepository) Delete(_ context.Context, imageID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(imageID))
	})
}

// Scan iterates every key under the record prefix.
func (r *BadgerRepository) Scan(_ context.Context) ([]image.Record, error) {
	var records []image.Record
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec image.Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// Close closes the database.
func (r *BadgerRepository) Close() error {
	return r.db.Close()
}
