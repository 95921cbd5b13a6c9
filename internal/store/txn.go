package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Transaction-scoped document helpers for the multi-key operations in
// articles.go and friends. Go does not allow type parameters on methods,
// so these are package-level functions taking the transaction explicitly.

// getDoc reads and unmarshals the document at key into dest.
// Returns ErrNotFound when the key is absent.
func getDoc[T any](txn *badger.Txn, key string, dest *T) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, dest); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}
		return nil
	})
}

// putDoc marshals v and writes it at key. Callers that write documents
// managed by an Entity must not change any indexed field here, since index
// keys are not rewritten.
func putDoc[T any](txn *badger.Txn, key string, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// hasKey reports whether key exists.
func hasKey(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return true, nil
}

// deleteKey removes key. Deleting an absent key is not an error.
func deleteKey(txn *badger.Txn, key string) error {
	if err := txn.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// scanPrefix iterates all documents under prefix within txn, unmarshalling
// each into a fresh T and passing it to fn along with its full key. fn
// returning false stops the scan.
func scanPrefix[T any](txn *badger.Txn, prefix string, fn func(key string, doc *T) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		key := string(it.Item().Key())

		var doc T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}

		cont, err := fn(key, &doc)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}
