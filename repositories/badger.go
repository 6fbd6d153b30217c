package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	maxConflictRetries = 8
	conflictBackoff    = 2 * time.Millisecond
)

// update runs fn in a read-write transaction and replays it when badger
// reports a conflict with a concurrent transaction. fn must be free of side
// effects outside txn since it can run more than once.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !goerrors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * conflictBackoff)
	}
	return err
}

func setJSON(txn *badger.Txn, key string, value any) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal failed for %s: %w", key, err)
	}
	return txn.Set([]byte(key), bytes)
}

// getJSON returns badger.ErrKeyNotFound untouched so callers can map it to
// their own sentinel.
func getJSON(txn *badger.Txn, key string, value any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshal(val, value)
	})
}

func unmarshal(val []byte, value any) error {
	return json.Unmarshal(val, value)
}

// scanPrefix walks every key under prefix in ascending order.
func scanPrefix(txn *badger.Txn, prefix string, fn func(item *badger.Item) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := fn(it.Item()); err != nil {
			return err
		}
	}
	return nil
}

// scanKeys is scanPrefix without fetching values.
func scanKeys(txn *badger.Txn, prefix string) []string {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()
	var keys []string
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, string(it.Item().KeyCopy(nil)))
	}
	return keys
}
