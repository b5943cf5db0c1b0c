// ABOUTME: Test utilities for creating isolated charm clients
// ABOUTME: Backs the client with a temporary BadgerDB instead of the charm server

package charm

import (
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// testClient stands in for charm/kv with a local badger database.
type testClient struct {
	db     *badger.DB
	config *Config
	mu     sync.RWMutex
}

func (t *testClient) Get(key []byte) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []byte
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	return result, err
}

func (t *testClient) Set(key, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (t *testClient) Delete(key []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (t *testClient) Keys() ([][]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var keys [][]byte
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// NewTestClient creates a charm client over a badger database in t.TempDir().
func NewTestClient(t *testing.T) *Client {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	cfg := &Config{Host: "localhost"}
	return &Client{
		config:     cfg,
		testClient: &testClient{db: db, config: cfg},
	}
}
