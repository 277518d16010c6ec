package tally

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/schollz/jsonstore"
)

const tallyKey = "tally"

// JSONStore keeps the whole tally as one key of a JSON file,
// rewritten after every committed event
type JSONStore struct {
	path     string
	mu       sync.Mutex
	keystore *jsonstore.JSONStore
}

func OpenJSONStore(path string) (*JSONStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// Start from an empty store when the file does not exist yet
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("could not create %s: %w", path, err)
		}
	}
	keystore, err := jsonstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return &JSONStore{path: path, keystore: keystore}, nil
}

func (store *JSONStore) Load(ctx context.Context) (Tally, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var tally Tally
	if err := store.keystore.Get(tallyKey, &tally); err != nil {
		var noSuchKeyError jsonstore.NoSuchKeyError
		if errors.As(err, &noSuchKeyError) {
			log.Debug().Str("file", store.path).Msg("No tally stored yet")
			return Tally{}, nil
		}
		return Tally{}, err
	}
	return tally, nil
}

func (store *JSONStore) Commit(ctx context.Context, event Event, tally Tally) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.keystore.Set(tallyKey, tally); err != nil {
		return err
	}
	return jsonstore.Save(store.keystore, store.path)
}

func (store *JSONStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return jsonstore.Save(store.keystore, store.path)
}
