package prefs

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/profilectl/pkg/files"
)

// YAMLBackend stores preferences as a flat YAML mapping. Every Set rewrites the
// file atomically.
type YAMLBackend struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenYAMLBackend loads path if it exists; a missing file starts empty
func OpenYAMLBackend(path string) (*YAMLBackend, error) {
	b := &YAMLBackend{path: path, values: make(map[string]string)}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &b.values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences YAML %s: %w", path, err)
	}
	if b.values == nil {
		b.values = make(map[string]string)
	}

	return b, nil
}

func (b *YAMLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *YAMLBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.values[key]
	b.values[key] = value

	content, err := yaml.Marshal(b.values)
	if err == nil {
		err = files.WriteFileAtomic(b.path, content)
	}
	if err != nil {
		if had {
			b.values[key] = prev
		} else {
			delete(b.values, key)
		}
		return fmt.Errorf("failed to persist preference %s: %w", key, err)
	}

	return nil
}

func (b *YAMLBackend) Close() error { return nil }

var _ Backend = (*YAMLBackend)(nil)
