package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
)

const presetExt = ".json"

// PresetStorage keeps presets as <dir>/<name>.json documents.
type PresetStorage struct {
	dir string
}

func NewPresetStorage(dir string) *PresetStorage {
	return &PresetStorage{
		dir: dir,
	}
}

func (s *PresetStorage) path(name string) string {
	return filepath.Join(s.dir, name+presetExt)
}

func (s *PresetStorage) Save(_ context.Context, name string, values map[string]any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create presets dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), data, 0o644)
}

func (s *PresetStorage) Load(_ context.Context, name string) (map[string]any, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errorz.ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	values := make(map[string]any)
	if err = json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode preset %q: %w", name, err)
	}
	return values, nil
}

// List returns preset names in lexical order. A missing directory holds no presets.
func (s *PresetStorage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), presetExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), presetExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *PresetStorage) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", errorz.ErrPresetNotFound, name)
	}
	return err
}
