package ruleset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// LoadDir reads every .yaml/.yml file under dir (sorted by path, so load
// order is stable) and assembles them into a Config. One file per rule pack.
func LoadDir(dir string) (*Config, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS is LoadDir over an fs.FS, used by tests.
func LoadFS(fsys fs.FS) (*Config, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ruleset.LoadFS: %w", err)
	}
	sort.Strings(paths)

	packs := make([]*RulePack, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("ruleset.LoadFS: read %s: %w", path, err)
		}
		var pack RulePack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("ruleset.LoadFS: parse %s: %w", path, err)
		}
		packs = append(packs, &pack)
	}
	return New(packs...)
}
