// Package confkit loads the marketdesk main config and the per-concern files
// (quote providers, sync registry) it points at.
package confkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeromicro/go-zero/core/conf"
)

// LoadFile reads a go-zero config file into T with ${VAR} expansion, after the
// project .env has been applied. It also returns the absolute path it read so
// callers can resolve sibling files against it.
func LoadFile[T any](path string) (*T, string, error) {
	LoadDotenvOnce()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config path %s: %w", path, err)
	}
	var cfg T
	if err := conf.Load(abs, &cfg, conf.UseEnv()); err != nil {
		return nil, "", fmt.Errorf("load config %s: %w", abs, err)
	}
	return &cfg, abs, nil
}

// Section is a config block that lives in its own file, e.g.
//
//	Sync:
//	  File: sync.yaml
//
// Value stays nil until Hydrate runs.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate parses File with loader. Relative files resolve against base; an
// empty File leaves the section unset. On success File holds the resolved path.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	p := ResolvePath(base, s.File)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}

// ResolvePath expands ${VAR} in file and joins it onto base unless absolute.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}
