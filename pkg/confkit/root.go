package confkit

import (
	"os"
	"path/filepath"
	"runtime"
)

const maxRootDepth = 8

// walkToRoot visits each directory from this package upwards and stops at the
// first one holding go.mod or .git, which it returns. ok is false when no
// marker was found within maxRootDepth levels.
func walkToRoot(visit func(dir string)) (root string, ok bool) {
	_, file, _, found := runtime.Caller(0)
	if !found {
		return "", false
	}
	dir := filepath.Dir(file)
	for range maxRootDepth {
		if visit != nil {
			visit(dir)
		}
		if isModuleRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func isModuleRoot(dir string) bool {
	for _, marker := range []string{"go.mod", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// MustProjectPath joins rel onto the repository root. Outside a source
// checkout it falls back to the working directory, so the etc/ layout next to
// a deployed binary still resolves.
func MustProjectPath(rel string) string {
	if root, ok := walkToRoot(nil); ok {
		return filepath.Join(root, rel)
	}
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(wd, rel)
}
