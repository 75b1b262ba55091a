package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce applies .env files to the process environment the first time
// it is called.
//
//   - NO_DOTENV=1 skips loading entirely.
//   - ENV_FILE names the only file to read.
//   - Otherwise every .env between this package and the repository root is
//     read, nearest first, falling back to ./.env outside a checkout.
//
// Variables already set win unless DOTENV_OVERLOAD=1.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	apply := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		apply = godotenv.Overload
	}
	// Missing files are expected; godotenv reports them as errors.
	read := func(path string) { _ = apply(path) }

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		read(envFile)
		return
	}
	if _, ok := walkToRoot(func(dir string) { read(filepath.Join(dir, ".env")) }); !ok {
		read(".env")
	}
}
