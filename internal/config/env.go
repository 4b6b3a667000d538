package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are read in order; a variable set by an earlier file (or already
// present in the process environment) is never overwritten.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads .env.local and .env from dir into the process environment
// and returns the files that were applied.
func loadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, err
		}
		slog.Debug("Loaded environment variables", slog.String("file", path))
		loaded = append(loaded, path)
	}
	return loaded, nil
}
