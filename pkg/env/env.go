package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Prefix namespaces every Llanero setting.
const Prefix = "LLANERO_"

// Get reads LLANERO_<name> and falls back when it is unset or blank.
func Get(name, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(Prefix + name)); val != "" {
		return val
	}
	return fallback
}

// LoadFiles reads .env.<LLANERO_APP_ENV> and then .env from dir into the
// process environment. Variables already set are never overwritten, so the
// environment-specific file wins over .env. Missing files are skipped; the
// loaded paths are returned.
func LoadFiles(dir string) ([]string, error) {
	candidates := []string{}
	if appEnv := Get("APP_ENV", ""); appEnv != "" {
		candidates = append(candidates, filepath.Join(dir, ".env."+appEnv))
	}
	candidates = append(candidates, filepath.Join(dir, ".env"))

	var loaded []string
	for _, path := range candidates {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, err
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
