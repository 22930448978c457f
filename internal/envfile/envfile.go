// Package envfile loads API keys and settings from .env files.
// Variables already set in the environment take precedence.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load reads each .env file in order and sets variables that are still
// empty in the environment, so the first file defining a key wins.
// Missing files are skipped. A file that cannot be read or parsed does not
// stop the remaining files from loading; all such errors are joined.
// Returns the number of variables set.
func Load(paths ...string) (int, error) {
	set := 0
	var errs []error
	for _, path := range paths {
		n, err := loadFile(path)
		set += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return set, errors.Join(errs...)
}

func loadFile(path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading env file %s: %w", path, err)
	}

	set := 0
	for key, value := range values {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return set, fmt.Errorf("setting %s from %s: %w", key, path, err)
		}
		set++
	}
	return set, nil
}
