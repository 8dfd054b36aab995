package env

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. The path
// can be overridden with SEPBENCH_ENV_PATH; a missing file is not an
// error, since all settings have flag equivalents.
func LoadDotEnv(defaultPath string) error {
	path := defaultPath
	if override := os.Getenv("SEPBENCH_ENV_PATH"); override != "" {
		path = override
	}

	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no .env file, using process environment", "path", path)
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
