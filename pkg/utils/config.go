package utils

import (
	"os"
	"strconv"
	"strings"
)

// EnvOverrides holds settings that may be supplied through the environment.
// Empty fields mean "not set".
type EnvOverrides struct {
	DBPath        string
	OutputPath    string
	RawPath       string
	LogMode       string
	MirrorAddr    string
	MirrorDataDir string
	MaxWorkers    int
}

func LoadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		DBPath:        strings.TrimSpace(os.Getenv("HOPDB_DB_PATH")),
		OutputPath:    strings.TrimSpace(os.Getenv("HOPDB_OUTPUT")),
		RawPath:       strings.TrimSpace(os.Getenv("HOPDB_RAW_OUTPUT")),
		LogMode:       strings.TrimSpace(os.Getenv("HOPDB_LOG_MODE")),
		MirrorAddr:    strings.TrimSpace(os.Getenv("HOPDB_MIRROR_ADDR")),
		MirrorDataDir: strings.TrimSpace(os.Getenv("HOPDB_MIRROR_DIR")),
		// non-numeric values are ignored
		MaxWorkers: EnvInt("HOPDB_MAX_WORKERS", 0),
	}
}

// EnvOr returns the trimmed value of key, or def when unset or blank.
func EnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvInt parses key as an integer, returning def when unset or invalid.
func EnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
