package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// picks up a .env file in the working directory before FromEnv reads it.
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	ListenAddr string
	DataDir    string
	DBPath     string
	Depth      int
	Workers    int
	MaxPlies   int
	Book       bool
	Seed       uint64
	StartFEN   string
}

func FromEnv() Config {
	dataDir := getenv("ALFIL_DATA_DIR", "./data")

	return Config{
		ListenAddr: getenv("ALFIL_LISTEN_ADDR", ":8080"),
		DataDir:    dataDir,
		DBPath:     getenv("ALFIL_DB_PATH", filepath.Join(dataDir, "alfil.sqlite")),
		Depth:      getenvInt("ALFIL_DEPTH", 3),
		Workers:    getenvInt("ALFIL_WORKERS", 1),
		MaxPlies:   getenvInt("ALFIL_MAX_PLIES", 200),
		Book:       getenvBool("ALFIL_BOOK", true),
		Seed:       uint64(getenvInt("ALFIL_SEED", 0)),
		StartFEN:   strings.TrimSpace(os.Getenv("ALFIL_START_FEN")),
	}
}

func getenv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getenvInt falls back to defaultValue on unset, malformed or negative values.
func getenvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getenvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}
