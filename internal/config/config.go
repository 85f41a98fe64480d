// Package config loads process-wide configuration from the environment
// under the FS_CONTEXT_ prefix (the prefix was a documented open question;
// this implementation settles on FS_CONTEXT_ and does not also honor a
// FILESYSTEM_CONTEXT_ variant). An optional .env file in the working
// directory is loaded first, the same way the CLI does it, so local
// development does not require exporting every variable by hand.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envDiagnostics       = "FS_CONTEXT_DIAGNOSTICS"
	envDiagnosticsDetail = "FS_CONTEXT_DIAGNOSTICS_DETAIL"
	envAllowSensitive    = "FS_CONTEXT_ALLOW_SENSITIVE"
	envAllowlist         = "FS_CONTEXT_ALLOWLIST"
	envDenylist          = "FS_CONTEXT_DENYLIST"
)

// Config is the process-wide configuration resolved once at startup.
type Config struct {
	DiagnosticsEnabled bool
	DiagnosticsDetail  int // 0 off, 1 hashed, 2 verbatim
	AllowSensitive     []string
	Allowlist          []string
	Denylist           []string
}

// LoadDotEnv loads a .env file from the working directory, if present. A
// missing file is silently ignored; any other load error is logged and
// startup continues, matching the CLI's lenient startup behavior.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("no .env file loaded: %v", err)
	}
}

// Load resolves Config from the current environment. Call LoadDotEnv
// first if a local .env file should be considered.
func Load() Config {
	return Config{
		DiagnosticsEnabled: parseBool(os.Getenv(envDiagnostics)),
		DiagnosticsDetail:  parseDetail(os.Getenv(envDiagnosticsDetail)),
		AllowSensitive:     splitList(os.Getenv(envAllowSensitive)),
		Allowlist:          splitList(os.Getenv(envAllowlist)),
		Denylist:           splitList(os.Getenv(envDenylist)),
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func parseDetail(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 2 {
		return 0
	}
	return n
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
