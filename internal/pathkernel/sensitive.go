package pathkernel

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultDenyGlobs is the fixed sensitive-path denylist (spec.md §4.1).
var defaultDenyGlobs = []string{
	"**/.env*",
	"**/.ssh/**",
	"**/id_rsa*",
	"**/id_ed25519*",
	"**/.aws/credentials",
	"**/.aws/config",
	"**/*.pem",
	"**/*secret*",
	"**/*.key",
	"**/.npmrc",
	"**/.netrc",
	"**/.git/config",
}

// SensitivePolicy holds the effective sensitive-path allow/deny globs,
// combining the fixed denylist with operator-supplied
// FS_CONTEXT_ALLOWLIST/DENYLIST environment overrides.
type SensitivePolicy struct {
	deny  []string
	allow []string
}

// NewSensitivePolicy builds a policy from the fixed denylist plus
// operator-supplied comma-separated glob lists (already split by the
// config package).
func NewSensitivePolicy(extraDeny, allow []string) *SensitivePolicy {
	deny := make([]string, 0, len(defaultDenyGlobs)+len(extraDeny))
	deny = append(deny, defaultDenyGlobs...)
	deny = append(deny, extraDeny...)
	return &SensitivePolicy{deny: deny, allow: allow}
}

// IsSensitive reports whether a path is sensitive: its basename or resolved
// path matches a deny glob, and no allow glob overrides it.
func (p *SensitivePolicy) IsSensitive(resolvedPath string) bool {
	if p == nil {
		return false
	}
	base := filepath.Base(resolvedPath)
	slashPath := filepath.ToSlash(resolvedPath)

	denied := false
	for _, g := range p.deny {
		if globMatch(g, base) || globMatch(g, slashPath) {
			denied = true
			break
		}
	}
	if !denied {
		return false
	}
	for _, g := range p.allow {
		if globMatch(g, base) || globMatch(g, slashPath) {
			return false
		}
	}
	return true
}

func globMatch(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// SplitEnvList splits a comma-separated environment value into trimmed,
// non-empty glob entries.
func SplitEnvList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EnvOrEmpty is a tiny helper kept at this level (rather than in config) so
// pathkernel has no import-cycle dependency on the config package when
// building a policy directly from the process environment in tests.
func EnvOrEmpty(key string) string { return os.Getenv(key) }
