package pathkernel

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/j0hanz/fscontext/internal/errs"
)

// reservedWindowsNames are rejected at parse time regardless of host OS, so
// that an allowed-roots negotiation performed on one platform behaves the
// same when the resulting config is later run on Windows.
var reservedWindowsNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Normalize expands a leading "~" to the user's home directory, resolves the
// result to an absolute path against the current working directory, and
// lowercases a Windows drive letter. It performs no filesystem I/O.
func Normalize(input string) (string, error) {
	return normalizeNoIO(input)
}

func normalizeNoIO(input string) (string, error) {
	if strings.ContainsRune(input, '\x00') {
		return "", errs.New(errs.InvalidInput, input, "path contains a NUL byte")
	}
	if err := rejectReservedOrDriveRelative(input); err != nil {
		return "", err
	}

	expanded := expandHome(input)
	expanded = filepath.FromSlash(expanded)

	var abs string
	if filepath.IsAbs(expanded) {
		abs = expanded
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return "", errs.Wrap(errs.Unknown, input, "failed to resolve working directory", err)
		}
		abs = filepath.Join(wd, expanded)
	}
	abs = filepath.Clean(abs)
	abs = lowercaseDriveLetter(abs)
	return abs, nil
}

func expandHome(input string) string {
	if input != "~" && !strings.HasPrefix(input, "~/") && !strings.HasPrefix(input, `~\`) {
		return input
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return input
	}
	if input == "~" {
		return home
	}
	return filepath.Join(home, input[2:])
}

func lowercaseDriveLetter(p string) string {
	if len(p) >= 2 && p[1] == ':' && unicode.IsUpper(rune(p[0])) {
		return strings.ToLower(p[:1]) + p[1:]
	}
	return p
}

// rejectReservedOrDriveRelative rejects Windows reserved device names
// ("CON", "PRN", ...) and drive-relative paths ("C:foo", no separator after
// the colon) at parse time, per spec.md §6's CLI surface contract.
func rejectReservedOrDriveRelative(input string) error {
	base := filepath.Base(filepath.FromSlash(input))
	name := strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
	if reservedWindowsNames[name] {
		return errs.New(errs.InvalidInput, input, "path uses a reserved device name")
	}

	if len(input) >= 2 && input[1] == ':' {
		isDriveLetter := (input[0] >= 'a' && input[0] <= 'z') || (input[0] >= 'A' && input[0] <= 'Z')
		if isDriveLetter {
			rest := input[2:]
			if rest == "" || (rest[0] != '/' && rest[0] != '\\') {
				return errs.New(errs.InvalidInput, input, "drive-relative paths are not allowed")
			}
		}
	}
	return nil
}
