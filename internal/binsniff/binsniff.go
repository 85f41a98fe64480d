// Package binsniff classifies a file handle as text or binary without
// reading the whole file, so the content scanner and bounded reader can
// reject binary files cheaply.
package binsniff

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// sniffWindow is the maximum number of leading bytes inspected.
const sniffWindow = 8 * 1024

// knownBinaryExt is consulted before any I/O happens.
var knownBinaryExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true, ".7z": true, ".rar": true,
	".pdf": true, ".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".mp3": true, ".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".wav": true, ".flac": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".sqlite": true, ".db": true, ".pyc": true, ".class": true, ".o": true, ".a": true,
	".wasm": true, ".jar": true,
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// IsBinaryExt reports whether name's extension is a known-binary type,
// without touching the filesystem.
func IsBinaryExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return knownBinaryExt[ext]
}

// Sniff classifies an already-open file handle as binary. A name with a
// known binary extension is reported binary without touching the handle.
// Otherwise the handle is sampled from offset 0 and left at offset 0 on
// return, whatever its position on entry. Decision order after the
// extension check: empty content is text; a UTF-8/UTF-16 byte-order mark is
// text; any NUL byte in the sampled window makes it binary; otherwise it is
// text.
func Sniff(name string, r io.ReadSeeker) (bool, error) {
	if IsBinaryExt(name) {
		return true, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	buf := make([]byte, sniffWindow)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	buf = buf[:n]
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return false, serr
	}

	return isBinary(buf), nil
}

// SniffBytes classifies an already-read sample of leading bytes.
func SniffBytes(name string, sample []byte) bool {
	if IsBinaryExt(name) {
		return true
	}
	return isBinary(sample)
}

func isBinary(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.HasPrefix(buf, bomUTF8) || bytes.HasPrefix(buf, bomUTF16LE) || bytes.HasPrefix(buf, bomUTF16BE) {
		return false
	}
	return bytes.IndexByte(buf, 0) >= 0
}
