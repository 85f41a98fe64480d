// Package reader implements the bounded file reader: a single entry point
// that opens a file once and dispatches to a full, head, tail, or range
// read, each bounded by a byte or line budget so a caller can never force
// the whole of an oversized file into memory.
package reader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/j0hanz/fscontext/internal/binsniff"
	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/logger"
)

// DefaultMaxSize bounds a full read when the caller does not supply one.
const DefaultMaxSize = 10 * 1024 * 1024 // 10MiB

// tailChunkSize is the step backward used by tail reads; chosen large enough
// that most tail(N) requests resolve in a single chunk.
const tailChunkSize = 256 * 1024

// bufferPool recycles the byte slices used by tail and range scans so
// repeated reads on the same process don't keep re-allocating.
var bufferPool = &sync.Pool{
	New: func() any {
		buf := make([]byte, tailChunkSize)
		return &buf
	},
}

// Mode selects exactly one read strategy.
type Mode int

const (
	ModeFull Mode = iota
	ModeHead
	ModeTail
	ModeRange
)

// Request describes a single bounded read. Exactly one of the mode-specific
// fields applies, matching whichever Mode is set.
type Request struct {
	Path    string
	Mode    Mode
	MaxSize int64 // ModeFull: reject if file size exceeds this
	N       int   // ModeHead / ModeTail: line count
	Start   int   // ModeRange: first line, 1-based
	End     int   // ModeRange: last line, inclusive
}

// Result is what every mode normalizes down to: the text content actually
// returned, plus bookkeeping the caller needs to know the read was partial.
type Result struct {
	Content    string
	TotalLines int // -1 when unknown without a full scan
	LinesShown int
	Truncated  bool
	BytesRead  int64
	WasBinary  bool
}

const maxRangeLines = 100_000

// Read dispatches a Request to the mode-specific implementation. The file is
// opened exactly once; binary detection happens before any mode-specific
// work so a binary file never streams content into the result.
func Read(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(errs.Cancelled, req.Path, "request cancelled", err)
	}
	log := logger.With("path", req.Path, "operation", "read", "mode", modeName(req.Mode))

	f, err := os.Open(req.Path)
	if err != nil {
		return Result{}, errs.FromOS(req.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn("failed to close file", "error", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return Result{}, errs.FromOS(req.Path, err)
	}
	if info.IsDir() {
		return Result{}, errs.New(errs.NotFile, req.Path, "path is a directory")
	}

	isBinary, err := binsniff.Sniff(req.Path, f)
	if err != nil {
		return Result{}, errs.Wrap(errs.Unknown, req.Path, "failed to inspect file contents", err)
	}
	if isBinary {
		return Result{Content: "", WasBinary: true, TotalLines: -1}, errs.New(errs.BinaryFile, req.Path, "file appears to be binary")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Result{}, errs.FromOS(req.Path, err)
	}

	switch req.Mode {
	case ModeFull:
		return readFull(f, info.Size(), req)
	case ModeHead:
		return readHead(f, req)
	case ModeTail:
		return readTail(f, info.Size(), req)
	case ModeRange:
		return readRange(f, req)
	default:
		return Result{}, errs.New(errs.InvalidInput, req.Path, "exactly one read mode must be specified")
	}
}

func modeName(m Mode) string {
	switch m {
	case ModeFull:
		return "full"
	case ModeHead:
		return "head"
	case ModeTail:
		return "tail"
	case ModeRange:
		return "range"
	default:
		return "unknown"
	}
}

func readFull(f *os.File, size int64, req Request) (Result, error) {
	max := req.MaxSize
	if max <= 0 {
		max = DefaultMaxSize
	}
	if size > max {
		return Result{}, errs.New(errs.TooLarge, req.Path, fmt.Sprintf("file size %d exceeds max %d", size, max))
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return Result{}, errs.FromOS(req.Path, err)
	}
	total := countLines(data)
	return Result{
		Content:    string(data),
		TotalLines: total,
		LinesShown: total,
		BytesRead:  int64(len(data)),
	}, nil
}

func readHead(f *os.File, req Request) (Result, error) {
	if req.N <= 0 {
		return Result{}, errs.New(errs.InvalidInput, req.Path, "head line count must be positive")
	}
	max := req.MaxSize
	if max <= 0 {
		max = DefaultMaxSize
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var buf bytes.Buffer
	lines := 0
	truncated := false
	for scanner.Scan() {
		line := scanner.Bytes()
		if int64(buf.Len()+len(line)+1) > max {
			truncated = true
			break
		}
		buf.Write(line)
		buf.WriteByte('\n')
		lines++
		if lines >= req.N {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, errs.FromOS(req.Path, err)
	}
	if lines >= req.N && scanner.Scan() {
		truncated = true
	}
	return Result{
		Content:    buf.String(),
		TotalLines: -1,
		LinesShown: lines,
		Truncated:  truncated,
		BytesRead:  int64(buf.Len()),
	}, nil
}

// readTail reads backward from EOF in fixed-size chunks, realigning each
// chunk start to a UTF-8 code point boundary so a multi-byte rune is never
// split across a chunk seam.
func readTail(f *os.File, size int64, req Request) (Result, error) {
	if req.N <= 0 {
		return Result{}, errs.New(errs.InvalidInput, req.Path, "tail line count must be positive")
	}

	bufPtr, _ := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)
	chunk := *bufPtr

	var collected []byte
	pos := size
	newlines := 0
	truncated := false

	for pos > 0 && newlines <= req.N {
		readSize := int64(tailChunkSize)
		if readSize > pos {
			readSize = pos
		}
		start := pos - readSize
		n, err := f.ReadAt(chunk[:readSize], start)
		if err != nil && err != io.EOF {
			return Result{}, errs.FromOS(req.Path, err)
		}
		piece := chunk[:n]
		alignStart := firstUTF8Boundary(piece)
		aligned := piece[alignStart:]

		newlines += bytes.Count(aligned, []byte{'\n'})
		collected = append(append([]byte{}, aligned...), collected...)
		pos = start + int64(alignStart)

		if int64(len(collected)) > int64(DefaultMaxSize) {
			truncated = true
			break
		}
	}
	if pos > 0 {
		truncated = true
	}

	lines := bytes.Split(bytes.TrimRight(collected, "\n"), []byte{'\n'})
	if len(lines) > req.N {
		lines = lines[len(lines)-req.N:]
		truncated = true
	}
	out := bytes.Join(lines, []byte{'\n'})
	if len(out) > 0 {
		out = append(out, '\n')
	}
	return Result{
		Content:    string(out),
		TotalLines: -1,
		LinesShown: len(lines),
		Truncated:  truncated,
		BytesRead:  int64(len(out)),
	}, nil
}

// firstUTF8Boundary returns the offset of the first byte in buf that is not
// a UTF-8 continuation byte (10xxxxxx), so a caller can safely treat
// buf[offset:] as starting on a code point boundary.
func firstUTF8Boundary(buf []byte) int {
	for i := 0; i < len(buf) && i < 4; i++ {
		if buf[i]&0xC0 != 0x80 {
			return i
		}
	}
	return 0
}

func readRange(f *os.File, req Request) (Result, error) {
	if req.Start < 1 || req.End < req.Start {
		return Result{}, errs.New(errs.InvalidInput, req.Path, "range start must be >= 1 and end must be >= start")
	}
	if req.End-req.Start+1 > maxRangeLines {
		return Result{}, errs.New(errs.InvalidInput, req.Path, fmt.Sprintf("range cannot exceed %d lines", maxRangeLines))
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var buf bytes.Buffer
	lineNo := 0
	shown := 0
	for scanner.Scan() {
		lineNo++
		if lineNo < req.Start {
			continue
		}
		if lineNo > req.End {
			break
		}
		buf.Write(scanner.Bytes())
		buf.WriteByte('\n')
		shown++
	}
	if err := scanner.Err(); err != nil {
		return Result{}, errs.FromOS(req.Path, err)
	}
	if lineNo < req.Start {
		return Result{LinesShown: 0, Truncated: false, TotalLines: -1}, nil
	}
	return Result{
		Content:    buf.String(),
		TotalLines: -1,
		LinesShown: shown,
		BytesRead:  int64(buf.Len()),
	}, nil
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
