// Package scanner implements the content-scanning pipeline: for each file
// selected by the glob engine, stream its lines, run the regex-safety-gated
// matcher per line, and collect context around each match. Matching work
// can optionally run across a fixed pool of goroutines so a pathological
// file does not stall the whole request; cancellation is forwarded to the
// pool the same way it reaches every other suspension point.
package scanner

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"sync"

	"github.com/j0hanz/fscontext/internal/binsniff"
	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/logger"
)

// maxLineBytes bounds per-line content captured into a match so a single
// pathologically long line cannot balloon memory.
const maxLineBytes = 4 * 1024

// StopReason enumerates why a scan request stopped early.
type StopReason string

const (
	StopNone       StopReason = ""
	StopMaxResults StopReason = "maxResults"
	StopMaxFiles   StopReason = "maxFiles"
	StopTimeout    StopReason = "timeout"
)

// Match is one matched line plus its surrounding context. MatchCount is the
// number of non-overlapping occurrences found on the line as it existed
// before the maxLineBytes cap was applied to Line.
type Match struct {
	Path        string
	LineNumber  int
	Line        string
	MatchCount  int
	ContextPre  []string
	ContextPost []string
}

// Request configures a single content scan across a list of candidate
// files, already selected by the glob engine.
type Request struct {
	Files           []string
	Pattern         *regexp.Regexp
	ContextLines    int
	MaxResults      int
	MaxFileSize     int64
	MaxFilesScanned int
	SkipBinary      bool
	// Workers, when > 0, runs each file's matching in a bounded pool of
	// goroutines rather than in-process.
	Workers int
}

// Summary accumulates the per-request scanner state named by the scanning
// contract: counts of files scanned/matched/skipped, and why the scan
// stopped, if it stopped early.
type Summary struct {
	FilesScanned        int
	FilesMatched        int
	SkippedTooLarge     int
	SkippedBinary       int
	SkippedInaccessible int
	Truncated           bool
	StoppedReason       StopReason
}

// Result is the outcome of a Scan call.
type Result struct {
	Matches []Match
	Summary Summary
}

// Scan runs Request sequentially or across a worker pool depending on
// Workers, honoring cancellation and the stop-condition order: cancellation
// first, then max-files, then max-results.
func Scan(ctx context.Context, req Request) (Result, error) {
	if req.Workers > 0 {
		return scanPooled(ctx, req)
	}
	return scanSequential(ctx, req)
}

func scanSequential(ctx context.Context, req Request) (Result, error) {
	var res Result
	for _, path := range req.Files {
		if err := ctx.Err(); err != nil {
			res.Summary.StoppedReason = StopTimeout
			return res, nil
		}
		if req.MaxFilesScanned > 0 && res.Summary.FilesScanned >= req.MaxFilesScanned {
			res.Summary.StoppedReason = StopMaxFiles
			res.Summary.Truncated = true
			break
		}

		fileMatches, skip, err := scanOneFile(ctx, path, req)
		res.Summary.FilesScanned++
		switch skip {
		case skipTooLarge:
			res.Summary.SkippedTooLarge++
			continue
		case skipBinary:
			res.Summary.SkippedBinary++
			continue
		case skipInaccessible:
			res.Summary.SkippedInaccessible++
			continue
		}
		if err != nil {
			res.Summary.SkippedInaccessible++
			continue
		}
		if len(fileMatches) > 0 {
			res.Summary.FilesMatched++
		}
		for _, m := range fileMatches {
			if req.MaxResults > 0 && len(res.Matches) >= req.MaxResults {
				res.Summary.StoppedReason = StopMaxResults
				res.Summary.Truncated = true
				return res, nil
			}
			res.Matches = append(res.Matches, m)
		}
	}
	return res, nil
}

// scanPooled fans file-scan work out across a fixed pool of goroutines.
// Each worker reads from a shared job channel; results are funneled back
// through a single results channel and reassembled, in req.Files order, by
// the caller, so a pooled scan is observationally identical to the
// sequential fallback: same file-count bound, same file order, same match
// order. This mirrors the spec's optional side-thread worker pool without
// introducing any shared mutable state between workers.
func scanPooled(ctx context.Context, req Request) (Result, error) {
	type job struct {
		index int
		path  string
	}
	type outcome struct {
		index   int
		matches []Match
		skip    skipKind
		err     error
	}

	files := req.Files
	if req.MaxFilesScanned > 0 && len(files) > req.MaxFilesScanned {
		files = files[:req.MaxFilesScanned]
	}

	jobs := make(chan job)
	results := make(chan outcome)

	workers := req.Workers
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				matches, skip, err := scanOneFile(ctx, j.path, req)
				select {
				case results <- outcome{index: j.index, matches: matches, skip: skip, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			select {
			case jobs <- job{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]outcome, len(files))
	done := make([]bool, len(files))
	for o := range results {
		outcomes[o.index] = o
		done[o.index] = true
	}

	var res Result
	stoppedForResults := false
	for i, o := range outcomes {
		if !done[i] {
			continue
		}
		res.Summary.FilesScanned++
		switch o.skip {
		case skipTooLarge:
			res.Summary.SkippedTooLarge++
			continue
		case skipBinary:
			res.Summary.SkippedBinary++
			continue
		case skipInaccessible:
			res.Summary.SkippedInaccessible++
			continue
		}
		if o.err != nil {
			res.Summary.SkippedInaccessible++
			continue
		}
		if len(o.matches) > 0 {
			res.Summary.FilesMatched++
		}
		for _, m := range o.matches {
			if req.MaxResults > 0 && len(res.Matches) >= req.MaxResults {
				stoppedForResults = true
				break
			}
			res.Matches = append(res.Matches, m)
		}
		if stoppedForResults {
			break
		}
	}

	switch {
	case stoppedForResults:
		res.Summary.Truncated = true
		res.Summary.StoppedReason = StopMaxResults
	case ctx.Err() != nil:
		res.Summary.StoppedReason = StopTimeout
	case req.MaxFilesScanned > 0 && len(req.Files) > req.MaxFilesScanned:
		res.Summary.Truncated = true
		res.Summary.StoppedReason = StopMaxFiles
	}
	return res, nil
}

type skipKind int

const (
	skipNone skipKind = iota
	skipTooLarge
	skipBinary
	skipInaccessible
)

func scanOneFile(ctx context.Context, path string, req Request) ([]Match, skipKind, error) {
	log := logger.With("path", path, "operation", "scan")

	info, err := os.Stat(path)
	if err != nil {
		return nil, skipInaccessible, errs.FromOS(path, err)
	}
	if req.MaxFileSize > 0 && info.Size() > req.MaxFileSize {
		return nil, skipTooLarge, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, skipInaccessible, errs.FromOS(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn("failed to close file", "error", cerr)
		}
	}()

	if req.SkipBinary {
		isBinary, err := binsniff.Sniff(path, f)
		if err != nil {
			return nil, skipInaccessible, err
		}
		if isBinary {
			return nil, skipBinary, nil
		}
		if _, err := f.Seek(0, 0); err != nil {
			return nil, skipInaccessible, errs.FromOS(path, err)
		}
	}

	return scanLines(ctx, path, f, req)
}

// scanLines streams lines with a trailing ring buffer of contextLines
// preceding the current line; contextLines trailing lines after a match are
// captured by deferring match emission until the buffer refills or EOF.
func scanLines(ctx context.Context, path string, f *os.File, req Request) ([]Match, skipKind, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	ring := make([]string, 0, req.ContextLines)
	var pending []pendingMatch
	var matches []Match
	lineNo := 0

	flush := func(newLine string, isEOF bool) {
		var stillPending []pendingMatch
		for _, pm := range pending {
			pm.postCount++
			if newLine != "" {
				pm.match.ContextPost = append(pm.match.ContextPost, newLine)
			}
			if isEOF || pm.postCount >= req.ContextLines {
				matches = append(matches, pm.match)
			} else {
				stillPending = append(stillPending, pm)
			}
		}
		pending = stillPending
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			break
		}
		lineNo++
		full := scanner.Text()
		count := len(req.Pattern.FindAllStringIndex(full, -1))

		emitted := full
		if len(emitted) > maxLineBytes {
			emitted = emitted[:maxLineBytes]
		}

		flush(emitted, false)

		if count > 0 {
			m := Match{
				Path:       path,
				LineNumber: lineNo,
				Line:       emitted,
				MatchCount: count,
				ContextPre: append([]string{}, ring...),
			}
			if req.ContextLines == 0 {
				matches = append(matches, m)
			} else {
				pending = append(pending, pendingMatch{match: m})
			}
		}

		if req.ContextLines > 0 {
			ring = append(ring, emitted)
			if len(ring) > req.ContextLines {
				ring = ring[1:]
			}
		}
	}
	flush("", true)

	if err := scanner.Err(); err != nil {
		return matches, skipInaccessible, errs.FromOS(path, err)
	}
	return matches, skipNone, nil
}

type pendingMatch struct {
	match     Match
	postCount int
}
