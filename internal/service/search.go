package service

import (
	"context"

	"github.com/j0hanz/fscontext/internal/cancelfabric"
	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/globengine"
	"github.com/j0hanz/fscontext/internal/redosgate"
	"github.com/j0hanz/fscontext/internal/scanner"
)

// SearchOptions configures the glob-based search operation.
type SearchOptions struct {
	Pattern         string
	ExcludePatterns []string
	MaxResults      int
	MaxDepth        int
	MaxFilesScanned int
	TimeoutMs       int
	BaseNameMatch   bool
	SkipSymlinks    bool
}

// Search performs a glob match rooted at path and returns matching entries.
func (s *Service) Search(ctx context.Context, path string, opt SearchOptions) ([]FileEntry, SearchSummary, error) {
	if opt.Pattern == "" {
		return nil, SearchSummary{}, invalidInput(path, "pattern must not be empty")
	}
	v, err := s.resolve(ctx, path)
	if err != nil {
		return nil, SearchSummary{}, err
	}

	ctx, cancel := cancelfabric.New(ctx, opt.TimeoutMs)
	defer cancel()

	var summary SearchSummary
	var out []FileEntry

	depthTruncated, walkErr := globengine.Walk(ctx, globengine.Options{
		Cwd:                v.RealPath,
		Pattern:            opt.Pattern,
		ExcludePatterns:    opt.ExcludePatterns,
		BaseNameMatch:      opt.BaseNameMatch,
		CaseSensitiveMatch: true,
		MaxDepth:           opt.MaxDepth,
		FollowSymlinks:     !opt.SkipSymlinks,
		// search has no includeIgnored parameter; only tree/hash expose it.
		IncludeIgnored: true,
	}, func(e globengine.Entry) error {
		summary.FilesScanned++
		if opt.SkipSymlinks && e.IsSymlink {
			return nil
		}
		if s.sensitive != nil && s.sensitive.IsSensitive(e.AbsolutePath) {
			return nil
		}
		if opt.MaxFilesScanned > 0 && summary.FilesScanned > opt.MaxFilesScanned {
			summary.Truncated = true
			summary.StoppedReason = "maxFiles"
			return errStopListing
		}
		if opt.MaxResults > 0 && summary.Matched >= opt.MaxResults {
			summary.Truncated = true
			summary.StoppedReason = "maxResults"
			return errStopListing
		}
		out = append(out, FileEntry{
			Name:           pathBase(e.RelativePath),
			AbsolutePath:   e.AbsolutePath,
			RelativeToBase: e.RelativePath,
			Kind:           kindFromEntry(e),
			Size:           e.Size,
			ModUnixNano:    e.ModUnixNano,
		})
		summary.Matched++
		return nil
	})
	if walkErr != nil && walkErr != errStopListing {
		if errs.IsCancellation(walkErr) {
			summary.Truncated = true
			summary.StoppedReason = "timeout"
			return out, summary, nil
		}
		return nil, SearchSummary{}, walkErr
	}
	if depthTruncated {
		summary.Truncated = true
		if summary.StoppedReason == "" {
			summary.StoppedReason = "maxDepth"
		}
	}

	return out, summary, nil
}

// SearchContentOptions configures the content-search (grep) operation.
type SearchContentOptions struct {
	Pattern         string
	FilePattern     string
	ExcludePatterns []string
	CaseSensitive   bool
	IsLiteral       bool
	WholeWord       bool
	ContextLines    int
	MaxResults      int
	MaxFileSize     int64
	MaxFilesScanned int
	TimeoutMs       int
	SkipBinary      bool
	IncludeHidden   bool
	Workers         int
}

// SearchContent selects candidate files via the glob engine (isolating
// ReDoS concerns to the regex gate, never the file selector) then scans
// each for Pattern.
func (s *Service) SearchContent(ctx context.Context, path string, opt SearchContentOptions) ([]MatchRecord, ContentSearchSummary, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return nil, ContentSearchSummary{}, err
	}

	re, err := redosgate.Compile(opt.Pattern, redosgate.Options{
		IsLiteral:     opt.IsLiteral,
		WholeWord:     opt.WholeWord,
		CaseSensitive: opt.CaseSensitive,
	})
	if err != nil {
		return nil, ContentSearchSummary{}, err
	}

	filePattern := opt.FilePattern
	if filePattern == "" {
		filePattern = "**/*"
	}

	ctx, cancel := cancelfabric.New(ctx, opt.TimeoutMs)
	defer cancel()

	var files []string
	_, walkErr := globengine.Walk(ctx, globengine.Options{
		Cwd:                v.RealPath,
		Pattern:            filePattern,
		ExcludePatterns:    opt.ExcludePatterns,
		IncludeHidden:      opt.IncludeHidden,
		CaseSensitiveMatch: true,
		OnlyFiles:          true,
		// SearchContentOptions exposes no depth control; grep always walks
		// the whole subtree.
		MaxDepth: globengine.UnboundedDepth,
		// Resolve symlink kind via stat so a directory symlink is excluded
		// by OnlyFiles rather than handed to the scanner as a file.
		FollowSymlinks: true,
	}, func(e globengine.Entry) error {
		if s.sensitive != nil && s.sensitive.IsSensitive(e.AbsolutePath) {
			return nil
		}
		files = append(files, e.AbsolutePath)
		return nil
	})
	if walkErr != nil {
		if errs.IsCancellation(walkErr) {
			return nil, ContentSearchSummary{}, errs.Wrap(errs.Timeout, path, "search cancelled before scanning began", walkErr)
		}
		return nil, ContentSearchSummary{}, walkErr
	}

	result, err := scanner.Scan(ctx, scanner.Request{
		Files:           files,
		Pattern:         re,
		ContextLines:    opt.ContextLines,
		MaxResults:      opt.MaxResults,
		MaxFileSize:     opt.MaxFileSize,
		MaxFilesScanned: opt.MaxFilesScanned,
		SkipBinary:      opt.SkipBinary,
		Workers:         opt.Workers,
	})
	if err != nil {
		return nil, ContentSearchSummary{}, err
	}

	records := make([]MatchRecord, 0, len(result.Matches))
	for _, m := range result.Matches {
		records = append(records, MatchRecord{
			RelativeFile:  toRel(v.RealPath, m.Path),
			LineNumber:    m.LineNumber,
			Content:       m.Line,
			ContextBefore: m.ContextPre,
			ContextAfter:  m.ContextPost,
			MatchCount:    m.MatchCount,
		})
	}

	summary := ContentSearchSummary{
		FilesScanned:        result.Summary.FilesScanned,
		FilesMatched:        result.Summary.FilesMatched,
		SkippedTooLarge:     result.Summary.SkippedTooLarge,
		SkippedBinary:       result.Summary.SkippedBinary,
		SkippedInaccessible: result.Summary.SkippedInaccessible,
		Truncated:           result.Summary.StoppedReason != scanner.StopNone,
		StoppedReason:       string(result.Summary.StoppedReason),
	}
	return records, summary, nil
}
