package service

import (
	"context"
	"os"
	"sort"

	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/globengine"
)

// ListDirectoryOptions configures a single listDirectory call.
type ListDirectoryOptions struct {
	Recursive     bool
	IncludeHidden bool
	MaxDepth      int
	MaxEntries    int
}

// ListDirectory lists a directory's contents, optionally recursively,
// filtering sensitive paths silently per invariant 2.
func (s *Service) ListDirectory(ctx context.Context, path string, opt ListDirectoryOptions) ([]FileEntry, ListDirectorySummary, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return nil, ListDirectorySummary{}, err
	}

	if opt.Recursive {
		return s.listDirectoryRecursive(ctx, v.RealPath, opt)
	}
	return s.listDirectoryFlat(ctx, v.RealPath, opt)
}

func (s *Service) listDirectoryFlat(ctx context.Context, real string, opt ListDirectoryOptions) ([]FileEntry, ListDirectorySummary, error) {
	dirents, err := os.ReadDir(real)
	if err != nil {
		return nil, ListDirectorySummary{}, errs.FromOS(real, err)
	}

	var summary ListDirectorySummary
	var out []FileEntry
	for _, d := range dirents {
		if err := ctx.Err(); err != nil {
			return nil, ListDirectorySummary{}, errs.Wrap(errs.Cancelled, real, "list cancelled", err)
		}
		summary.EntriesScanned++
		if !opt.IncludeHidden && len(d.Name()) > 0 && d.Name()[0] == '.' {
			continue
		}
		abs := real + string(os.PathSeparator) + d.Name()
		if s.sensitive != nil && s.sensitive.IsSensitive(abs) {
			continue
		}
		summary.EntriesVisible++

		info, err := d.Info()
		if err != nil {
			continue
		}
		if opt.MaxEntries > 0 && summary.EntriesEmitted >= opt.MaxEntries {
			summary.Truncated = true
			summary.StoppedReason = "maxEntries"
			break
		}
		out = append(out, entryFromInfo(real, abs, d.Name(), info))
		summary.EntriesEmitted++
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, summary, nil
}

func (s *Service) listDirectoryRecursive(ctx context.Context, real string, opt ListDirectoryOptions) ([]FileEntry, ListDirectorySummary, error) {
	var summary ListDirectorySummary
	var out []FileEntry

	depthTruncated, walkErr := globengine.Walk(ctx, globengine.Options{
		Cwd:                real,
		Pattern:            "**/*",
		IncludeHidden:      opt.IncludeHidden,
		MaxDepth:           opt.MaxDepth,
		CaseSensitiveMatch: true,
		// listDirectory has no includeIgnored parameter in the operations
		// table (only tree/hash do); bypass .gitignore filtering here so it
		// doesn't silently differ from the non-recursive listing above.
		IncludeIgnored: true,
	}, func(e globengine.Entry) error {
		summary.EntriesScanned++
		if s.sensitive != nil && s.sensitive.IsSensitive(e.AbsolutePath) {
			return nil
		}
		summary.EntriesVisible++
		if opt.MaxEntries > 0 && summary.EntriesEmitted >= opt.MaxEntries {
			summary.Truncated = true
			summary.StoppedReason = "maxEntries"
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
		summary.EntriesEmitted++
		return nil
	})
	if walkErr != nil && walkErr != errStopListing {
		if errs.IsCancellation(walkErr) {
			return nil, ListDirectorySummary{}, errs.Wrap(errs.Cancelled, real, "list cancelled", walkErr)
		}
		return nil, ListDirectorySummary{}, walkErr
	}
	if depthTruncated {
		summary.Truncated = true
		if summary.StoppedReason == "" {
			summary.StoppedReason = "maxDepth"
		}
	}

	return out, summary, nil
}

var errStopListing = errs.New(errs.Unknown, "", "listDirectory: stop")

func kindFromEntry(e globengine.Entry) EntryKind {
	switch {
	case e.IsSymlink:
		return KindSymlink
	case e.IsDir:
		return KindDirectory
	default:
		return KindFile
	}
}

func entryFromInfo(base, abs, name string, info os.FileInfo) FileEntry {
	fe := FileEntry{
		Name:           name,
		AbsolutePath:   abs,
		RelativeToBase: toRel(base, abs),
		Kind:           kindOf(info),
		Size:           info.Size(),
		ModUnixNano:    info.ModTime().UnixNano(),
	}
	if fe.Kind == KindSymlink {
		if target, err := os.Readlink(abs); err == nil {
			fe.SymlinkTarget = target
		}
	}
	return fe
}

func pathBase(rel string) string {
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			return rel[i+1:]
		}
	}
	return rel
}
