package service

import (
	"context"
	"errors"

	"github.com/j0hanz/fscontext/internal/batch"
	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/reader"
)

// ReadOptions configures a single read operation. Exactly one of Head,
// Tail, or the (LineStart,LineEnd) pair may be set; none set means a full
// read.
type ReadOptions struct {
	MaxSize   int64
	Head      int
	Tail      int
	LineStart int
	LineEnd   int
}

func (o ReadOptions) mode() (reader.Mode, error) {
	set := 0
	if o.Head > 0 {
		set++
	}
	if o.Tail > 0 {
		set++
	}
	if o.LineStart > 0 || o.LineEnd > 0 {
		set++
	}
	if set > 1 {
		return 0, invalidInput("", "read accepts only one of head, tail, or a line range")
	}
	switch {
	case o.Head > 0:
		return reader.ModeHead, nil
	case o.Tail > 0:
		return reader.ModeTail, nil
	case o.LineStart > 0 || o.LineEnd > 0:
		return reader.ModeRange, nil
	default:
		return reader.ModeFull, nil
	}
}

func modeLabel(m reader.Mode) string {
	switch m {
	case reader.ModeHead:
		return "head"
	case reader.ModeTail:
		return "tail"
	case reader.ModeRange:
		return "range"
	default:
		return "full"
	}
}

// Read validates path and performs a single bounded read per opt.
func (s *Service) Read(ctx context.Context, path string, opt ReadOptions) (ReadResult, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return ReadResult{}, err
	}

	mode, err := opt.mode()
	if err != nil {
		return ReadResult{}, err
	}
	if mode == reader.ModeRange && opt.LineStart <= 0 {
		opt.LineStart = 1
	}

	maxSize := opt.MaxSize
	if maxSize <= 0 {
		maxSize = reader.DefaultMaxSize
	}

	res, err := reader.Read(ctx, reader.Request{
		Path:    v.RealPath,
		Mode:    mode,
		MaxSize: maxSize,
		N:       maxInt(opt.Head, opt.Tail),
		Start:   opt.LineStart,
		End:     opt.LineEnd,
	})
	if err != nil {
		return ReadResult{}, err
	}
	if res.WasBinary {
		return ReadResult{}, errs.New(errs.BinaryFile, path, "file content appears to be binary")
	}

	return ReadResult{
		Path:         path,
		Content:      res.Content,
		Truncated:    res.Truncated,
		ReadMode:     modeLabel(mode),
		TotalLines:   res.TotalLines,
		LinesRead:    res.LinesShown,
		HasMoreLines: res.Truncated,
		Head:         opt.Head,
		Tail:         opt.Tail,
		StartLine:    opt.LineStart,
		EndLine:      opt.LineEnd,
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ReadManyOptions configures a batch read across multiple paths, sharing a
// total-size budget across all of them.
type ReadManyOptions struct {
	MaxSize      int64
	MaxTotalSize int64
	Head         int
	LineStart    int
	LineEnd      int
	Concurrency  int
}

// ReadManyResult is one entry of a readMany response: either Result is
// populated, or Err is, never both.
type ReadManyResult struct {
	Path   string
	Result ReadResult
	Err    *errs.Error
}

// ReadMany validates and reads every path in paths, applying a shared
// total-size budget before any file is opened (C9's read-many overlay).
func (s *Service) ReadMany(ctx context.Context, paths []string, opt ReadManyOptions) ([]ReadManyResult, error) {
	maxSize := opt.MaxSize
	if maxSize <= 0 {
		maxSize = reader.DefaultMaxSize
	}
	maxTotal := opt.MaxTotalSize
	if maxTotal <= 0 {
		maxTotal = maxSize * int64(len(paths))
	}

	real := make([]string, 0, len(paths))
	realToOrig := make(map[string]string, len(paths))
	out := make([]ReadManyResult, 0, len(paths))
	for _, p := range paths {
		v, err := s.resolve(ctx, p)
		if err != nil {
			out = append(out, ReadManyResult{Path: p, Err: asErr(err)})
			continue
		}
		real = append(real, v.RealPath)
		realToOrig[v.RealPath] = p
	}

	budget := batch.ApplyReadManyBudget(real, maxTotal, maxSize)
	skipped := make(map[string]*errs.Error, len(budget.Skipped))
	for p, err := range budget.Skipped {
		skipped[p] = errs.New(errs.TooLarge, realToOrig[p], err.Error())
	}

	readOpt := ReadOptions{MaxSize: maxSize, Head: opt.Head, LineStart: opt.LineStart, LineEnd: opt.LineEnd}

	results, err := batch.Run(ctx, budget.Proceed, opt.Concurrency, func(ctx context.Context, item string) (ReadResult, error) {
		return s.readResolved(ctx, item, realToOrig[item], readOpt)
	})
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		origPath := realToOrig[budget.Proceed[r.Index]]
		if r.Err != nil {
			out = append(out, ReadManyResult{Path: origPath, Err: asErr(r.Err)})
			continue
		}
		out = append(out, ReadManyResult{Path: origPath, Result: r.Value})
	}
	for p, err := range skipped {
		out = append(out, ReadManyResult{Path: realToOrig[p], Err: err})
	}

	return out, nil
}

// readResolved reads an already-validated real path, restoring origPath in
// the result so the caller never sees the resolved path.
func (s *Service) readResolved(ctx context.Context, realPath, origPath string, opt ReadOptions) (ReadResult, error) {
	mode, err := opt.mode()
	if err != nil {
		return ReadResult{}, err
	}
	res, err := reader.Read(ctx, reader.Request{
		Path:    realPath,
		Mode:    mode,
		MaxSize: opt.MaxSize,
		N:       opt.Head,
		Start:   opt.LineStart,
		End:     opt.LineEnd,
	})
	if err != nil {
		return ReadResult{}, err
	}
	if res.WasBinary {
		return ReadResult{}, errs.New(errs.BinaryFile, origPath, "file content appears to be binary")
	}
	return ReadResult{
		Path:         origPath,
		Content:      res.Content,
		Truncated:    res.Truncated,
		ReadMode:     modeLabel(mode),
		TotalLines:   res.TotalLines,
		LinesRead:    res.LinesShown,
		HasMoreLines: res.Truncated,
	}, nil
}

func asErr(err error) *errs.Error {
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	return errs.Wrap(errs.Unknown, "", err.Error(), err)
}
