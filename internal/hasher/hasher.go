// Package hasher computes SHA-256 digests for single files and a
// composite, order-stable digest for directories. A directory's digest
// frames each file's path and digest with a big-endian uint32 path length
// so a path containing bytes that could otherwise blur a naive
// concatenation boundary cannot produce a colliding composite, and so the
// digest is stable regardless of which platform computed it.
package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/globengine"
	"github.com/j0hanz/fscontext/internal/logger"
)

// DefaultBufferSize matches the teacher engine's streaming chunk size.
const DefaultBufferSize = 256 * 1024

// DefaultConcurrency bounds concurrent file hashing within one directory hash.
const DefaultConcurrency = 8

var bufferPool = &sync.Pool{
	New: func() any {
		buf := make([]byte, DefaultBufferSize)
		return &buf
	},
}

// Result is a digest plus the total bytes that went into it. FileCount is
// only meaningful for a HashDirectory result; HashFile leaves it zero.
type Result struct {
	Digest    string // lowercase hex-encoded SHA-256
	Size      int64
	FileCount int
}

// HashFile streams path's contents through SHA-256.
func HashFile(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(errs.Cancelled, path, "hash cancelled", err)
	}
	log := logger.With("path", path, "operation", "hash_file")

	f, err := os.Open(path)
	if err != nil {
		return Result{}, errs.FromOS(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn("failed to close file", "error", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return Result{}, errs.FromOS(path, err)
	}
	if info.IsDir() {
		return Result{}, errs.New(errs.NotFile, path, "path is a directory")
	}

	bufPtr, _ := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)
	buf := *bufPtr

	h := sha256.New()
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, errs.Wrap(errs.Cancelled, path, "hash cancelled", err)
		}
		n, rerr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return Result{}, errs.FromOS(path, rerr)
		}
	}
	return Result{Digest: hex.EncodeToString(h.Sum(nil)), Size: total}, nil
}

// Options configures a directory hash.
type Options struct {
	IncludeIgnored bool
	Concurrency    int
}

// HashDirectory enumerates root via the glob engine, hashes every file with
// bounded concurrency, sorts results byte-wise by slash-normalized relative
// path, then folds them into one composite digest using length-delimited
// framing: uint32_be(len(relPath)) || relPath || fileDigestBytes.
func HashDirectory(ctx context.Context, root string, opt Options) (Result, error) {
	concurrency := opt.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type fileEntry struct {
		rel  string
		path string
	}
	var files []fileEntry

	_, walkErr := globengine.Walk(ctx, globengine.Options{
		Cwd:                root,
		Pattern:            "**/*",
		OnlyFiles:          true,
		CaseSensitiveMatch: true,
		IncludeIgnored:     opt.IncludeIgnored,
		MaxDepth:           globengine.UnboundedDepth,
		// Resolve symlink kind via stat so a directory symlink is excluded
		// by OnlyFiles rather than attempted (and rejected) as a file.
		FollowSymlinks: true,
	}, func(e globengine.Entry) error {
		files = append(files, fileEntry{rel: e.RelativePath, path: e.AbsolutePath})
		return nil
	})
	if walkErr != nil {
		return Result{}, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })

	type hashedFile struct {
		rel    string
		digest []byte
		size   int64
		err    error
	}
	hashed := make([]hashedFile, len(files))

	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup
	for i, fe := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			hashed[i] = hashedFile{rel: fe.rel, err: errs.Wrap(errs.Cancelled, fe.path, "hash cancelled", err)}
			continue
		}
		wg.Add(1)
		go func(idx int, fe fileEntry) {
			defer wg.Done()
			defer sem.Release(1)
			r, err := HashFile(ctx, fe.path)
			if err != nil {
				hashed[idx] = hashedFile{rel: fe.rel, err: err}
				return
			}
			digest, derr := hex.DecodeString(r.Digest)
			if derr != nil {
				hashed[idx] = hashedFile{rel: fe.rel, err: errs.Wrap(errs.Unknown, fe.path, "failed to decode digest", derr)}
				return
			}
			hashed[idx] = hashedFile{rel: fe.rel, digest: digest, size: r.Size}
		}(i, fe)
	}
	wg.Wait()

	var totalSize int64
	var composite []byte
	for _, hf := range hashed {
		if hf.err != nil {
			return Result{}, hf.err
		}
		relSlash := filepath.ToSlash(hf.rel)
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(relSlash)))
		composite = append(composite, lenBuf[:]...)
		composite = append(composite, relSlash...)
		composite = append(composite, hf.digest...)
		totalSize += hf.size
	}

	sum := sha256.Sum256(composite)
	return Result{Digest: hex.EncodeToString(sum[:]), Size: totalSize, FileCount: len(files)}, nil
}
