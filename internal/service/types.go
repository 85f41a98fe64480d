// Package service composes the path kernel, glob engine, bounded reader,
// content scanner, tree builder, batch orchestrator, hasher, and diff/
// diagnostics utilities into the agent-facing operations named in spec.md
// §6: listRoots, listDirectory, search, searchContent, read, readMany,
// stat/statMany, tree, hash, diff, write/mkdir/mv/rm. Every operation takes
// a context for cancellation and validates its path arguments against the
// process-wide allowed roots before touching the filesystem.
package service

import "github.com/j0hanz/fscontext/internal/errs"

// EntryKind is the closed set a FileEntry/TreeNode can report.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
	KindSymlink   EntryKind = "symlink"
	KindOther     EntryKind = "other"
)

// FileEntry is one entry in a listDirectory or search response.
type FileEntry struct {
	Name           string
	AbsolutePath   string
	RelativeToBase string // always forward-slashed
	Kind           EntryKind
	Size           int64
	ModUnixNano    int64
	SymlinkTarget  string
}

// TreeNode is the agent-facing shape of a tree response; children are
// present iff Kind is KindDirectory.
type TreeNode struct {
	Name     string
	Kind     EntryKind
	Size     int64
	Children []TreeNode
}

// MatchRecord is one content-search hit.
type MatchRecord struct {
	RelativeFile  string
	LineNumber    int
	Content       string
	ContextBefore []string
	ContextAfter  []string
	MatchCount    int
}

// ReadResult is the full shape of a read operation's success response.
type ReadResult struct {
	Path         string
	Content      string
	Truncated    bool
	ReadMode     string
	TotalLines   int
	LinesRead    int
	HasMoreLines bool
	Head         int
	Tail         int
	StartLine    int
	EndLine      int
}

// FileInfo is the success shape of stat/statMany.
type FileInfo struct {
	Path          string
	Kind          EntryKind
	Size          int64
	ModUnixNano   int64
	SymlinkTarget string
}

// ItemError is one readMany/statMany entry's failure, carried alongside
// successes rather than failing the whole batch.
type ItemError struct {
	Path string
	Err  *errs.Error
}

// ListDirectorySummary reports traversal bookkeeping for listDirectory.
type ListDirectorySummary struct {
	EntriesScanned int
	EntriesVisible int
	EntriesEmitted int
	Truncated      bool
	StoppedReason  string
}

// SearchSummary reports traversal bookkeeping for the glob search operation.
type SearchSummary struct {
	Matched       int
	Truncated     bool
	FilesScanned  int
	StoppedReason string
}

// ContentSearchSummary reports traversal/scan bookkeeping for searchContent.
type ContentSearchSummary struct {
	FilesScanned        int
	FilesMatched        int
	SkippedTooLarge     int
	SkippedBinary       int
	SkippedInaccessible int
	Truncated           bool
	StoppedReason       string
}

// TreeResult is the success shape of the tree operation.
type TreeResult struct {
	Root         TreeNode
	Tree         TreeNode
	Truncated    bool
	TotalEntries int
	ASCII        string
}

// HashResult is the success shape of the hash operation.
type HashResult struct {
	Hash        string
	IsDirectory bool
	FileCount   int
}

// WriteStatus is the success shape of write/mkdir/mv/rm.
type WriteStatus struct {
	OK   bool
	Path string
}
