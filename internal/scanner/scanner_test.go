package scanner

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestScanSequentialFindsMatches(t *testing.T) {
	dir := t.TempDir()
	f1 := writeFile(t, dir, "a.txt", "alpha\nbeta\ngamma\n")
	f2 := writeFile(t, dir, "b.txt", "delta\nbeta\n")

	re := regexp.MustCompile("beta")
	res, err := Scan(context.Background(), Request{Files: []string{f1, f2}, Pattern: re})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(res.Matches), res.Matches)
	}
	if res.Summary.FilesMatched != 2 {
		t.Fatalf("expected both files to register a match, got %d", res.Summary.FilesMatched)
	}
}

func TestScanContextLines(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "l1\nl2\nMATCH\nl4\nl5\n")
	re := regexp.MustCompile("MATCH")
	res, err := Scan(context.Background(), Request{Files: []string{f}, Pattern: re, ContextLines: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.Matches))
	}
	m := res.Matches[0]
	if len(m.ContextPre) != 1 || m.ContextPre[0] != "l2" {
		t.Fatalf("expected preceding context [l2], got %v", m.ContextPre)
	}
	if len(m.ContextPost) != 1 || m.ContextPost[0] != "l4" {
		t.Fatalf("expected following context [l4], got %v", m.ContextPost)
	}
}

func TestScanMaxResultsTruncates(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "x\nx\nx\nx\n")
	re := regexp.MustCompile("x")
	res, err := Scan(context.Background(), Request{Files: []string{f}, Pattern: re, MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected exactly 2 matches due to maxResults, got %d", len(res.Matches))
	}
	if res.Summary.StoppedReason != StopMaxResults {
		t.Fatalf("expected stop reason maxResults, got %q", res.Summary.StoppedReason)
	}
}

func TestScanSkipsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "0123456789")
	re := regexp.MustCompile("1")
	res, err := Scan(context.Background(), Request{Files: []string{f}, Pattern: re, MaxFileSize: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.SkippedTooLarge != 1 {
		t.Fatalf("expected file to be skipped as too large, got summary %+v", res.Summary)
	}
}

func TestScanSkipsBinaryWhenRequested(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bin.dat")
	if err := os.WriteFile(p, []byte{0x00, 'x', 'y'}, 0o600); err != nil {
		t.Fatal(err)
	}
	re := regexp.MustCompile("x")
	res, err := Scan(context.Background(), Request{Files: []string{p}, Pattern: re, SkipBinary: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.SkippedBinary != 1 {
		t.Fatalf("expected binary file to be skipped, got summary %+v", res.Summary)
	}
}

func TestScanPooledMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 5; i++ {
		files = append(files, writeFile(t, dir, string(rune('a'+i))+".txt", "needle\nhay\n"))
	}
	re := regexp.MustCompile("needle")
	res, err := Scan(context.Background(), Request{Files: files, Pattern: re, Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 5 {
		t.Fatalf("expected 5 matches across pooled workers, got %d", len(res.Matches))
	}
	for i, m := range res.Matches {
		if m.Path != files[i] {
			t.Fatalf("expected pooled matches in glob-emission order, got %+v", res.Matches)
		}
	}
}

func TestScanPooledHonorsMaxFilesScanned(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 5; i++ {
		files = append(files, writeFile(t, dir, string(rune('a'+i))+".txt", "needle\n"))
	}
	re := regexp.MustCompile("needle")
	res, err := Scan(context.Background(), Request{Files: files, Pattern: re, Workers: 3, MaxFilesScanned: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.FilesScanned != 2 {
		t.Fatalf("expected only 2 files scanned, got %d", res.Summary.FilesScanned)
	}
	if res.Summary.StoppedReason != StopMaxFiles {
		t.Fatalf("expected stop reason maxFiles, got %q", res.Summary.StoppedReason)
	}
}

func TestScanMatchCountOnUntruncatedLine(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "xx xx xx\n")
	re := regexp.MustCompile("xx")
	res, err := Scan(context.Background(), Request{Files: []string{f}, Pattern: re})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 || res.Matches[0].MatchCount != 3 {
		t.Fatalf("expected a single line match with MatchCount 3, got %+v", res.Matches)
	}
}
