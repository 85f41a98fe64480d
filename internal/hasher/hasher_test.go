package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestHashFileMatchesDirectSHA256(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.txt")
	content := []byte("hello world")
	if err := os.WriteFile(p, content, 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := HashFile(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(content)
	want := hex.EncodeToString(sum[:])
	if res.Digest != want {
		t.Fatalf("expected digest %s, got %s", want, res.Digest)
	}
	if res.Size != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), res.Size)
	}
}

func TestHashFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := HashFile(context.Background(), dir); err == nil {
		t.Fatal("expected directory to be rejected")
	}
}

func TestHashDirectoryIsOrderStable(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.txt":     "second",
		"a.txt":     "first",
		"sub/c.txt": "nested",
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	r1, err := HashDirectory(context.Background(), dir, Options{IncludeIgnored: true})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := HashDirectory(context.Background(), dir, Options{IncludeIgnored: true})
	if err != nil {
		t.Fatal(err)
	}
	if r1.Digest != r2.Digest {
		t.Fatalf("expected repeated hashing of an unchanged directory to be deterministic: %s vs %s", r1.Digest, r2.Digest)
	}
}

func TestHashDirectoryChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("v1"), 0o600); err != nil {
		t.Fatal(err)
	}
	r1, err := HashDirectory(context.Background(), dir, Options{IncludeIgnored: true})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(p, []byte("v2"), 0o600); err != nil {
		t.Fatal(err)
	}
	r2, err := HashDirectory(context.Background(), dir, Options{IncludeIgnored: true})
	if err != nil {
		t.Fatal(err)
	}
	if r1.Digest == r2.Digest {
		t.Fatal("expected changed file content to change the directory digest")
	}
}
