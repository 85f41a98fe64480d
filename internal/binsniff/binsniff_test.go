package binsniff

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, content, 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSniffExtension(t *testing.T) {
	p := writeTemp(t, "image.png", []byte("not really a png but extension wins"))
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	bin, err := Sniff(filepath.Base(p), f)
	if err != nil {
		t.Fatal(err)
	}
	if !bin {
		t.Fatal("expected .png to be classified binary by extension")
	}
}

func TestSniffTextFile(t *testing.T) {
	p := writeTemp(t, "notes.txt", []byte("hello world\nsecond line\n"))
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	bin, err := Sniff(filepath.Base(p), f)
	if err != nil {
		t.Fatal(err)
	}
	if bin {
		t.Fatal("expected plain text to be classified text")
	}
}

func TestSniffNulByte(t *testing.T) {
	content := append([]byte("prefix"), 0x00, 'x')
	p := writeTemp(t, "data.custom", content)
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	bin, err := Sniff(filepath.Base(p), f)
	if err != nil {
		t.Fatal(err)
	}
	if !bin {
		t.Fatal("expected NUL byte content to be classified binary")
	}
}

func TestSniffEmptyFile(t *testing.T) {
	p := writeTemp(t, "empty.custom", nil)
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	bin, err := Sniff(filepath.Base(p), f)
	if err != nil {
		t.Fatal(err)
	}
	if bin {
		t.Fatal("expected empty file to be classified text")
	}
}

func TestSniffBOM(t *testing.T) {
	content := append(bytes.Clone(bomUTF8), []byte("hello")...)
	p := writeTemp(t, "bom.custom", content)
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	bin, err := Sniff(filepath.Base(p), f)
	if err != nil {
		t.Fatal(err)
	}
	if bin {
		t.Fatal("expected UTF-8 BOM content to be classified text")
	}
}

func TestSniffRestoresOffset(t *testing.T) {
	p := writeTemp(t, "rewind.custom", []byte("abcdefgh"))
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := Sniff(filepath.Base(p), f); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 3)
	if _, err := f.Read(buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "abc" {
		t.Fatalf("expected read offset reset to start, got %q", buf)
	}
}
