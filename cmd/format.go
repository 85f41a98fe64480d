package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

// FormatSize renders a byte count the way a human reads it (e.g. "1.2 MB"),
// for the text-mode output of commands that report file sizes.
func FormatSize(n int64) string {
	return humanize.Bytes(uint64(n))
}

// Warnf writes a yellow warning line to w when w is an interactive terminal,
// plain text otherwise (piped output and log files should stay ANSI-free).
func Warnf(w io.Writer, format string, args ...any) {
	if isTerminal(w) {
		warnColor.Fprintf(w, format, args...)
		return
	}
	fmt.Fprintf(w, format, args...)
}

// Successf writes a green status line to w under the same terminal gating as
// Warnf.
func Successf(w io.Writer, format string, args ...any) {
	if isTerminal(w) {
		okColor.Fprintf(w, format, args...)
		return
	}
	fmt.Fprintf(w, format, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
