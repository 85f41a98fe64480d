// Package main is the entry point for the fscontext CLI application.
// It initializes all subcommands and executes the root command.
package main

import (
	"github.com/j0hanz/fscontext/cmd"
	_ "github.com/j0hanz/fscontext/cmd/diff"
	_ "github.com/j0hanz/fscontext/cmd/grep"
	_ "github.com/j0hanz/fscontext/cmd/hash"
	_ "github.com/j0hanz/fscontext/cmd/list"
	_ "github.com/j0hanz/fscontext/cmd/mkdir"
	_ "github.com/j0hanz/fscontext/cmd/mv"
	_ "github.com/j0hanz/fscontext/cmd/read"
	_ "github.com/j0hanz/fscontext/cmd/rm"
	_ "github.com/j0hanz/fscontext/cmd/roots"
	_ "github.com/j0hanz/fscontext/cmd/search"
	_ "github.com/j0hanz/fscontext/cmd/stat"
	_ "github.com/j0hanz/fscontext/cmd/tree"
	_ "github.com/j0hanz/fscontext/cmd/write"
)

// main is the entry point of the application.
// It executes the root command which handles all CLI interactions.
func main() {
	cmd.Execute()
}
