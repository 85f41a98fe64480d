// Package cmd provides the root command and command registration functionality
// for the fscontext CLI application. It handles global flags, logging
// configuration, allowed-roots resolution, and command initialization.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/j0hanz/fscontext/internal/config"
	"github.com/j0hanz/fscontext/internal/diagnostics"
	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/pathkernel"
	"github.com/j0hanz/fscontext/version"
	"github.com/spf13/cobra"
)

var (
	// logLevel stores the logging level flag value.
	logLevel string

	// logFormat stores the logging format flag value (text or json).
	logFormat string

	// logOutput stores the log output destination flag value (stdout or filename).
	logOutput string

	// verbose stores the count of -v flags (0, 1, or 2).
	verbose int

	// quiet stores the quiet mode flag value.
	quiet bool

	// logFile stores the opened log file handle when logging to a file.
	logFile *os.File

	// allowCwd permits the current working directory as an implicit
	// allowed root in addition to any --root flags.
	allowCwd bool

	// roots collects the --root flag values: directories a subcommand's
	// path arguments are allowed to resolve into.
	roots []string

	// Sensitive is the process-wide sensitive-path policy, built from the
	// FS_CONTEXT_* environment configuration during PersistentPreRunE.
	// Subcommands read this to construct their internal/service.Service.
	Sensitive *pathkernel.SensitivePolicy
)

// rootCmd is the root command for the fscontext CLI application. Its
// --root flags (plus --allow-cwd) define the sandbox every subcommand's
// path arguments are validated against.
var rootCmd = &cobra.Command{
	Use:   "fscontext",
	Short: "fscontext - sandboxed filesystem access for autonomous agents",
	Long: `fscontext exposes a set of filesystem operations (list, search, grep, read,
tree, hash, diff, write/mkdir/mv/rm) scoped to an explicit set of allowed
root directories. Paths outside the allowed roots, and paths that escape
them via a symbolic link, are always denied.`,
	Example: `  # Restrict every subcommand to a single project directory
  fscontext --root /my/project search --pattern '**/*.go' /my/project

  # Allow the current working directory as well as an explicit root
  fscontext --root /my/project --allow-cwd read ./README.md

  # Compute a directory's content hash
  fscontext --root /my/project hash /my/project`,
	Version: version.VERSION,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configureLogging(); err != nil {
			return err
		}
		return configureRoots(roots)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			if err := logFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
			}
			logFile = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func configureLogging() error {
	level := logLevel
	if quiet {
		level = "error"
	} else if verbose > 0 {
		if verbose >= 2 {
			level = "debug"
		} else {
			level = "info"
		}
	} else if level == "" {
		level = "warn"
	}

	var output io.Writer
	if logOutput == "" || logOutput == "stdout" {
		output = os.Stdout
	} else {
		cleanPath := filepath.Clean(logOutput)
		absPath, err := filepath.Abs(cleanPath)
		if err != nil {
			return fmt.Errorf("error resolving log file path %s: %w", logOutput, err)
		}
		if filepath.Clean(absPath) != absPath {
			return fmt.Errorf("invalid log file path: %s", logOutput)
		}
		var err2 error
		logFile, err2 = os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err2 != nil {
			return fmt.Errorf("error opening log file %s: %w", logOutput, err2)
		}
		output = logFile
	}

	logger.Init(level, logFormat, output)
	return nil
}

// configureRoots validates every --root value (rejecting NUL bytes, reserved
// device names, and drive-relative paths at parse time per the CLI surface
// contract), optionally appends the current working directory, and installs
// the survivors as the process-wide allowed-roots snapshot. It also loads
// .env and diagnostics configuration, since both must be in effect before
// any subcommand touches the filesystem.
func configureRoots(roots []string) error {
	config.LoadDotEnv()
	cfg := config.Load()
	diagnostics.Configure(cfg.DiagnosticsEnabled, diagnostics.Detail(cfg.DiagnosticsDetail), nil)

	allow := append(append([]string{}, cfg.Allowlist...), cfg.AllowSensitive...)
	Sensitive = pathkernel.NewSensitivePolicy(cfg.Denylist, allow)

	for _, r := range roots {
		if _, err := pathkernel.Normalize(r); err != nil {
			return fmt.Errorf("invalid root %q: %w", r, err)
		}
	}

	all := append([]string{}, roots...)
	if allowCwd {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		all = append(all, wd)
	}

	pathkernel.Global.Set(all)
	if len(all) > 0 && len(pathkernel.Global.Snapshot()) == 0 {
		return fmt.Errorf("no usable allowed roots among: %v", all)
	}
	return nil
}

// Register adds a subcommand to the root command.
// This function is called by subcommand packages during their init() functions
// to register themselves with the root command.
//
// Parameters:
//   - cmd: The Cobra command to register as a subcommand
func Register(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// GetRootCmd returns the root command instance.
// This is primarily useful for testing, allowing test code to access
// the root command structure.
//
// Returns the root Cobra command instance.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute executes the root command and handles errors.
// It is the main entry point for the CLI application and should be called
// from the main package. On failure, it prints the error as one line to
// stderr and exits with code 1; Cobra's own error printing is silenced in
// init.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.SetVersionTemplate(fmt.Sprintf("fscontext %s (%s) %s\n", version.VERSION, version.COMMIT, version.DATE))

	rootCmd.SetHelpTemplate(`{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}
{{end}}{{if or .Runnable .HasSubCommands}}{{if .Runnable}}
Usage:
{{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set the logging level (debug, info, warn, error). Default: warn (only warnings and errors)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Set the logging format (text, json). Default: text")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "stdout", "Set the log output destination (stdout or a filename). Default: stdout")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Enable verbose output: -v for info level, -vv for debug level")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output (equivalent to --log-level=error)")
	rootCmd.PersistentFlags().StringArrayVar(&roots, "root", nil, "Allowed root directory; may be repeated to permit multiple roots")
	rootCmd.PersistentFlags().BoolVar(&allowCwd, "allow-cwd", false, "Permit the current working directory as an implicit allowed root")
}
