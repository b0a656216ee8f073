// Package commands provides the CLI commands for the spool tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool/internal/config"
	"github.com/spoolformat/spool/internal/filestore"
	"github.com/spoolformat/spool/internal/logging"
	"github.com/spoolformat/spool/internal/redact"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags.
var (
	printLogs bool
	logLevel  string
	logFile   bool
	strict    bool
)

// cfg is the merged global/project configuration, loaded once in
// PersistentPreRun and consulted by subcommands for redaction rule
// overrides and playback defaults. Its strict-reading default is used
// only by validate; the other subcommands always read leniently.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "spool",
	Short: "spool - read, validate, redact, and play back AI agent session recordings",
	Long: `spool works with .spool session recordings: newline-delimited JSON
files where each line is one typed entry in an AI agent's transcript.

Run 'spool validate <file>' to check a recording's structural
invariants, 'spool redact <file>' to scrub detected secrets, or
'spool play <file>' to drive it through the terminal.

A file argument may be a filesystem path, "-" for stdin, or a bare
name, which is resolved against the session store under spool's XDG
data directory (see 'spool sessions').`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logCfg := logging.Config{
			Level:     logging.ParseLevel(logLevel),
			Output:    os.Stderr,
			Pretty:    printLogs,
			LogToFile: logFile,
		}
		if !printLogs && !logFile {
			logCfg.Level = logging.FatalLevel
		}
		logging.Init(logCfg)

		if logFile {
			logging.Info().
				Str("version", Version).
				Str("logFile", logging.GetLogFilePath()).
				Msg("spool started with file logging")
		}

		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		loaded, err := config.Load(wd)
		if err != nil {
			logging.Warn().Err(err).Msg("falling back to default configuration")
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		if err := config.GetPaths().EnsurePaths(); err != nil {
			logging.Warn().Err(err).Msg("could not create spool's XDG directories")
		}

		if !cmd.Flags().Changed("strict") {
			strict = cfg.IsStrict()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Write logs to a timestamped file under spool's state directory")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", true, "validate: abort on the first malformed or schema-invalid line instead of skipping it; other commands always skip such lines (default taken from config when not set)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("spool %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(redactCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(convertCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// sessionStore is the named-session store rooted at spool's own data
// directory, resolved through internal/config's XDG path layout.
func sessionStore() *filestore.Store {
	return filestore.New(config.GetPaths().SessionsPath())
}

// looksLikePath reports whether ref names a filesystem location (it
// contains a path separator or a file extension) as opposed to a bare
// session name meant to be resolved against sessionStore.
func looksLikePath(ref string) bool {
	return strings.ContainsAny(ref, "/\\") || filepath.Ext(ref) != ""
}

// readFile reads ref: stdin if ref is "-", the named file if ref looks
// like a path, or a named entry from the session store otherwise.
func readFile(ref string) ([]byte, error) {
	if ref == "-" {
		return io.ReadAll(os.Stdin)
	}
	if looksLikePath(ref) {
		return os.ReadFile(ref)
	}
	data, err := sessionStore().Load(ref)
	if errors.Is(err, filestore.ErrNotFound) {
		return os.ReadFile(ref)
	}
	return data, err
}

// writeOutput writes data to stdout if ref is empty or "-", to the
// named file if ref looks like a path, or atomically (with locking)
// into the session store otherwise.
func writeOutput(ref string, data []byte) error {
	if ref == "" || ref == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if looksLikePath(ref) {
		return os.WriteFile(ref, data, 0644)
	}
	return sessionStore().Save(ref, data)
}

// scrubber builds a redact.Scrubber over the effective rule set: the
// format's fixed categories, minus any the loaded config disables,
// plus any extra patterns it adds.
func scrubber() *redact.Scrubber {
	return redact.NewScrubberWithRules(cfg.Rules())
}
