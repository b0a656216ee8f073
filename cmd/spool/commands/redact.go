package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
	"github.com/spoolformat/spool/internal/aggregate"
	"github.com/spoolformat/spool/internal/logging"
	"github.com/spoolformat/spool/internal/redact"
)

var redactOutPath string

var redactCmd = &cobra.Command{
	Use:   "redact <file>",
	Short: "Detect and destructively redact secrets in a .spool file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		session, err := spool.Read(data, spool.Lenient)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		findings := scrubber().Detect(session)
		redacted := redact.Apply(session, findings)
		aggregate.Recompute(redacted)
		logging.SessionOutcome("redact", len(session.Entries), len(findings))

		out, err := spool.Write(redacted)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}

		return writeOutput(redactOutPath, out)
	},
}

func init() {
	redactCmd.Flags().StringVarP(&redactOutPath, "output", "o", "", "Write the redacted file here (path, \"-\" for stdout, or a session name)")
}
