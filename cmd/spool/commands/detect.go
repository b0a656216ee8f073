package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
	"github.com/spoolformat/spool/internal/logging"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "List secrets the redaction rules find in a .spool file",
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
		logging.SessionOutcome("detect", len(session.Entries), len(findings))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(findings)
	},
}
