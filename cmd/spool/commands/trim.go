package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
)

var (
	trimStartMs int64
	trimEndMs   int64
	trimOutPath string
)

var trimCmd = &cobra.Command{
	Use:   "trim <file>",
	Short: "Keep only the entries within a time range",
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

		trimmed := spool.Trim(session, trimStartMs, trimEndMs)

		out, err := spool.Write(trimmed)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}

		return writeOutput(trimOutPath, out)
	},
}

func init() {
	trimCmd.Flags().Int64Var(&trimStartMs, "start", 0, "Start of the kept range, in milliseconds from session start")
	trimCmd.Flags().Int64Var(&trimEndMs, "end", 0, "End of the kept range, in milliseconds from session start")
	trimCmd.Flags().StringVarP(&trimOutPath, "output", "o", "", "Write the trimmed file here (path, \"-\" for stdout, or a session name)")
}
