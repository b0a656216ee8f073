package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
)

var convertOutPath string

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a vendor transcript (Claude Code, Codex) into a .spool file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		session, err := spool.Convert(data)
		if err != nil {
			return fmt.Errorf("convert: %w", err)
		}

		out, err := spool.Write(session)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}

		return writeOutput(convertOutPath, out)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutPath, "output", "o", "", "Write the converted .spool file here (path, \"-\" for stdout, or a session name)")
}
