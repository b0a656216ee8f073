package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
)

var (
	annotateTarget  string
	annotateContent string
	annotateStyle   string
	annotateOutPath string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Attach a note to an existing entry",
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

		var style *string
		if cmd.Flags().Changed("style") {
			style = &annotateStyle
		}

		annotated, err := spool.Annotate(session, annotateTarget, annotateContent, style)
		if err != nil {
			return fmt.Errorf("annotate: %w", err)
		}

		out, err := spool.Write(annotated)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}

		return writeOutput(annotateOutPath, out)
	},
}

func init() {
	annotateCmd.Flags().StringVar(&annotateTarget, "target", "", "ID of the entry to annotate (required)")
	annotateCmd.Flags().StringVar(&annotateContent, "content", "", "Note text (required)")
	annotateCmd.Flags().StringVar(&annotateStyle, "style", "", "Annotation style (highlight|comment|pin|warning|success)")
	annotateCmd.Flags().StringVarP(&annotateOutPath, "output", "o", "", "Write the annotated file here (path, \"-\" for stdout, or a session name)")
	annotateCmd.MarkFlagRequired("target")
	annotateCmd.MarkFlagRequired("content")
}
