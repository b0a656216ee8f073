package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a .spool file's structural invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		policy := spool.Lenient
		if strict {
			policy = spool.Strict
		}
		session, err := spool.Read(data, policy)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		violations := spool.Validate(session)
		if len(violations) == 0 {
			fmt.Println("OK")
			return nil
		}

		for _, v := range violations {
			fmt.Fprintln(os.Stderr, v.Error())
		}
		if !spool.OK(violations) {
			os.Exit(1)
		}
		return nil
	},
}
