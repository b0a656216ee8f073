// Command spool is the CLI front end for the spool session-recording
// format: validating, redacting, trimming, annotating, converting
// vendor transcripts, and driving playback from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spoolformat/spool/cmd/spool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
