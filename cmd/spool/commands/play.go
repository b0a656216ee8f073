package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spoolformat/spool"
	"github.com/spoolformat/spool/internal/playback"
	"github.com/spoolformat/spool/pkg/types"
)

var playSpeed float64

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Replay a .spool file to the terminal on its recorded timeline",
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

		p := playback.New()
		p.Load(session)
		speed := playSpeed
		if !cmd.Flags().Changed("speed") && cfg != nil && cfg.Playback.DefaultSpeed > 0 {
			speed = cfg.Playback.DefaultSpeed
		}
		p.SetSpeed(speed)
		p.Play()

		renderer := newPlayRenderer()
		for _, e := range p.VisibleEntries() {
			renderer.render(e)
		}

		const tick = 50 * time.Millisecond
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for range ticker.C {
			events := p.Advance(tick.Milliseconds())
			for _, ev := range events {
				renderer.render(ev.Entry)
			}

			if p.State() == playback.Paused {
				break
			}
		}
		return nil
	},
}

func init() {
	playCmd.Flags().Float64Var(&playSpeed, "speed", 1, "Playback speed multiplier (0.25, 0.5, 1, 2, 4, 8, 16)")
}

// playRenderer prints each entry as it becomes visible, in the spirit
// of the teacher CLI's line-oriented color renderer: one colored label
// per entry kind, plain text beneath it.
type playRenderer struct {
	prompt   *color.Color
	thinking *color.Color
	response *color.Color
	tool     *color.Color
	errC     *color.Color
	dim      *color.Color
}

func newPlayRenderer() *playRenderer {
	return &playRenderer{
		prompt:   color.New(color.FgCyan, color.Bold),
		thinking: color.New(color.FgHiBlack, color.Italic),
		response: color.New(color.FgGreen, color.Bold),
		tool:     color.New(color.FgYellow),
		errC:     color.New(color.FgRed),
		dim:      color.New(color.FgHiBlack),
	}
}

func (r *playRenderer) render(e *types.Entry) {
	switch e.Type {
	case types.TagSession:
		h := e.Session
		r.dim.Printf("— session %s (%s) —\n", h.Agent, h.Version)
	case types.TagPrompt:
		fmt.Printf("%s %s\n", r.prompt.Sprint("you ›"), e.Prompt.Content)
	case types.TagThinking:
		r.thinking.Printf("… %s\n", e.Thinking.Content)
	case types.TagResponse:
		fmt.Printf("%s %s\n", r.response.Sprint("assistant ›"), e.Response.Content)
	case types.TagToolCall:
		r.tool.Printf("→ tool %s\n", e.ToolCall.Tool)
	case types.TagToolResult:
		if text, ok := e.ToolResult.OutputText(); ok {
			r.dim.Println(text)
		} else if e.ToolResult.HasError() {
			r.errC.Printf("  error: %s\n", *e.ToolResult.Error)
		}
	case types.TagError:
		r.errC.Printf("! %s: %s\n", e.Error.Code, e.Error.Message)
	case types.TagSubagentStart:
		r.dim.Printf("▸ subagent %s started\n", e.SubagentStart.Agent)
	case types.TagSubagentEnd:
		r.dim.Printf("◂ subagent ended (%s)\n", e.SubagentEnd.Status)
	case types.TagAnnotation:
		r.dim.Printf("# %s\n", e.Annotation.Content)
	case types.TagRedactionMarker:
		count := 0
		if e.RedactionMarker.Count != nil {
			count = *e.RedactionMarker.Count
		}
		r.dim.Printf("[redacted %d match(es): %s]\n", count, e.RedactionMarker.Reason)
	}
}
