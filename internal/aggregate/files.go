package aggregate

import (
	"encoding/json"
	"strings"

	"github.com/spoolformat/spool/pkg/types"
)

// FilesFromToolCall extracts the file paths a tool_call entry touched,
// per the files-modified extraction rules in the format spec: the
// editing tools' path argument, NotebookEdit's notebook_path, or
// (for Codex-style apply_patch) the paths named in the patch body.
func FilesFromToolCall(tc *types.ToolCall) []string {
	return filesFromToolCall(tc)
}

func filesFromToolCall(tc *types.ToolCall) []string {
	switch strings.ToLower(tc.Tool) {
	case "write", "edit", "write_file", "edit_file":
		if p, ok := tc.InputField("file_path"); ok && p != "" {
			return []string{p}
		}
		if p, ok := tc.InputField("path"); ok && p != "" {
			return []string{p}
		}
		return nil
	case "notebookedit":
		if p, ok := tc.InputField("notebook_path"); ok && p != "" {
			return []string{p}
		}
		return nil
	case "apply_patch":
		return filesFromPatchBody(patchBody(tc))
	default:
		return nil
	}
}

// patchBody recovers the raw patch text from apply_patch's input,
// whether it arrived as {"input": "..."} or a bare JSON string.
func patchBody(tc *types.ToolCall) string {
	if s, ok := tc.InputField("input"); ok {
		return s
	}
	if s, ok := tc.InputField("patch"); ok {
		return s
	}
	var s string
	if err := json.Unmarshal(tc.Input, &s); err == nil {
		return s
	}
	return string(tc.Input)
}

var patchPrefixes = []string{
	"*** Update File: ",
	"*** Add File: ",
	"*** Delete File: ",
}

// filesFromPatchBody scans an apply_patch body for its file-header
// lines and returns the named paths, in the order they appear.
func filesFromPatchBody(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, prefix := range patchPrefixes {
			if strings.HasPrefix(line, prefix) {
				path := strings.TrimSpace(strings.TrimPrefix(line, prefix))
				if path != "" {
					out = append(out, path)
				}
			}
		}
	}
	return out
}
