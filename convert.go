package spool

import (
	"fmt"

	"github.com/spoolformat/spool/internal/adapter"
	_ "github.com/spoolformat/spool/internal/adapter/claude"
	_ "github.com/spoolformat/spool/internal/adapter/codex"
	"github.com/spoolformat/spool/internal/specerr"
	"github.com/spoolformat/spool/pkg/types"
)

// Convert detects the vendor transcript format of data and converts
// it into a Session. It is not one of the format's core operations,
// but the natural entry point into internal/adapter for hosts that
// need to ingest a vendor log rather than read a .spool file directly.
func Convert(data []byte) (*types.Session, error) {
	a := adapter.Detect(data)
	if a == nil {
		return nil, specerr.New(specerr.KindNoRecognizableLines, "no registered adapter recognized this input")
	}

	session, err := a.Convert(data)
	if err != nil {
		return nil, fmt.Errorf("spool: %s: %w", a.Name(), err)
	}
	return session, nil
}
