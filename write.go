package spool

import (
	"github.com/spoolformat/spool/internal/codec"
	"github.com/spoolformat/spool/pkg/types"
)

// Write serializes session as newline-delimited JSON, one entry per
// line, in order.
func Write(session *types.Session) ([]byte, error) {
	return codec.Write(session)
}
