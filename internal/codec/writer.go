package codec

import (
	"bytes"

	"github.com/spoolformat/spool/pkg/types"
)

// Write serializes a session to the wire format: one LF-terminated
// JSON object per entry, no indentation, no BOM, in sequence order.
// Extras are merged back by Entry.MarshalJSON. Write never fails on a
// well-formed Session; the error return exists for entries whose
// payload can't be marshaled (e.g. a caller-constructed entry with an
// unmarshalable Input).
func Write(s *types.Session) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range s.Entries {
		data, err := e.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
