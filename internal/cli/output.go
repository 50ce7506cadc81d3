package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// field is one named value of a command result; order is preserved in text output.
type field struct {
	Key   string
	Value any
}

type result []field

func (r result) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// writeResult prints r as indented JSON or aligned "key: value" lines.
func writeResult(w io.Writer, format string, r result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	width := 0
	for _, f := range r {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	for _, f := range r {
		if _, err := fmt.Fprintf(w, "%-*s  %v\n", width+1, f.Key+":", f.Value); err != nil {
			return err
		}
	}
	return nil
}
