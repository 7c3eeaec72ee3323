// Package visualize renders the criteria graph in multiple output
// formats over a single stable snapshot shared by all renderers.
package visualize

import (
	"strconv"

	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// Format is a supported visualization output format. Rendering
// dispatches on this tag; unrecognized tags are rejected up front.
type Format int

const (
	FormatMermaid Format = iota
	FormatGraphviz
	FormatJSON
	FormatASCII
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatMermaid:
		return "mermaid"
	case FormatGraphviz:
		return "graphviz"
	case FormatJSON:
		return "json"
	case FormatASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

// ParseFormat validates a format string
func ParseFormat(s string) (Format, error) {
	switch s {
	case "mermaid":
		return FormatMermaid, nil
	case "graphviz", "dot":
		return FormatGraphviz, nil
	case "json":
		return FormatJSON, nil
	case "ascii", "text":
		return FormatASCII, nil
	default:
		return 0, errors.New(errors.ErrCodeUnsupportedFormat,
			"unsupported visualization format "+strconv.Quote(s)).
			WithSuggestion("use one of: mermaid, graphviz, json, ascii")
	}
}
