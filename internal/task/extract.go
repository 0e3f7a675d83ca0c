package task

import (
	"errors"
	"strings"
)

// ContentTypeRaw marks outputs whose content carries an inline answer.
const ContentTypeRaw = "raw"

// ErrNoOutput is returned when a succeeded record yields no result.
var ErrNoOutput = errors.New("No output found in task result")

var errNoAnswer = errors.New("no answer")

// Extract returns the single result value of a succeeded record.
//
// Outputs are scanned in order. For each item, a raw answer wins over a URL;
// the first item that offers either ends the scan. An empty match, or no
// match at all, falls back to DebugOutput.
func Extract(rec Record) (string, error) {
	result := ""
	for _, out := range rec.Outputs {
		if out.ContentType == ContentTypeRaw {
			if a, ok := out.Answer(); ok {
				result = a.String()
				break
			}
		}
		if out.URL != "" {
			result = out.URL
			break
		}
	}

	if result == "" && rec.DebugOutput != "" {
		result = rec.DebugOutput
	}
	if result == "" {
		return "", ErrNoOutput
	}
	return result, nil
}

func joinChunks(chunks []string) string {
	return strings.Join(chunks, "\n\n")
}
