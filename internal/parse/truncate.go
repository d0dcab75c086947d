package parse

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Character caps applied to rendered values. Scattering these as literals is
// how they drift; keep every limit here.
const (
	maxLineSize = 10 * 1024 * 1024 // scanner buffer cap per line

	// CommandCap bounds hook commands in progress summaries.
	CommandCap = 120
	// PreviewCap bounds the cleaned first-message preview in listings.
	PreviewCap = 140
	// ValueCap bounds JSON renderings of tool results and odd content shapes.
	ValueCap = 1200
	// NonDialogCap bounds the fallback JSON rendering of operational records.
	NonDialogCap = 300
	// UnknownRecordCap bounds JSON renderings of unrecognized record types.
	UnknownRecordCap = 500
)

// Ellipsize bounds s to max characters, replacing the tail with "..." when
// it does not fit. Measured in runes so multi-byte text never splits.
func Ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := max - 3
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + "..."
}

// CleanPreview flattens newlines and bounds the result to PreviewCap.
func CleanPreview(s string) string {
	return Ellipsize(strings.TrimSpace(strings.ReplaceAll(s, "\n", " ")), PreviewCap)
}

// truncateRawJSON renders raw as compact JSON bounded to max characters.
func truncateRawJSON(raw json.RawMessage, max int) string {
	if len(raw) == 0 {
		return Ellipsize("null", max)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "<invalid-json>"
	}
	return Ellipsize(buf.String(), max)
}

// prettyRawJSON renders raw as indented JSON, falling back to "{}".
func prettyRawJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "{}"
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
