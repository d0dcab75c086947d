package parse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ParseSession reads a transcript file line by line and normalizes it into
// events. Malformed JSON lines are counted in Outcome.Skipped and never abort
// the scan; I/O errors are fatal. In detailed mode operational records and
// thinking/tool sub-blocks are included; otherwise only visible dialog text
// survives.
func ParseSession(path string, detailed bool) (*Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}
	defer f.Close()

	out := &Outcome{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if !json.Valid(line) {
			out.Skipped++
			continue
		}
		var rec rawRecord
		// Valid JSON that is not an object (bare scalar/array line) leaves
		// the record zero-valued and falls through as type "unknown".
		_ = json.Unmarshal(line, &rec)

		recordType := rec.Type
		if recordType == "" {
			recordType = "unknown"
		}

		switch recordType {
		case "user", "assistant":
			text := extractMessageText(rec.Message, detailed)
			if strings.TrimSpace(text) == "" {
				continue
			}
			out.Events = append(out.Events, NormalizedEvent{
				Role:       recordType,
				SourceType: recordType,
				Timestamp:  rec.Timestamp,
				Content:    text,
				Line:       lineNum,
			})
		case "system", "progress", "queue-operation", "file-history-snapshot":
			if !detailed {
				continue
			}
			out.Events = append(out.Events, NormalizedEvent{
				Role:       recordType,
				SourceType: recordType,
				Timestamp:  rec.Timestamp,
				Content:    summarizeNonDialog(recordType, &rec, line),
				Line:       lineNum,
			})
		default:
			if !detailed {
				continue
			}
			out.Events = append(out.Events, NormalizedEvent{
				Role:       recordType,
				SourceType: recordType,
				Timestamp:  rec.Timestamp,
				Content:    truncateRawJSON(line, UnknownRecordCap),
				Line:       lineNum,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}
	return out, nil
}

func extractMessageText(msg json.RawMessage, detailed bool) string {
	if len(msg) == 0 {
		return ""
	}
	var m rawMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return ""
	}
	if len(m.Content) == 0 {
		return ""
	}
	return extractContentText(m.Content, detailed)
}

// extractContentText flattens a message content value. Content is a plain
// string, an array of typed blocks, or some other JSON value rendered as
// bounded JSON.
func extractContentText(raw json.RawMessage, detailed bool) string {
	// A literal null would no-op the string unmarshal below and read as an
	// empty string; it is an "other JSON value" and renders as such.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return truncateRawJSON(raw, ValueCap)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return truncateRawJSON(raw, ValueCap)
	}

	var parts []string
	for _, item := range items {
		// degenerate legacy shape: a bare string element
		var lit string
		if err := json.Unmarshal(item, &lit); err == nil {
			parts = append(parts, lit)
			continue
		}
		var block contentBlock
		if err := json.Unmarshal(item, &block); err != nil {
			continue
		}
		switch blockKindOf(block.Type) {
		case BlockText:
			parts = append(parts, block.Text)
		case BlockThinking:
			if detailed {
				parts = append(parts, "[thinking]\n"+block.Thinking)
			}
		case BlockToolUse:
			if detailed {
				name := block.Name
				if name == "" {
					name = "unknown"
				}
				parts = append(parts, "[tool_use] "+name+"\n"+prettyRawJSON(block.Input))
			}
		case BlockToolResult:
			if detailed {
				id := block.ToolUseID
				if id == "" {
					id = "unknown"
				}
				parts = append(parts, "[tool_result] "+id+"\n"+truncateRawJSON(block.Content, ValueCap))
			}
		case BlockImage:
			if detailed {
				parts = append(parts, "[image omitted]")
			}
		case BlockDocument:
			if detailed {
				parts = append(parts, "[document omitted]")
			}
		case BlockUnknown:
			// not an error, just nothing to surface
		}
	}
	return strings.Join(parts, "\n")
}

// summarizeNonDialog renders a one-line description of an operational record.
func summarizeNonDialog(recordType string, rec *rawRecord, line []byte) string {
	switch recordType {
	case "progress":
		var data progressData
		_ = json.Unmarshal(rec.Data, &data)
		if data.Type == "" {
			data.Type = "unknown"
		}
		s := "progress:" + data.Type
		if data.HookName != "" {
			s += " hook=" + data.HookName
		}
		if data.Command != "" {
			s += " cmd=" + Ellipsize(data.Command, CommandCap)
		}
		return s
	case "system":
		subtype := rec.Subtype
		if subtype == "" {
			subtype = "unknown"
		}
		return "system:" + subtype
	case "queue-operation":
		op := rec.Operation
		if op == "" {
			op = "unknown"
		}
		return "queue-operation:" + op
	case "file-history-snapshot":
		return "file-history-snapshot"
	default:
		return truncateRawJSON(line, NonDialogCap)
	}
}

// SummarizeFile tallies record kinds for one session and optionally captures
// a cleaned preview of the first user message. Malformed lines are skipped.
func SummarizeFile(path string, withPreview bool) (Summary, error) {
	var sum Summary

	f, err := os.Open(path)
	if err != nil {
		return sum, fmt.Errorf("open session %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		var rec rawRecord
		_ = json.Unmarshal(line, &rec)

		switch rec.Type {
		case "user":
			sum.UserMessages++
			if withPreview && sum.Preview == "" {
				if text := extractMessageText(rec.Message, false); strings.TrimSpace(text) != "" {
					sum.Preview = CleanPreview(text)
				}
			}
		case "assistant":
			sum.AssistantMessages++
		default:
			sum.OtherRecords++
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("read session %s: %w", path, err)
	}
	return sum, nil
}
