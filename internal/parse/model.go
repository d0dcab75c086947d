package parse

import "encoding/json"

// NormalizedEvent is one human-meaningful unit of conversation derived from a
// single transcript record. Content is never empty for an emitted event.
type NormalizedEvent struct {
	Role       string `json:"role"`
	SourceType string `json:"source_type"`
	Timestamp  string `json:"timestamp"`
	Content    string `json:"content"`
	Line       int    `json:"-"` // 1-based line number in the source file
}

// Outcome is the result of scanning one transcript file: the ordered events
// plus the count of lines that failed JSON parsing.
type Outcome struct {
	Events  []NormalizedEvent `json:"events"`
	Skipped int               `json:"parse_errors"`
}

// Summary holds per-session record tallies for session listings.
type Summary struct {
	UserMessages      int    `json:"user_messages"`
	AssistantMessages int    `json:"assistant_messages"`
	OtherRecords      int    `json:"other_records"`
	Preview           string `json:"preview,omitempty"`
}

// rawRecord is the typed view of one transcript line. Unknown top-level
// fields are ignored; absent fields stay zero-valued.
type rawRecord struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Subtype   string          `json:"subtype"`
	Operation string          `json:"operation"`
	Message   json.RawMessage `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type rawMessage struct {
	Content json.RawMessage `json:"content"`
	Model   string          `json:"model"`
}

type progressData struct {
	Type     string `json:"type"`
	HookName string `json:"hookName"`
	Command  string `json:"command"`
}

// BlockKind enumerates the recognized content-block variants so that
// handling a new variant is a compile-visible switch case, not a stray
// string comparison.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockThinking
	BlockToolUse
	BlockToolResult
	BlockImage
	BlockDocument
	BlockUnknown
)

func blockKindOf(t string) BlockKind {
	switch t {
	case "text":
		return BlockText
	case "thinking":
		return BlockThinking
	case "tool_use":
		return BlockToolUse
	case "tool_result":
		return BlockToolResult
	case "image":
		return BlockImage
	case "document":
		return BlockDocument
	default:
		return BlockUnknown
	}
}

type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}
