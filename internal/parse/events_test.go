package parse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestParseSessionTerseExtractsTextOnly(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","timestamp":"2026-02-21T00:00:00Z","message":{"content":[{"type":"text","text":"hello user"}]}}`,
		`{"type":"assistant","timestamp":"2026-02-21T00:00:01Z","message":{"content":[{"type":"thinking","thinking":"private"},{"type":"tool_use","name":"x","input":{"a":1}},{"type":"text","text":"hello assistant"}]}}`,
		`{"type":"progress","timestamp":"2026-02-21T00:00:02Z","data":{"type":"tool","hookName":"h"}}`,
	)

	outcome, err := ParseSession(path, false)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Skipped)
	require.Len(t, outcome.Events, 2)

	assert.Equal(t, "user", outcome.Events[0].Role)
	assert.Equal(t, "hello user", outcome.Events[0].Content)
	assert.Equal(t, "2026-02-21T00:00:00Z", outcome.Events[0].Timestamp)
	assert.Equal(t, 1, outcome.Events[0].Line)

	assert.Equal(t, "assistant", outcome.Events[1].Role)
	assert.Equal(t, "hello assistant", outcome.Events[1].Content)
}

func TestParseSessionDetailedIncludesOperationalBlocks(t *testing.T) {
	path := writeSession(t,
		`{"type":"assistant","timestamp":"2026-02-21T00:00:01Z","message":{"content":[{"type":"thinking","thinking":"private"},{"type":"tool_use","name":"x","input":{"a":1}},{"type":"tool_result","tool_use_id":"abc","content":"done"},{"type":"text","text":"visible"}]}}`,
		`{"type":"progress","timestamp":"2026-02-21T00:00:02Z","data":{"type":"tool","hookName":"h","command":"make test"}}`,
		`{"type":"system","subtype":"init"}`,
		`{"type":"queue-operation","operation":"enqueue"}`,
		`{"type":"file-history-snapshot"}`,
	)

	outcome, err := ParseSession(path, true)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Skipped)
	require.Len(t, outcome.Events, 5)

	content := outcome.Events[0].Content
	assert.Contains(t, content, "[thinking]\nprivate")
	assert.Contains(t, content, "[tool_use] x")
	assert.Contains(t, content, "[tool_result] abc")
	assert.Contains(t, content, "visible")
	// block order is array order
	assert.Less(t, strings.Index(content, "[thinking]"), strings.Index(content, "[tool_use]"))
	assert.Less(t, strings.Index(content, "[tool_result]"), strings.Index(content, "visible"))

	assert.Equal(t, "progress:tool hook=h cmd=make test", outcome.Events[1].Content)
	assert.Equal(t, "system:init", outcome.Events[2].Content)
	assert.Equal(t, "queue-operation:enqueue", outcome.Events[3].Content)
	assert.Equal(t, "file-history-snapshot", outcome.Events[4].Content)
}

func TestParseSessionMalformedLineCounted(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":"first"}}`,
		`{not json`,
		`{"type":"user","message":{"content":"second"}}`,
	)

	outcome, err := ParseSession(path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Skipped)
	require.Len(t, outcome.Events, 2)
	assert.Equal(t, "first", outcome.Events[0].Content)
	assert.Equal(t, "second", outcome.Events[1].Content)
	assert.Equal(t, 3, outcome.Events[1].Line)
}

func TestParseSessionContentShapes(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":"plain string"}}`,
		`{"type":"user","message":{"content":["bare element",{"type":"text","text":"typed"}]}}`,
		`{"type":"user","message":{"content":{"odd":"shape"}}}`,
		`{"type":"user","message":{"content":[{"type":"mystery","text":"zzz"}]}}`,
	)

	outcome, err := ParseSession(path, false)
	require.NoError(t, err)
	require.Len(t, outcome.Events, 3)
	assert.Equal(t, "plain string", outcome.Events[0].Content)
	assert.Equal(t, "bare element\ntyped", outcome.Events[1].Content)
	assert.Equal(t, `{"odd":"shape"}`, outcome.Events[2].Content)
}

func TestParseSessionNullContentRendered(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","timestamp":"2026-02-21T00:00:00Z","message":{"content":null}}`,
	)

	outcome, err := ParseSession(path, false)
	require.NoError(t, err)
	require.Len(t, outcome.Events, 1)
	assert.Equal(t, "null", outcome.Events[0].Content)
	assert.Equal(t, "user", outcome.Events[0].Role)
}

func TestParseSessionEmptyTextBlockKeepsJoinShape(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":[{"type":"text","text":""},{"type":"text","text":"tail"}]}}`,
	)

	outcome, err := ParseSession(path, false)
	require.NoError(t, err)
	require.Len(t, outcome.Events, 1)
	// the empty block contributes an empty part, preserving the leading
	// newline in the join
	assert.Equal(t, "\ntail", outcome.Events[0].Content)
}

func TestParseSessionDropsEmptyContent(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":"   "}}`,
		`{"type":"user"}`,
		`{"type":"assistant","message":{"content":[{"type":"thinking","thinking":"hidden"}]}}`,
	)

	outcome, err := ParseSession(path, false)
	require.NoError(t, err)
	assert.Empty(t, outcome.Events)
	assert.Equal(t, 0, outcome.Skipped)
}

func TestParseSessionUnknownRecordTypes(t *testing.T) {
	path := writeSession(t,
		`{"type":"summary","summary":"a session"}`,
		`{"timestamp":"2026-02-21T00:00:00Z","payload":1}`,
	)

	terse, err := ParseSession(path, false)
	require.NoError(t, err)
	assert.Empty(t, terse.Events)

	detailed, err := ParseSession(path, true)
	require.NoError(t, err)
	require.Len(t, detailed.Events, 2)
	assert.Equal(t, "summary", detailed.Events[0].Role)
	assert.Contains(t, detailed.Events[0].Content, `"summary":"a session"`)
	assert.Equal(t, "unknown", detailed.Events[1].Role)
	assert.Equal(t, "2026-02-21T00:00:00Z", detailed.Events[1].Timestamp)
}

func TestParseSessionDetailPlaceholders(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":[{"type":"image","source":{}},{"type":"document","source":{}}]}}`,
	)

	outcome, err := ParseSession(path, true)
	require.NoError(t, err)
	require.Len(t, outcome.Events, 1)
	assert.Equal(t, "[image omitted]\n[document omitted]", outcome.Events[0].Content)
}

func TestParseSessionIdempotent(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","timestamp":"2026-02-21T00:00:00Z","message":{"content":"question"}}`,
		`not json at all`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"answer"}]}}`,
	)

	first, err := ParseSession(path, true)
	require.NoError(t, err)
	second, err := ParseSession(path, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseSessionDetailIsSuperset(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":"question"}}`,
		`{"type":"assistant","message":{"content":[{"type":"thinking","thinking":"hm"},{"type":"text","text":"answer"}]}}`,
		`{"type":"progress","data":{"type":"hook"}}`,
	)

	terse, err := ParseSession(path, false)
	require.NoError(t, err)
	detailed, err := ParseSession(path, true)
	require.NoError(t, err)

	// every terse dialog event's text survives somewhere in the detailed
	// event for the same source line
	for _, te := range terse.Events {
		found := false
		for _, de := range detailed.Events {
			if de.Line == te.Line {
				assert.Contains(t, de.Content, te.Content)
				found = true
			}
		}
		assert.True(t, found, "terse event at line %d missing from detailed parse", te.Line)
	}
}

func TestParseSessionMissingFile(t *testing.T) {
	_, err := ParseSession(filepath.Join(t.TempDir(), "nope.jsonl"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.jsonl")
}

func TestSummarizeFile(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","message":{"content":"first question with some length"}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"answer"}]}}`,
		`{"type":"user","message":{"content":"second"}}`,
		`{"type":"progress","data":{}}`,
		`{"type":"system","subtype":"init"}`,
		`broken`,
	)

	sum, err := SummarizeFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.UserMessages)
	assert.Equal(t, 1, sum.AssistantMessages)
	assert.Equal(t, 2, sum.OtherRecords)
	assert.Equal(t, "first question with some length", sum.Preview)

	noPreview, err := SummarizeFile(path, false)
	require.NoError(t, err)
	assert.Empty(t, noPreview.Preview)
}
