package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

func statsSession(t *testing.T, name string, lines ...string) scan.Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return scan.Session{ID: name, Path: path}
}

func findCount(t *testing.T, table []Count, name string) uint64 {
	t.Helper()
	for _, c := range table {
		if c.Name == name {
			return c.Count
		}
	}
	t.Fatalf("entry %q not in table %v", name, table)
	return 0
}

func TestAggregate(t *testing.T) {
	sessions := []scan.Session{
		statsSession(t, "a",
			`{"type":"user","message":{"content":[{"type":"text","text":"q"}]}}`,
			`{"type":"assistant","message":{"model":"opus-x","content":[{"type":"thinking","thinking":"t"},{"type":"text","text":"a"}]}}`,
			`{"type":"progress","data":{}}`,
			`{"no_type":true}`,
			`garbage line`,
		),
		statsSession(t, "b",
			`{"type":"assistant","message":{"model":"opus-x","content":[{"type":"tool_use","name":"n","input":{}}]}}`,
			`{"type":"assistant","message":{"model":"haiku-y","content":"plain"}}`,
		),
	}

	report, err := Aggregate(sessions, 20)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sessions)
	assert.Equal(t, uint64(6), report.TotalRecords)
	assert.Equal(t, uint64(1), report.ParseErrors)

	assert.Equal(t, uint64(3), findCount(t, report.RecordTypes, "assistant"))
	assert.Equal(t, uint64(1), findCount(t, report.RecordTypes, "user"))
	assert.Equal(t, uint64(1), findCount(t, report.RecordTypes, "progress"))
	assert.Equal(t, uint64(1), findCount(t, report.RecordTypes, "<missing>"))

	assert.Equal(t, uint64(2), findCount(t, report.ContentBlockTypes, "text"))
	assert.Equal(t, uint64(1), findCount(t, report.ContentBlockTypes, "thinking"))
	assert.Equal(t, uint64(1), findCount(t, report.ContentBlockTypes, "tool_use"))

	assert.Equal(t, uint64(2), findCount(t, report.Models, "opus-x"))
	assert.Equal(t, uint64(1), findCount(t, report.Models, "haiku-y"))
}

func TestAggregateModelsOnlyFromAssistantRecords(t *testing.T) {
	sessions := []scan.Session{
		statsSession(t, "a",
			`{"type":"user","message":{"model":"should-not-count","content":"q"}}`,
		),
	}

	report, err := Aggregate(sessions, 20)
	require.NoError(t, err)
	assert.Empty(t, report.Models)
}

func TestAggregateTopNOrdering(t *testing.T) {
	sessions := []scan.Session{
		statsSession(t, "a",
			`{"type":"common"}`,
			`{"type":"common"}`,
			`{"type":"common"}`,
			`{"type":"alpha"}`,
			`{"type":"beta"}`,
			`{"type":"rare"}`,
		),
	}

	report, err := Aggregate(sessions, 2)
	require.NoError(t, err)
	require.Len(t, report.RecordTypes, 2)
	assert.Equal(t, Count{Name: "common", Count: 3}, report.RecordTypes[0])
	// singleton tie resolves alphabetically
	assert.Equal(t, Count{Name: "alpha", Count: 1}, report.RecordTypes[1])
	// truncation never touches the totals
	assert.Equal(t, uint64(6), report.TotalRecords)
}

func TestAggregateRejectsNonPositiveTop(t *testing.T) {
	_, err := Aggregate(nil, 0)
	require.Error(t, err)
	_, err = Aggregate(nil, -1)
	require.Error(t, err)
}

func TestAggregateEmptyCorpus(t *testing.T) {
	report, err := Aggregate(nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sessions)
	assert.Equal(t, uint64(0), report.TotalRecords)
	assert.Empty(t, report.RecordTypes)
}

func TestAggregateUnreadableSession(t *testing.T) {
	sessions := []scan.Session{{ID: "gone", Path: filepath.Join(t.TempDir(), "gone.jsonl")}}
	_, err := Aggregate(sessions, 10)
	require.Error(t, err)
}
