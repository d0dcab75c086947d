package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

func checkByName(t *testing.T, checks []Check, name string) Check {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing from %v", name, checks)
	return Check{}
}

func TestRunHealthy(t *testing.T) {
	claudeDir := t.TempDir()
	projDir := filepath.Join(claudeDir, "proj")
	require.NoError(t, os.MkdirAll(projDir, 0o755))
	body := `{"type":"user","message":{"content":"hello"}}` + "\n" +
		`{"type":"assistant","message":{"content":[{"type":"text","text":"hi"}]}}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "aaaa.jsonl"), []byte(body), 0o644))

	checks := Run(Options{
		ClaudeDir:   claudeDir,
		SampleFiles: 5,
		OutputDir:   filepath.Join(t.TempDir(), "exports"),
	})
	require.Len(t, checks, 5)
	for _, c := range checks {
		assert.True(t, c.OK, "check %s failed: %s", c.Name, c.Details)
	}
	assert.Equal(t, "found 1", checkByName(t, checks, "jsonl_files_found").Details)
	assert.Equal(t, "records=2 parse_errors=0", checkByName(t, checks, "sample_parse").Details)
}

func TestRunMissingClaudeDir(t *testing.T) {
	checks := Run(Options{
		ClaudeDir:   filepath.Join(t.TempDir(), "missing"),
		SampleFiles: 5,
		OutputDir:   t.TempDir(),
	})

	assert.False(t, checkByName(t, checks, "claude_dir_exists").OK)
	assert.False(t, checkByName(t, checks, "claude_dir_readable").OK)
	assert.False(t, checkByName(t, checks, "jsonl_files_found").OK)
	assert.False(t, checkByName(t, checks, "sample_parse").OK)
	assert.True(t, checkByName(t, checks, "output_dir_writable").OK)
}

func TestRunReportsParseErrors(t *testing.T) {
	claudeDir := t.TempDir()
	projDir := filepath.Join(claudeDir, "proj")
	require.NoError(t, os.MkdirAll(projDir, 0o755))
	body := `{"type":"user"}` + "\n" + `not json` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "bbbb.jsonl"), []byte(body), 0o644))

	checks := Run(Options{ClaudeDir: claudeDir, SampleFiles: 5, OutputDir: t.TempDir()})

	c := checkByName(t, checks, "sample_parse")
	assert.False(t, c.OK)
	assert.Equal(t, "records=2 parse_errors=1", c.Details)
}

func TestRunSampleLimit(t *testing.T) {
	claudeDir := t.TempDir()
	projDir := filepath.Join(claudeDir, "proj")
	require.NoError(t, os.MkdirAll(projDir, 0o755))
	for _, name := range []string{"a.jsonl", "b.jsonl", "c.jsonl"} {
		require.NoError(t, os.WriteFile(filepath.Join(projDir, name), []byte(`{"type":"user"}`), 0o644))
	}

	checks := Run(Options{
		ClaudeDir:   claudeDir,
		Window:      scan.TimeWindow{},
		SampleFiles: 2,
		OutputDir:   t.TempDir(),
	})

	assert.Equal(t, "found 3", checkByName(t, checks, "jsonl_files_found").Details)
	assert.Equal(t, "records=2 parse_errors=0", checkByName(t, checks, "sample_parse").Details)
}

func TestOutputDirCreatedOnDemand(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "deep", "nested", "exports")
	checks := Run(Options{ClaudeDir: t.TempDir(), SampleFiles: 1, OutputDir: outDir})

	assert.True(t, checkByName(t, checks, "output_dir_writable").OK)
	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	// the probe file is cleaned up
	_, err = os.Stat(filepath.Join(outDir, ".cc-convo-write-test"))
	assert.True(t, os.IsNotExist(err))
}
