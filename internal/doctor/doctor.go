package doctor

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

const maxLineSize = 10 * 1024 * 1024

// Check is one self-check outcome.
type Check struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details"`
}

// Options control the self-check run.
type Options struct {
	ClaudeDir   string
	Window      scan.TimeWindow
	SampleFiles int
	OutputDir   string
}

// Run performs the environment checks: transcript dir presence and
// readability, discoverable sessions, a parse pass over a sample of files,
// and output directory writability. It never fails; failing checks are
// reported with OK=false.
func Run(opts Options) []Check {
	var checks []Check

	_, statErr := os.Stat(opts.ClaudeDir)
	checks = append(checks, Check{
		Name:    "claude_dir_exists",
		OK:      statErr == nil,
		Details: opts.ClaudeDir,
	})

	_, readErr := os.ReadDir(opts.ClaudeDir)
	checks = append(checks, Check{
		Name:    "claude_dir_readable",
		OK:      readErr == nil,
		Details: opts.ClaudeDir,
	})

	sessions, _ := scan.Discover(opts.ClaudeDir, opts.Window)
	checks = append(checks, Check{
		Name:    "jsonl_files_found",
		OK:      len(sessions) > 0,
		Details: fmt.Sprintf("found %d", len(sessions)),
	})

	sample := sessions
	if len(sample) > opts.SampleFiles {
		sample = sample[:opts.SampleFiles]
	}
	var records, parseErrors uint64
	for i := range sample {
		r, e := sampleParse(sample[i].Path)
		records += r
		parseErrors += e
	}
	checks = append(checks, Check{
		Name:    "sample_parse",
		OK:      records > 0 && parseErrors == 0,
		Details: fmt.Sprintf("records=%d parse_errors=%d", records, parseErrors),
	})

	checks = append(checks, Check{
		Name:    "output_dir_writable",
		OK:      outputDirWritable(opts.OutputDir) == nil,
		Details: opts.OutputDir,
	})

	return checks
}

func sampleParse(path string) (records, parseErrors uint64) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 1
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		records++
		if !json.Valid(line) {
			parseErrors++
		}
	}
	return records, parseErrors
}

// outputDirWritable creates the directory if needed and probes it with a
// throwaway file.
func outputDirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".cc-convo-write-test")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
