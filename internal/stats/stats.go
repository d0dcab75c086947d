package stats

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

const maxLineSize = 10 * 1024 * 1024

// Count is one frequency-table entry.
type Count struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

// Report aggregates record-type, content-block-type, and model frequencies
// across a session corpus.
type Report struct {
	Sessions          int     `json:"sessions"`
	TotalRecords      uint64  `json:"total_records"`
	ParseErrors       uint64  `json:"parse_errors"`
	RecordTypes       []Count `json:"record_types"`
	ContentBlockTypes []Count `json:"content_block_types"`
	Models            []Count `json:"models"`
}

type statsRecord struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

type statsMessage struct {
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
}

// Aggregate tallies frequencies directly from raw JSON lines, keeping each
// table to its top entries. The accumulator maps live and die inside this
// call.
func Aggregate(sessions []scan.Session, top int) (*Report, error) {
	if top <= 0 {
		return nil, fmt.Errorf("top must be > 0")
	}

	recordTypes := make(map[string]uint64)
	blockTypes := make(map[string]uint64)
	models := make(map[string]uint64)
	report := &Report{Sessions: len(sessions)}

	for i := range sessions {
		if err := tallyFile(sessions[i].Path, report, recordTypes, blockTypes, models); err != nil {
			return nil, err
		}
	}

	report.RecordTypes = topN(recordTypes, top)
	report.ContentBlockTypes = topN(blockTypes, top)
	report.Models = topN(models, top)
	return report, nil
}

func tallyFile(path string, report *Report, recordTypes, blockTypes, models map[string]uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open session %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			report.ParseErrors++
			continue
		}
		report.TotalRecords++

		var rec statsRecord
		_ = json.Unmarshal(line, &rec)

		recordType := rec.Type
		if recordType == "" {
			recordType = "<missing>"
		}
		recordTypes[recordType]++

		var msg statsMessage
		_ = json.Unmarshal(rec.Message, &msg)

		if rec.Type == "assistant" && msg.Model != "" {
			models[msg.Model]++
		}

		var blocks []json.RawMessage
		if err := json.Unmarshal(msg.Content, &blocks); err == nil {
			for _, b := range blocks {
				var tagged struct {
					Type string `json:"type"`
				}
				if err := json.Unmarshal(b, &tagged); err == nil && tagged.Type != "" {
					blockTypes[tagged.Type]++
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session %s: %w", path, err)
	}
	return nil
}

// topN orders by count descending, name ascending, keeping the first n.
func topN(m map[string]uint64, n int) []Count {
	out := make([]Count, 0, len(m))
	for name, count := range m {
		out = append(out, Count{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
