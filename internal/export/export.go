package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/cc-convo/internal/parse"
	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

// Format is the export serialization target.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name from the CLI.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON, FormatHTML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (markdown, json, html)", s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "md"
	}
}

// Document is the unit the renderer serializes: one session's identity plus
// its full ordered event list. Built fresh per export, never mutated after.
type Document struct {
	SessionID    string                  `json:"session_id"`
	SessionShort string                  `json:"session_short"`
	Project      string                  `json:"project"`
	SourcePath   string                  `json:"source_path"`
	ModifiedISO  string                  `json:"modified_iso"`
	EventCount   int                     `json:"event_count"`
	Events       []parse.NormalizedEvent `json:"events"`
}

// Build assembles a Document from a session and its normalized events.
func Build(session *scan.Session, events []parse.NormalizedEvent) Document {
	return Document{
		SessionID:    session.ID,
		SessionShort: session.ShortID,
		Project:      session.Project,
		SourcePath:   session.Path,
		ModifiedISO:  session.ModifiedISO,
		EventCount:   len(events),
		Events:       events,
	}
}

// WriteSession writes one document to outputDir, named from the session's
// modification date and short id. Existing files are overwritten.
func WriteSession(outputDir string, doc Document, format Format) (string, error) {
	date, _, _ := strings.Cut(doc.ModifiedISO, "T")
	if date == "" {
		date = "unknown-date"
	}
	name := fmt.Sprintf("cc-convo-%s-%s.%s", date, doc.SessionShort, format.Ext())
	return writeFile(filepath.Join(outputDir, name), []Document{doc}, doc, format, false)
}

// WriteBundle writes all documents into a single file named from the current
// export-time date.
func WriteBundle(outputDir string, docs []Document, format Format) (string, error) {
	date := time.Now().UTC().Format("2006-01-02")
	name := fmt.Sprintf("cc-convo-bundle-%s.%s", date, format.Ext())
	return writeFile(filepath.Join(outputDir, name), docs, Document{}, format, true)
}

func writeFile(path string, docs []Document, single Document, format Format, bundle bool) (string, error) {
	var body []byte
	switch format {
	case FormatJSON:
		var (
			out []byte
			err error
		)
		if bundle {
			out, err = json.MarshalIndent(docs, "", "  ")
		} else {
			out, err = json.MarshalIndent(single, "", "  ")
		}
		if err != nil {
			return "", fmt.Errorf("marshal export: %w", err)
		}
		body = out
	case FormatHTML:
		body = []byte(RenderHTML(docs))
	default:
		body = []byte(RenderMarkdown(docs))
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write export %s: %w", path, err)
	}
	return path, nil
}

// RenderMarkdown serializes documents as markdown, separated by horizontal
// rules when more than one is present.
func RenderMarkdown(docs []Document) string {
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString("# cc-convo export\n\n")
		fmt.Fprintf(&b, "- Session: `%s`\n", doc.SessionID)
		fmt.Fprintf(&b, "- Project: `%s`\n", doc.Project)
		fmt.Fprintf(&b, "- Modified: `%s`\n", doc.ModifiedISO)
		fmt.Fprintf(&b, "- Source: `%s`\n", doc.SourcePath)
		fmt.Fprintf(&b, "- Events: `%d`\n\n", doc.EventCount)
		for _, event := range doc.Events {
			fmt.Fprintf(&b, "## [%s] %s\n\n", event.Role, timestampOrDash(event.Timestamp))
			b.WriteString(event.Content)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// htmlEscaper covers the five characters that can break out of markup or
// attribute context.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// RenderHTML serializes documents as a self-contained page, one card per
// session header and per event. All interpolated text is escaped.
func RenderHTML(docs []Document) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>cc-convo export</title>")
	b.WriteString("<style>body{font-family:ui-sans-serif,system-ui;margin:2rem;background:#f7f8fa;color:#1e2430} .card{background:#fff;border-radius:12px;padding:16px 20px;margin:0 0 16px 0;box-shadow:0 1px 2px rgba(0,0,0,.06)} .meta{color:#5c667a;font-size:.92rem} pre{white-space:pre-wrap;word-break:break-word;margin:0} h1,h2{margin:.2rem 0 .8rem} </style>")
	b.WriteString("</head><body><h1>cc-convo export</h1>")
	for _, doc := range docs {
		b.WriteString("<div class=\"card\">")
		fmt.Fprintf(&b,
			"<h2>%s</h2><div class=\"meta\">project=%s modified=%s source=%s events=%d</div>",
			htmlEscaper.Replace(doc.SessionID),
			htmlEscaper.Replace(doc.Project),
			htmlEscaper.Replace(doc.ModifiedISO),
			htmlEscaper.Replace(doc.SourcePath),
			doc.EventCount,
		)
		b.WriteString("</div>")
		for _, event := range doc.Events {
			b.WriteString("<div class=\"card\">")
			fmt.Fprintf(&b, "<h2>[%s] %s</h2><pre>%s</pre>",
				htmlEscaper.Replace(event.Role),
				htmlEscaper.Replace(timestampOrDash(event.Timestamp)),
				htmlEscaper.Replace(event.Content),
			)
			b.WriteString("</div>")
		}
	}
	b.WriteString("</body></html>")
	return b.String()
}

func timestampOrDash(ts string) string {
	if ts == "" {
		return "-"
	}
	return ts
}
