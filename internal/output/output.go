package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/internal/usage"
)

// Header identifies the run that produced a report.
type Header struct {
	RunID   string    `json:"run_id" yaml:"run_id"`
	Command string    `json:"command" yaml:"command"`
	Roots   []string  `json:"roots" yaml:"roots"`
	Started time.Time `json:"started" yaml:"started"`
}

// Writer renders the results of one command.
type Writer interface {
	Records(h Header, records []scanner.Record) error
	Usage(h Header, report usage.Report) error
	Checksums(h Header, algorithm string, records []scanner.Record) error
}

// New returns the writer for format, one of config.OutputFormats.
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case "text", "":
		return &textWriter{w: w}, nil
	case "table":
		return &tableWriter{w: w}, nil
	case "json":
		return &docWriter{encode: func(v any) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}}, nil
	case "yaml":
		return &docWriter{encode: func(v any) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		}}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// entry is the serialized form of a scanner.Record.
type entry struct {
	Path    string     `json:"path" yaml:"path"`
	Level   int        `json:"level" yaml:"level"`
	Info    string     `json:"info" yaml:"info"`
	Size    *int64     `json:"size,omitempty" yaml:"size,omitempty"`
	Mode    string     `json:"mode,omitempty" yaml:"mode,omitempty"`
	ModTime *time.Time `json:"mtime,omitempty" yaml:"mtime,omitempty"`
	Digest  string     `json:"digest,omitempty" yaml:"digest,omitempty"`
	Error   string     `json:"error,omitempty" yaml:"error,omitempty"`
}

func toEntry(r scanner.Record) entry {
	e := entry{Path: r.Path, Level: r.Level, Info: r.Info.String(), Digest: r.Digest}
	if r.HasStat {
		size, mtime := r.Size, r.ModTime
		e.Size = &size
		e.Mode = r.Mode.String()
		e.ModTime = &mtime
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}

type recordsDoc struct {
	Header  `json:",inline" yaml:",inline"`
	Entries []entry `json:"entries" yaml:"entries"`
}

type usageDoc struct {
	Header `json:",inline" yaml:",inline"`
	usage.Report `json:",inline" yaml:",inline"`
}

type checksum struct {
	Path   string `json:"path" yaml:"path"`
	Digest string `json:"digest" yaml:"digest"`
}

type checksumsDoc struct {
	Header    `json:",inline" yaml:",inline"`
	Algorithm string     `json:"algorithm" yaml:"algorithm"`
	Files     []checksum `json:"files" yaml:"files"`
}

// docWriter serializes whole reports with a structured encoder.
type docWriter struct {
	encode func(v any) error
}

func (d *docWriter) Records(h Header, records []scanner.Record) error {
	doc := recordsDoc{Header: h, Entries: make([]entry, 0, len(records))}
	for _, r := range records {
		doc.Entries = append(doc.Entries, toEntry(r))
	}
	return d.encode(doc)
}

func (d *docWriter) Usage(h Header, report usage.Report) error {
	if report.Rows == nil {
		report.Rows = []usage.Row{}
	}
	return d.encode(usageDoc{Header: h, Report: report})
}

func (d *docWriter) Checksums(h Header, algorithm string, records []scanner.Record) error {
	doc := checksumsDoc{Header: h, Algorithm: algorithm, Files: []checksum{}}
	for _, r := range records {
		if r.Digest != "" {
			doc.Files = append(doc.Files, checksum{Path: r.Path, Digest: r.Digest})
		}
	}
	return d.encode(doc)
}

// textWriter prints one line per item in the style of find, du and sha256sum.
type textWriter struct {
	w io.Writer
}

func (t *textWriter) Records(_ Header, records []scanner.Record) error {
	for _, r := range records {
		line := fmt.Sprintf("%-6s %s", r.Info, r.Path)
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		if _, err := fmt.Fprintln(t.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (t *textWriter) Usage(_ Header, report usage.Report) error {
	for _, row := range report.Rows {
		if _, err := fmt.Fprintf(t.w, "%d\t%s\n", row.Size, row.Path); err != nil {
			return err
		}
	}
	if len(report.Rows) > 1 {
		_, err := fmt.Fprintf(t.w, "%d\ttotal\n", report.Total)
		return err
	}
	return nil
}

func (t *textWriter) Checksums(_ Header, _ string, records []scanner.Record) error {
	for _, r := range records {
		if r.Digest == "" {
			continue
		}
		if _, err := fmt.Fprintf(t.w, "%s  %s\n", r.Digest, r.Path); err != nil {
			return err
		}
	}
	return nil
}

// tableWriter renders aligned tables under a one-line run caption.
type tableWriter struct {
	w io.Writer
}

func (t *tableWriter) caption(h Header) error {
	_, err := fmt.Fprintf(t.w, "%s run %s started %s\n", h.Command, h.RunID, h.Started.Format(time.RFC3339))
	return err
}

func (t *tableWriter) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(t.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func (t *tableWriter) Records(h Header, records []scanner.Record) error {
	if err := t.caption(h); err != nil {
		return err
	}
	table := t.newTable("Info", "Path", "Size", "Mode", "Modified")
	for _, r := range records {
		row := []string{r.Info.String(), r.Path, "", "", ""}
		if r.HasStat {
			row[2] = strconv.FormatInt(r.Size, 10)
			row[3] = r.Mode.String()
			row[4] = r.ModTime.Format(time.DateTime)
		}
		if r.Err != nil {
			row[4] = r.Err.Error()
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func (t *tableWriter) Usage(h Header, report usage.Report) error {
	if err := t.caption(h); err != nil {
		return err
	}
	table := t.newTable("Size", "Path")
	for _, row := range report.Rows {
		table.Append([]string{strconv.FormatInt(row.Size, 10), row.Path})
	}
	table.SetFooter([]string{strconv.FormatInt(report.Total, 10), "total"})
	table.Render()
	return nil
}

func (t *tableWriter) Checksums(h Header, algorithm string, records []scanner.Record) error {
	if err := t.caption(h); err != nil {
		return err
	}
	table := t.newTable(algorithm, "Path")
	for _, r := range records {
		if r.Digest != "" {
			table.Append([]string{r.Digest, r.Path})
		}
	}
	table.Render()
	return nil
}
