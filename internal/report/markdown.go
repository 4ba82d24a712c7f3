package report

import (
	"io"
	"strconv"

	"github.com/nao1215/doccano2spacy/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, suitable for
// pull request comments and CI job summaries.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ValidationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs a table with one row per report and a chart of
// the verdicts.
func (w *MarkdownWriter) WriteSummary(reports []*model.ValidationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Batch Validation Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		rows = append(rows, []string{
			"`" + r.Path + "`",
			string(r.Schema),
			w.getStatusText(r),
			strconv.Itoa(r.Records),
			strconv.Itoa(r.CountBySeverity(model.SeverityError)),
			strconv.Itoa(r.CountBySeverity(model.SeverityWarning)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Schema", "Status", "Records", "Errors", "Warnings"},
		Rows:   rows,
	})
	md.PlainText("")

	c := countReports(reports)
	if c.Files > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Validation Results"),
			piechart.WithShowData(true),
		)
		if c.Valid > 0 {
			chart.LabelAndIntValue("Valid", uint64(c.Valid))
		}
		if c.Invalid > 0 {
			chart.LabelAndIntValue("Invalid", uint64(c.Invalid))
		}
		if c.Errored > 0 {
			chart.LabelAndIntValue("Failed", uint64(c.Errored))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case c.Errored > 0:
		md.Cautionf("%d of %d file(s) could not be processed.", c.Errored, c.Files)
	case c.Invalid > 0:
		md.Warningf("%d of %d file(s) failed validation.", c.Invalid, c.Files)
	default:
		md.Tip("All files passed validation.")
	}
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with input information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ValidationReport) {
	md.H1("Validation Report")
	md.PlainText("")

	rows := [][]string{
		{"File", "`" + report.Path + "`"},
	}
	if report.Reference != "" {
		rows = append(rows, []string{"Reference", "`" + report.Reference + "`"})
	}
	rows = append(rows,
		[]string{"Schema", string(report.Schema)},
		[]string{"Shape Mode", report.Mode.String()},
		[]string{"Size", sizeText(report)},
	)
	if report.Digest != "" {
		rows = append(rows, []string{"BLAKE3", "`" + truncateString(report.Digest, 19) + "`"})
	}
	rows = append(rows,
		[]string{"Checked At", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Status", w.getStatusText(report)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ValidationReport) string {
	switch status(report) {
	case StatusError:
		return "❌ Error - " + report.ErrorMessage
	case StatusInvalid:
		return "⚠️ Invalid"
	default:
		return "✅ Valid"
	}
}

// writeSummary writes the record counts and severity summary.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ValidationReport) {
	md.H2("Summary")
	md.PlainText("")

	errCount := report.CountBySeverity(model.SeverityError)
	warnings := report.CountBySeverity(model.SeverityWarning)
	infos := report.CountBySeverity(model.SeverityInfo)

	md.Table(markdown.TableSet{
		Header: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Lines", strconv.Itoa(report.Lines)},
			{"Decoded Records", strconv.Itoa(report.Records)},
			{"Constructed Entries", strconv.Itoa(report.Constructed)},
			{"Shape Matched", strconv.Itoa(report.ShapeMatched)},
			{"Dataset Match", strconv.FormatBool(report.DatasetMatch)},
			{"🔴 Errors", strconv.Itoa(errCount)},
			{"🟡 Warnings", strconv.Itoa(warnings)},
			{"⚪ Info", strconv.Itoa(infos)},
		},
	})
	md.PlainText("")

	if report.HasFindings() {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Finding Severity Distribution"),
			piechart.WithShowData(true),
		)
		if errCount > 0 {
			chart.LabelAndIntValue("Error", uint64(errCount))
		}
		if warnings > 0 {
			chart.LabelAndIntValue("Warning", uint64(warnings))
		}
		if infos > 0 {
			chart.LabelAndIntValue("Info", uint64(infos))
		}
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case report.ErrorMessage != "":
		md.Cautionf("Processing stopped: %s", report.ErrorMessage)
	case errCount > 0:
		md.Cautionf("%d record(s) failed validation.", errCount)
	case warnings > 0:
		md.Warningf("%d warning(s) found. The file is accepted.", warnings)
	case infos > 0:
		md.Note("Only informational findings.")
	default:
		md.Tip("All records passed validation.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.ValidationReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityError, "### 🔴 Error"},
		{model.SeverityWarning, "### 🟡 Warning"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range severities {
		findings := report.FindingsBySeverity(sev.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings followed by collapsible hints.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			location(f),
			f.Title,
			orDash(f.Field),
			truncateString(orDash(f.Message), 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Location", "Title", "Field", "Message"},
		Rows:   rows,
	})
	md.PlainText("")

	seen := make(map[string]bool)
	for _, f := range findings {
		if f.Hint == "" || seen[f.Type] {
			continue
		}
		seen[f.Type] = true
		md.Details(f.Title, f.Hint)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [doccano2spacy](https://github.com/nao1215/doccano2spacy)*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString shortens s to at most maxLen runes, ending with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
