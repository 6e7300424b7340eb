package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs session reports in Markdown format.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full session report in Markdown format.
func (w *MarkdownWriter) Write(report *SessionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	for i := range report.Documents {
		w.writeDocument(md, &report.Documents[i])
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the session summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *SessionReport) {
	session := report.Session

	md.H1("Legal Document Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + session.URL + "`"},
			{"Session", session.ID},
			{"Requested", session.CreatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.statusText(report)},
			{"Documents", strconv.Itoa(session.DocumentCount)},
			{"Analyzed", strconv.Itoa(session.AnalyzedCount)},
		},
	})
	md.PlainText("")
}

// statusText renders the session outcome.
func (w *MarkdownWriter) statusText(report *SessionReport) string {
	session := report.Session
	switch {
	case session.ErrorMessage != "":
		return "❌ Failed - " + session.ErrorMessage
	case session.AnalyzedCount < session.DocumentCount:
		return "⚠️ Complete (some documents unanalyzed)"
	default:
		return "✅ Complete"
	}
}

// writeDocument writes one document section with its analysis.
func (w *MarkdownWriter) writeDocument(md *markdown.Markdown, doc *DocumentReport) {
	title := doc.Document.Title
	if title == "" {
		title = doc.Document.DocumentType.DisplayName()
	}

	md.H2(title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + doc.Document.URL + "`"},
			{"Type", doc.Document.DocumentType.DisplayName()},
			{"Words", strconv.Itoa(doc.Document.WordCount)},
		},
	})
	md.PlainText("")

	if doc.Analysis == nil {
		md.Blockquote("No analysis available for this document.")
		md.PlainText("")
		return
	}

	a := doc.Analysis

	md.H3("Summary")
	md.PlainText(a.SummaryShort)
	md.PlainText("")
	md.PlainText(a.SummaryLong)
	md.PlainText("")

	md.H3("Measurements")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Word count", formatMetric(a.Measurements.WordCount)},
			{"Sentence count", formatMetric(a.Measurements.SentenceCount)},
			{"Average words per sentence", formatMetric(a.Measurements.AverageWordsPerSentence)},
			{"Flesch reading ease", formatMetric(a.Measurements.FleschReadingEase)},
			{"Flesch-Kincaid grade", formatMetric(a.Measurements.FleschKincaidGrade)},
			{"Automated readability index", formatMetric(a.Measurements.AutomatedReadabilityIndex)},
			{"Sentiment score", formatMetric(a.Measurements.SentimentScore)},
			{"Keyword density", formatMetric(a.Measurements.KeywordDensity)},
			{"Legal clause count", formatMetric(a.Measurements.LegalClauseCount)},
			{"Risk indicator score", formatMetric(a.Measurements.RiskIndicatorScore)},
		},
	})
	md.PlainText("")

	if len(a.WordFrequency) > 0 {
		md.H3("Top Words")
		md.Table(markdown.TableSet{
			Header: []string{"Word", "Count"},
			Rows:   frequencyRows(a.WordFrequency),
		})
		md.PlainText("")
	}

	md.PlainTextf("Analyzed by %s.", cases.Title(language.English).String(a.Provider))
	md.PlainText("")
}

// formatMetric renders a measurement without trailing zero noise.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// frequencyRows renders the frequency map sorted by count descending,
// ties alphabetical, so the table is stable between runs.
func frequencyRows(freq map[string]int) [][]string {
	type entry struct {
		word  string
		count int
	}
	entries := make([]entry, 0, len(freq))
	for w, c := range freq {
		entries = append(entries, entry{w, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word < entries[j].word
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.word, fmt.Sprintf("%d", e.count)})
	}
	return rows
}
