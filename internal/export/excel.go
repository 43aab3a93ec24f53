// Package export writes analysis results to spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the generated workbook.
const (
	SummarySheet     = "Summary"
	SuggestionsSheet = "Suggestions"
	KeywordsSheet    = "Keywords"
)

var (
	summaryHeaders    = []string{"Source", "Status", "Headline", "Overall", "ATS Friendliness", "Layout & Formatting", "Impact & Quantification", "Pages", "Words", "Length"}
	suggestionHeaders = []string{"Source", "Section", "Severity", "Suggestion"}
	keywordHeaders    = []string{"Source", "Category", "Keyword"}
)

// WriteWorkbook saves outcomes as an .xlsx file at outputPath, adding the
// extension when missing. Failed outcomes appear in the summary with their error.
func WriteWorkbook(outputPath string, outcomes []pipeline.Outcome) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}

	f, err := BuildWorkbook(outcomes)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filepath.Clean(outputPath)); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// BuildWorkbook creates the workbook in memory. The caller must Close it.
func BuildWorkbook(outcomes []pipeline.Outcome) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SuggestionsSheet, KeywordsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{f: f, headerStyle: headerStyle}
	w.header(SummarySheet, summaryHeaders)
	w.header(SuggestionsSheet, suggestionHeaders)
	w.header(KeywordsSheet, keywordHeaders)

	summaryRow, suggestionRow, keywordRow := 2, 2, 2
	for _, o := range outcomes {
		if o.Err != nil || o.Analysis == nil {
			status := "failed"
			if o.Err != nil {
				status = "failed: " + o.Err.Error()
			}
			w.row(SummarySheet, summaryRow, o.Source, status)
			summaryRow++
			continue
		}

		a := o.Analysis
		w.row(SummarySheet, summaryRow,
			o.Source, "ok", a.Headline,
			a.Scores.Overall, a.Scores.ATSFriendliness, a.Scores.LayoutAndFormatting, a.Scores.ImpactAndQuantification,
			a.Analytics.ResumeLength.Pages, a.Analytics.ResumeLength.Words, string(a.Analytics.ResumeLength.Sentiment),
		)
		summaryRow++

		for _, s := range a.ImprovementSuggestions {
			w.row(SuggestionsSheet, suggestionRow, o.Source, s.Section, string(s.Severity), s.Suggestion)
			suggestionRow++
		}

		for _, kw := range keywordRows(a) {
			w.row(KeywordsSheet, keywordRow, o.Source, kw[0], kw[1])
			keywordRow++
		}
	}

	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	for _, name := range []string{SummarySheet, SuggestionsSheet, KeywordsSheet} {
		_ = f.SetColWidth(name, "A", "A", 28)
	}
	_ = f.SetColWidth(SummarySheet, "C", "C", 48)
	_ = f.SetColWidth(SuggestionsSheet, "D", "D", 80)

	return f, nil
}

// keywordRows flattens keywords into (category, keyword) pairs with sections in name order.
func keywordRows(a *analysis.ResumeAnalysis) [][2]string {
	var rows [][2]string
	for _, k := range a.Keywords.TopTechnicalSkills {
		rows = append(rows, [2]string{"technical", k})
	}
	for _, k := range a.Keywords.TopSoftSkills {
		rows = append(rows, [2]string{"soft", k})
	}

	sections := make([]string, 0, len(a.Keywords.KeywordsBySection))
	for section := range a.Keywords.KeywordsBySection {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	for _, section := range sections {
		for _, k := range a.Keywords.KeywordsBySection[section] {
			rows = append(rows, [2]string{"section:" + section, k})
		}
	}
	return rows
}

// sheetWriter keeps the first error so rows can be written without checking each cell.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) header(sheet string, headers []string) {
	if w.err != nil {
		return
	}
	w.row(sheet, 1, toAny(headers)...)
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

func (w *sheetWriter) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
