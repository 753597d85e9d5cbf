package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet         = "Summary"
	checksSheet          = "Checks"
	recommendationsSheet = "Recommendations"
)

// WriteXLSX writes a workbook with a summary sheet, every check, and the
// prioritized recommendations.
func WriteXLSX(w io.Writer, a *Audit) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{checksSheet, recommendationsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E5E7EB"}},
	})
	if err != nil {
		return err
	}

	if err := writeSummary(f, a, header); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeChecks(f, a, header); err != nil {
		return fmt.Errorf("checks sheet: %w", err)
	}
	if err := writeRecommendations(f, a, header); err != nil {
		return fmt.Errorf("recommendations sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSummary(f *excelize.File, a *Audit, header int) error {
	rows := [][]interface{}{
		{"URL", a.URL},
		{"Client", a.ClientName},
		{"Audited at", a.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Overall score", a.OverallScore},
		{"Overall grade", a.OverallGrade},
		{"Checks", a.TotalChecks},
		{"Passed", a.TotalPassed},
		{"Failed", a.TotalFailed},
		{"Critical", a.TotalCritical},
		{"Pages crawled", a.PagesCrawled},
		{},
		{"Category", "Score", "Grade", "Passed", "Failed", "Critical"},
	}
	categoryHeader := len(rows)
	for _, key := range a.CategoryKeys() {
		r := a.Categories[key]
		c := r.Counts()
		rows = append(rows, []interface{}{Meta(key).Label, r.Score, r.Grade, c.Passed, c.Failed, c.CriticalIssues})
	}
	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A10", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, cell(1, categoryHeader), cell(6, categoryHeader), header); err != nil {
		return err
	}

	for i, key := range a.CategoryKeys() {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: hex(ScoreColor(a.Categories[key].Score))}})
		if err != nil {
			return err
		}
		row := categoryHeader + 1 + i
		if err := f.SetCellStyle(summarySheet, cell(2, row), cell(2, row), style); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 28)
}

func writeChecks(f *excelize.File, a *Audit, header int) error {
	rows := [][]interface{}{{"Category", "Check", "Passed", "Severity", "Weight", "Message", "Recommendation"}}
	for _, key := range a.CategoryKeys() {
		label := Meta(key).Label
		for _, c := range a.Categories[key].Checks {
			rows = append(rows, []interface{}{label, c.Name, c.Passed, string(c.Severity), c.Weight, c.Message, c.Recommendation})
		}
	}
	if err := setRows(f, checksSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(checksSheet, "A1", "G1", header); err != nil {
		return err
	}
	if err := f.SetColWidth(checksSheet, "A", "B", 30); err != nil {
		return err
	}
	return f.SetColWidth(checksSheet, "F", "G", 60)
}

func writeRecommendations(f *excelize.File, a *Audit, header int) error {
	rows := [][]interface{}{{"#", "Severity", "Category", "Issue", "Finding", "Recommendation"}}
	for i, r := range a.Recommendations {
		rows = append(rows, []interface{}{i + 1, string(r.Severity), Meta(r.Category).Label, r.Title, r.Description, r.Recommendation})
	}
	if err := setRows(f, recommendationsSheet, rows); err != nil {
		return err
	}
	for i, r := range a.Recommendations {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: hex(SeverityColor(r.Severity))}})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(recommendationsSheet, cell(2, i+2), cell(2, i+2), style); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(recommendationsSheet, "A1", "F1", header); err != nil {
		return err
	}
	return f.SetColWidth(recommendationsSheet, "D", "F", 50)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheet, cell(1, i+1), &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// hex drops the leading '#' of a palette color for excelize.
func hex(color string) string {
	return strings.TrimPrefix(color, "#")
}
