// Package report renders downloadable documents from stored data.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"gymnexus/coach-api/internal/bodymetrics"
	"gymnexus/coach-api/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetMetrics = "Metrics"
	SheetSummary = "Summary"
)

// XLSXContentType is the MIME type of the workbook produced by MetricsWorkbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type metricColumn struct {
	title string
	value func(domain.MetricRecord) *float64
}

var metricColumns = []metricColumn{
	{"Weight (kg)", func(r domain.MetricRecord) *float64 { return r.Weight }},
	{"Height (cm)", func(r domain.MetricRecord) *float64 { return r.Height }},
	{"Neck (cm)", func(r domain.MetricRecord) *float64 { return r.Neck }},
	{"Chest (cm)", func(r domain.MetricRecord) *float64 { return r.Chest }},
	{"Waist (cm)", func(r domain.MetricRecord) *float64 { return r.Waist }},
	{"Hips (cm)", func(r domain.MetricRecord) *float64 { return r.Hips }},
	{"Thighs (cm)", func(r domain.MetricRecord) *float64 { return r.Thighs }},
	{"Biceps (cm)", func(r domain.MetricRecord) *float64 { return r.Biceps }},
	{"BMI", func(r domain.MetricRecord) *float64 { return r.IMC }},
	{"Body fat (%)", func(r domain.MetricRecord) *float64 { return r.BodyFatPercentage }},
	{"Bench press RM", func(r domain.MetricRecord) *float64 { return r.BenchPressRM }},
	{"Sit-up RM", func(r domain.MetricRecord) *float64 { return r.SitUpRM }},
	{"Deadlift RM", func(r domain.MetricRecord) *float64 { return r.DeadLiftRM }},
}

// MetricsWorkbook builds an XLSX file with one row per record (oldest first)
// on the Metrics sheet and the dashboard summary on the Summary sheet.
func MetricsWorkbook(user *domain.User, records []domain.MetricRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMetrics); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeMetricsSheet(f, records); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, user, bodymetrics.Summarize(records, user.BiologicalGender)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMetricsSheet(f *excelize.File, records []domain.MetricRecord) error {
	header := make([]interface{}, 0, len(metricColumns)+1)
	header = append(header, "Date")
	for _, c := range metricColumns {
		header = append(header, c.title)
	}
	if err := f.SetSheetRow(SheetMetrics, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetMetrics, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}

	for i, r := range bodymetrics.SortByDate(records, true) {
		row := make([]interface{}, 0, len(header))
		row = append(row, r.Date)
		for _, c := range metricColumns {
			if v := c.value(r); v != nil {
				row = append(row, *v)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetMetrics, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		if err := f.SetCellStyle(SheetMetrics, cell, cell, dateStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetMetrics, "A", lastCol, 14); err != nil {
		return err
	}
	return f.SetPanes(SheetMetrics, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, user *domain.User, s bodymetrics.Summary) error {
	name := strings.TrimSpace(user.Name + " " + user.LastName)
	if name == "" {
		name = user.Email
	}

	rows := [][]interface{}{
		{"Athlete", name},
		{"Records", s.RecordCount},
		{"BMI category", string(s.BMICategory)},
		{"Body fat category", string(s.BodyFatCategory)},
		{"Weight change", optional(s.WeightChange)},
		{"BMI change", optional(s.BMIChange)},
		{"Body fat change", optional(s.BodyFatChange)},
		{"Weight progress", string(s.WeightProgress)},
		{"Body fat progress", string(s.BodyFatProgress)},
	}
	if s.Latest != nil {
		rows = append(rows, []interface{}{"Last measured", s.Latest.Date.Format("2006-01-02")})
	}

	for i := range rows {
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 20)
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
