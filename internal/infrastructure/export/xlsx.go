// Package export renders matched records as downloadable workbooks.
package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/InsightBoard/internal/domain/analytics"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// Sheet names of the generated workbook.
const (
	SheetRecords = "Records"
	SheetSummary = "Summary"
)

// XLSXContentType is the MIME type of an Office Open XML workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headings = map[record.Field]string{
	record.FieldPublished:  "Published",
	record.FieldTitle:      "Title",
	record.FieldSector:     "Sector",
	record.FieldTopic:      "Topic",
	record.FieldRegion:     "Region",
	record.FieldCountry:    "Country",
	record.FieldIntensity:  "Intensity",
	record.FieldLikelihood: "Likelihood",
	record.FieldRelevance:  "Relevance",
}

// Heading returns the column title used for f.
func Heading(f record.Field) string {
	if h, ok := headings[f]; ok {
		return h
	}
	return string(f)
}

// XLSXRenderer writes the Records and Summary sheets.
type XLSXRenderer struct{}

// NewXLSXRenderer returns a renderer.
func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

// ContentType implements the dashboard workbook renderer.
func (XLSXRenderer) ContentType() string { return XLSXContentType }

// Extension implements the dashboard workbook renderer.
func (XLSXRenderer) Extension() string { return "xlsx" }

// Render lays out one row per record under a header of the displayed
// columns, followed by a summary sheet.  Missing values are blank cells and
// titles are written in full.
func (XLSXRenderer) Render(rows []record.Record, stats analytics.Statistics, dist analytics.Distribution) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return nil, wrap(err)
	}
	if err := writeRecords(f, rows); err != nil {
		return nil, wrap(err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, wrap(err)
	}
	if err := writeSummary(f, stats, dist); err != nil {
		return nil, wrap(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, wrap(err)
	}
	return buf.Bytes(), nil
}

func wrap(err error) error {
	return errors.Wrap(err, errors.ErrCodeExportFailed, "render workbook")
}

func writeRecords(f *excelize.File, rows []record.Record) error {
	header := make([]interface{}, len(record.Columns))
	for i, c := range record.Columns {
		header[i] = Heading(c)
	}
	if err := f.SetSheetRow(SheetRecords, "A1", &header); err != nil {
		return err
	}
	if err := boldRow(f, SheetRecords, 1); err != nil {
		return err
	}

	for i := range rows {
		cells := make([]interface{}, len(record.Columns))
		for j, c := range record.Columns {
			cells[j] = cellValue(c.Get(&rows[i]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRecords, cell, &cells); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(record.Columns))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetRecords, "A", last, 16); err != nil {
		return err
	}
	return f.SetColWidth(SheetRecords, "B", "B", 60)
}

func cellValue(v record.Value) interface{} {
	if !v.Present {
		if v.Kind == record.KindDate && v.Text != "" {
			return v.Text
		}
		return nil
	}
	if v.Kind == record.KindNumber {
		return v.Number
	}
	return v.Text
}

func writeSummary(f *excelize.File, stats analytics.Statistics, dist analytics.Distribution) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total records", stats.TotalRecords},
		{"Average intensity", stats.AvgIntensity},
		{"Average likelihood", stats.AvgLikelihood},
		{"Average relevance", stats.AvgRelevance},
		{},
		{"Sector", "Records"},
	}
	for i, label := range dist.Labels {
		rows = append(rows, []interface{}{label, dist.Values[i]})
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return err
		}
	}
	if err := boldRow(f, SheetSummary, 1); err != nil {
		return err
	}
	if err := boldRow(f, SheetSummary, 7); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}

func boldRow(f *excelize.File, sheet string, row int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetRowStyle(sheet, row, row, style)
}

//Personal.AI order the ending
