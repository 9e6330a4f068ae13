// Package report renders statistics as spreadsheet workbooks.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/backoffice/internal/usecase"
)

const (
	SummarySheet   = "Summary"
	CountriesSheet = "Countries"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filename is the suggested attachment name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("summary_%s.xlsx", t.UTC().Format("20060102_150405"))
}

// WriteSummary writes a two-sheet workbook: global totals on Summary and
// one row per covered country on Countries.
func WriteSummary(w io.Writer, r *usecase.SummaryReport, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(CountriesSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Generated at", generated.UTC().Format(time.RFC3339)},
		{"Total providers", r.TotalProviders},
		{"Total services", r.TotalServices},
		{"Countries covered", r.TotalCountriesCovered},
		{"Average hourly rate", r.AverageHourlyRate},
	}
	rows = append(rows, serviceRow("Most expensive service", r.MostExpensiveService))
	rows = append(rows, serviceRow("Cheapest service", r.CheapestService))
	if err := writeRows(f, SummarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", bold); err != nil {
		return err
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 26)
	_ = f.SetColWidth(SummarySheet, "B", "D", 22)

	countries := [][]any{{"Code", "Country", "Providers", "Services"}}
	for _, c := range r.CountryStatistics {
		countries = append(countries, []any{c.CountryCode, c.CountryName, c.ProvidersCount, c.ServicesCount})
	}
	if err := writeRows(f, CountriesSheet, countries); err != nil {
		return err
	}
	if err := f.SetCellStyle(CountriesSheet, "A1", "D1", bold); err != nil {
		return err
	}
	_ = f.SetColWidth(CountriesSheet, "B", "B", 30)

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func serviceRow(label string, s *usecase.ServiceRate) []any {
	if s == nil {
		return []any{label, "-"}
	}
	return []any{label, s.Name, s.HourlyRate, s.ProviderName}
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
