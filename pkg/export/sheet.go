// Package export renders the pricing grid as a downloadable price sheet for
// the sales team.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jordanlanch/landing/pkg/domain"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/xuri/excelize/v2"
)

// Format is a price sheet file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv, xlsx and the "excel" alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", domain.NewValidationError("format must be csv or xlsx")
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename is the suggested download name.
func (f Format) Filename() string {
	return "price-sheet." + string(f)
}

// Row is one plan priced for one team size and billing cycle.
type Row struct {
	TeamCount    int
	BillingCycle pricing.BillingCycle
	PlanID       string
	PlanName     string
	Available    bool
	Recommended  bool
	TotalPrice   int
	PricePerUser int
}

var headers = []string{
	"Team Size", "Billing Cycle", "Plan ID", "Plan", "Available",
	"Recommended", "Total Price", "Price Per User",
}

// BuildSheet prices every plan for every team size up to the engine's maximum,
// monthly rows first.
func BuildSheet(engine *pricing.Engine) ([]Row, error) {
	var rows []Row
	for _, cycle := range pricing.BillingCycles {
		for team := 1; team <= engine.MaxTeamCount(); team++ {
			quotes, err := engine.QuoteAll(pricing.Query{TeamCount: team, BillingCycle: cycle})
			if err != nil {
				return nil, fmt.Errorf("failed to price team of %d: %w", team, err)
			}
			for _, q := range quotes {
				rows = append(rows, Row{
					TeamCount:    team,
					BillingCycle: cycle,
					PlanID:       q.Plan.ID,
					PlanName:     q.Plan.Name,
					Available:    q.Plan.Fits(team),
					Recommended:  q.Recommended,
					TotalPrice:   q.TotalPrice,
					PricePerUser: q.PricePerUser,
				})
			}
		}
	}
	return rows, nil
}

// Write renders rows in the given format.
func Write(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return domain.NewValidationError("format must be csv or xlsx")
}

// WriteCSV writes rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.TeamCount),
			string(r.BillingCycle),
			r.PlanID,
			r.PlanName,
			strconv.FormatBool(r.Available),
			strconv.FormatBool(r.Recommended),
			strconv.Itoa(r.TotalPrice),
			strconv.Itoa(r.PricePerUser),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes rows as a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Prices"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.TeamCount, string(r.BillingCycle), r.PlanID, r.PlanName,
			r.Available, r.Recommended, r.TotalPrice, r.PricePerUser,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "H", 15); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
