// Package export renders loan applications and farmers as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cropcura/internal/state"
	"cropcura/internal/types"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	applicationsSheet = "Applications"
	farmersSheet      = "Farmers"
)

var applicationHeaders = []any{
	"Application ID", "Farmer ID", "Farmer", "Amount", "Crop", "CropCura Score",
	"Status", "Applied", "Purpose", "Term (months)", "Interest (%)", "Farm Size (ha)",
	"Location", "Recommendation",
}

var farmerHeaders = []any{
	"Farmer ID", "Name", "Location", "Region", "Crop", "CropCura Score", "Risk",
	"Farm Size (ha)", "Registered", "Last Assessment", "Phone", "Email",
}

// Applications writes one row per loan with the recommendation derived from
// settings.
func Applications(w io.Writer, loans []types.LoanApplication, settings types.Settings) error {
	rows := make([][]any, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []any{
			l.ID, l.FarmerID, l.FarmerName, l.LoanAmount, string(l.CropType), l.CropCuraScore,
			string(l.Status), l.ApplicationDate, l.Purpose, l.Term, l.InterestRate, l.FarmSize,
			l.Location, state.Recommend(l.CropCuraScore, settings).Text,
		})
	}
	return writeSheet(w, applicationsSheet, applicationHeaders, rows)
}

// Farmers writes one row per farmer.
func Farmers(w io.Writer, farmers []types.Farmer) error {
	rows := make([][]any, 0, len(farmers))
	for _, f := range farmers {
		rows = append(rows, []any{
			f.ID, f.Name, f.Location, f.Region, string(f.CropType), f.CropCuraScore,
			string(f.RiskLevel), f.FarmSize, f.RegisteredDate, f.LastAssessment, f.PhoneNumber, f.Email,
		})
	}
	return writeSheet(w, farmersSheet, farmerHeaders, rows)
}

func writeSheet(w io.Writer, sheet string, headers []any, rows [][]any) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if len(rows) > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(rows)+1), nil); err != nil {
			return fmt.Errorf("adding filter: %w", err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
