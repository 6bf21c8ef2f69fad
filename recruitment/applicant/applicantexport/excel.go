package applicantexport

import (
	"context"
	"fmt"
	"io"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/xuri/excelize/v2"
)

const (
	SheetApplicants = "Applicants"
	ContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"Applicant ID",
	"Shortlist Status",
	"LLM Score",
	"LLM Summary",
	"LLM Issues",
	"LLM Follow Ups",
	"JSON Hash",
}

var colWidths = []float64{16, 16, 10, 60, 40, 60, 34}

// Exporter writes a workbook of every Completed applicant
type Exporter struct {
	applicants applicant.Repository
}

func NewExporter(applicants applicant.Repository) *Exporter {
	return &Exporter{applicants: applicants}
}

// Export writes the workbook to w and returns the number of data rows
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	list, err := e.applicants.ListByStatus(ctx, applicant.StatusCompleted)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, list); err != nil {
		return 0, errx.Wrap(err, "failed to build applicant workbook", errx.TypeInternal)
	}
	if err := f.Write(w); err != nil {
		return 0, errx.Wrap(err, "failed to write applicant workbook", errx.TypeInternal)
	}
	return len(list), nil
}

func writeSheet(f *excelize.File, list []*applicant.Applicant) error {
	if err := f.SetSheetName("Sheet1", SheetApplicants); err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	shortlistedStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	plainStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetApplicants, col, col, colWidths[i]); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetApplicants, col+"1", h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetApplicants, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, a := range list {
		row := i + 2
		values := []any{
			a.Ref().DisplayID,
			string(a.ShortlistStatus),
			"",
			a.LLMSummary,
			a.LLMIssues,
			a.LLMFollowUps,
			a.JSONHash.String(),
		}
		if a.LLMScore != nil {
			values[2] = *a.LLMScore
		}
		if err := f.SetSheetRow(SheetApplicants, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}

		style := plainStyle
		if a.ShortlistStatus == kernel.ShortlistYes {
			style = shortlistedStyle
		}
		if err := f.SetCellStyle(SheetApplicants, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style); err != nil {
			return err
		}
	}

	if len(list) > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(list)+1)
		if err := f.AutoFilter(SheetApplicants, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(SheetApplicants, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
