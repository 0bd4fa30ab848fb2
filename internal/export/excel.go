// Package export renders a presented bill list as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/billed-app/billed-portal/internal/billslist"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Notes de frais"

var headers = []string{"Type", "Nom", "Date", "Montant", "TVA", "Pct", "Commentaire", "Statut", "Justificatif"}

// ExcelExporter writes bill rows into an xlsx workbook.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Write renders the rows, one per bill in presenter order, to w.
func (e *ExcelExporter) Write(rows []billslist.Row, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	for i, row := range rows {
		fileName := ""
		if row.FileName != nil {
			fileName = *row.FileName
		}
		values := []interface{}{
			row.Type,
			row.Name,
			row.FormattedDate,
			row.Amount,
			row.VAT,
			row.Pct,
			row.Commentary,
			row.FormattedStatus,
			fileName,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Bill list exported", zap.Int("rows", len(rows)))
	return nil
}
