// Package export renders chat threads as spreadsheets for offline review.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ThreadSheet is the name of the single worksheet in an exported thread.
const ThreadSheet = "Messages"

var threadHeaders = []string{"ID", "Time (UTC)", "Role", "Sender", "Recipient", "Message", "Read"}

// WriteThreadXLSX writes msgs as an XLSX workbook with one row per message, in the order given.
func WriteThreadXLSX(w io.Writer, msgs []model.ChatMessage) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ThreadSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range threadHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ThreadSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, m := range msgs {
		row := []interface{}{
			m.ID,
			m.CreatedAt.UTC().Format(time.DateTime),
			string(m.SenderRole),
			m.SenderName,
			m.Recipient,
			m.Body,
			m.Read,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ThreadSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(ThreadSheet, "B", "B", 20)
	_ = f.SetColWidth(ThreadSheet, "F", "F", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
