package dept

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Departments"

var exportHeaders = []string{
	"Dept ID", "Dept Name", "Parent Dept", "Description", "Sort", "Status",
	"Created By", "Create Time", "Updated By", "Update Time",
}

const exportTimeLayout = "2006-01-02 15:04:05"

// WriteExcel renders depts as an xlsx workbook. Enum columns use their description.
func WriteExcel(w io.Writer, depts []*DeptDetail) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, d := range depts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			d.DeptID,
			d.DeptName,
			d.ParentName,
			d.Description,
			d.DeptSort,
			d.Status.Description(),
			d.CreateUserString,
			formatTime(d.CreateTime),
			d.UpdateUserString,
			formatTime(d.UpdateTime),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "J", 16); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportTimeLayout)
}
