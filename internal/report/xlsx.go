package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Justificantes"

func writeXLSX(w io.Writer, l *List) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2ECC71"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	if err := set(1, 1, listTitle); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", title); err != nil {
		return err
	}
	if err := set(1, 2, l.GeneratedLine()); err != nil {
		return err
	}
	if err := set(1, 3, l.FiltersLine()); err != nil {
		return err
	}

	const headerRow = 5
	for i, name := range Columns {
		if err := set(i+1, headerRow, name); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), headerRow)
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), last, header); err != nil {
		return err
	}

	for r, row := range l.Rows {
		for c, v := range row {
			if err := set(c+1, headerRow+1+r, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(sheetName, "B", "D", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "F", "G", 14); err != nil {
		return err
	}

	return f.Write(w)
}
