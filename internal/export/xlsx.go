package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// XLSX renders the grid as an Excel workbook with a styled header row.
// Numbers and dates keep their native cell types so spreadsheet formulas
// work on the result.
func XLSX(g *grid.Grid, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		index, err := f.NewSheet(sheetName)
		if err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for col, c := range g.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, c.Name); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	if len(g.Columns) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(g.Columns), 1)
		f.SetCellStyle(sheetName, "A1", lastCell, headerStyle)

		lastCol, _ := excelize.ColumnNumberToName(len(g.Columns))
		f.SetColWidth(sheetName, "A", lastCol, 18)
	}

	for r, row := range g.Rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if val.IsNull {
				continue
			}
			switch val.Kind {
			case grid.KindInt:
				err = f.SetCellValue(sheetName, cell, val.Int)
			case grid.KindFloat:
				err = f.SetCellValue(sheetName, cell, val.Float)
			case grid.KindDate:
				err = f.SetCellValue(sheetName, cell, val.String())
			default:
				err = f.SetCellValue(sheetName, cell, val.Str)
			}
			if err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
