package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/sdash/internal/pipeline"
)

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

// WriteWorkbook writes one sheet per report to an XLSX file at path. Empty
// reports get a sheet with a "No data" note so the workbook layout is stable.
func WriteWorkbook(path string, reports []pipeline.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9EFEC"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return fmt.Errorf("creating title style: %w", err)
	}

	used := make(map[string]bool)
	for i, rep := range reports {
		sheet := sheetName(rep, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		title := rep.Title
		if rep.Country != "" {
			title += " - " + rep.Country
		}
		if err := f.SetCellValue(sheet, "A1", title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
			return err
		}

		if rep.Empty {
			if err := f.SetCellValue(sheet, "A3", "No data"); err != nil {
				return err
			}
			continue
		}

		headers, rows := sheetTable(rep)
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 3)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
			colName, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetColWidth(sheet, colName, colName, 22); err != nil {
				return err
			}
		}
		if len(headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(headers), 3)
			if err := f.SetCellStyle(sheet, "A3", last, headerStyle); err != nil {
				return err
			}
		}

		for r, row := range rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+4)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	if len(reports) == 0 {
		if err := f.SetCellValue("Sheet1", "A1", "No views exported"); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// sheetName derives a unique sheet name of at most 31 characters.
func sheetName(rep pipeline.Report, used map[string]bool) string {
	base := string(rep.View)
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name := base
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf("-%d", n)
		stem := base
		if len(stem)+len(suffix) > maxSheetName {
			stem = stem[:maxSheetName-len(suffix)]
		}
		name = stem + suffix
	}
	used[name] = true
	return name
}
