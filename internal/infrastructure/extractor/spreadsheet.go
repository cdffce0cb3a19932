package extractor

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

func extractSpreadsheet(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		out.WriteString(sheet)
		out.WriteString("\n")
		for _, row := range rows {
			out.WriteString(strings.Join(row, " "))
			out.WriteString("\n")
		}
	}
	return strings.TrimSpace(out.String()), nil
}
