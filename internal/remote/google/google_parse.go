package google

import (
	"fmt"
	"strings"

	"bilancio/internal/core"
)

// parseBudgetRows converts spreadsheet rows into a wire map. Rows shorter
// than two cells, blank keys, and keys starting with "#" are skipped, so
// users can keep comment rows in the sheet.
func parseBudgetRows(rows [][]any) map[string]int64 {
	wire := map[string]int64{}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(fmt.Sprint(row[0]))
		if key == "" || strings.HasPrefix(key, "#") {
			continue
		}
		wire[key] = core.ParseAmount(fmt.Sprint(row[1]))
	}
	return wire
}
