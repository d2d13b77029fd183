package funding

import (
	"sort"
	"strings"

	"gorm.io/gorm"
)

// fillEmptyText builds COALESCE(NULLIF(col, ?), ?) assignments and a guard matching rows where at
// least one target column is still empty, so RowsAffected only counts real enrichment.
// Column names come from model field tables, never from request input.
func fillEmptyText(cols map[string]string) (map[string]interface{}, string) {
	names := make([]string, 0, len(cols))
	for c := range cols {
		names = append(names, c)
	}
	sort.Strings(names)

	updates := make(map[string]interface{}, len(names)+1)
	guards := make([]string, 0, len(names))
	for _, c := range names {
		updates[c] = gorm.Expr("COALESCE(NULLIF("+c+", ''), ?)", cols[c])
		guards = append(guards, "("+c+" IS NULL OR "+c+" = '')")
	}
	if len(guards) == 0 {
		return updates, ""
	}
	return updates, "(" + strings.Join(guards, " OR ") + ")"
}
