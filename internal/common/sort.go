package common

import "strings"

// ParseSort splits a "-field" style sort key into a column and SQL
// direction. Only columns present in allowed are accepted; anything else
// falls back to fallback descending.
func ParseSort(sort string, allowed map[string]string, fallback string) (column, direction string) {
	direction = "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = strings.TrimPrefix(sort, "-")
	}
	if col, ok := allowed[sort]; ok {
		return col, direction
	}
	return fallback, "DESC"
}
