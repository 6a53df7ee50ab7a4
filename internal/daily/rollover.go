package daily

import (
	"strings"
	"time"
)

// Формат Date.toDateString() из ранних версий приложения: "Mon Jan 01 2024".
var legacyDateLayouts = []string{"Mon Jan 02 2006", "Mon Jan _2 2006"}

// ResetIfNewDay returns stored unchanged when it belongs to currentDate,
// otherwise a fresh Empty() day. An empty storedDate (first run) always resets.
func ResetIfNewDay(storedDate string, stored Stats, currentDate string) Stats {
	if storedDate == "" || storedDate != currentDate {
		return Empty()
	}
	return stored.Clone()
}

// NormalizeDate converts a legacy stored date to YYYY-MM-DD. Other values are returned as is.
func NormalizeDate(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return v
}
