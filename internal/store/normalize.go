package store

import "strings"

// NormalizeList splits a comma-separated value, trims whitespace around each
// piece and rejoins with commas. "a, b ,c" becomes "a,b,c". Pieces are not
// deduplicated. The operation is idempotent.
func NormalizeList(s string) string {
	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, ",")
}
