package pagination

import "math"

// CalculateOffset converts a 1-based page into a row offset. An offset that
// does not fit in an int saturates at math.MaxInt, which is past the end of
// any collection.
//
//   - Page 1, Limit 10 -> Offset 0
//   - Page 3, Limit 10 -> Offset 20
func CalculateOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// CalculateTotalPages is ceil(total / limit). An empty collection has zero pages.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
