package utils

// Listing endpoints share one pagination policy so clients see consistent
// page sizes across orders, stock items and invoice lines.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetPaginationParams resolves optional offset/limit query values into
// concrete pagination bounds. Missing or invalid values fall back to the
// defaults, and the limit is capped at maxPageSize.
func GetPaginationParams(offset *int, limit *int) (int, int) {
	resolvedOffset := 0
	resolvedLimit := defaultPageSize

	if offset != nil && *offset >= 0 {
		resolvedOffset = *offset
	}
	if limit != nil && *limit > 0 {
		resolvedLimit = min(*limit, maxPageSize)
	}

	return resolvedOffset, resolvedLimit
}
