package domain

import (
	"context"
	"time"
)

// Repository pages through documents of a date window. Implementations must
// return fewer than limit rows (possibly zero) only on the last page.
type Repository interface {
	FetchDocuments(ctx context.Context, from, to time.Time, types []DocumentType, offset, limit int) ([]DocumentWithOrder, error)
}
