package equipment

import (
	"context"
)

// Repository reads equipment records. Writes belong to the web application.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Equipment, error)
	ListActive(ctx context.Context) ([]*Equipment, error)
}
