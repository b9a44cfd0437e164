package analysis

import "context"

// Repository stores analyses. Get returns ErrNotFound when the record is absent
// or belongs to someone else.
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, ownerID, id int64) (*Analysis, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Analysis, error)
}
