package resumes

import "context"

// Repo persists analyses. Create assigns ID and, when unset, CreatedAt.
type Repo interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
}
