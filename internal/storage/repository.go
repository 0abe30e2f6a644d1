package storage

import (
	"context"
	"errors"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateEvent(ctx context.Context, in model.Event) error
	GetEvent(ctx context.Context, id string) (model.Event, error)
	// UpsertEvent inserts the event or, when the id already exists,
	// overwrites every stored field. Saving an edit twice is a no-op.
	UpsertEvent(ctx context.Context, in model.Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter EventListFilter) ([]model.Event, error)

	CreateImport(ctx context.Context, in ImportRecord) error
	ListImports(ctx context.Context, filter ImportListFilter) ([]ImportRecord, error)
}
