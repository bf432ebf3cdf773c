package out

import (
	"context"
	"time"

	"sleeptrack/internal/modules/sleep/domain"
)

type NightStore interface {
	Insert(ctx context.Context, night domain.Night) (domain.Night, error)
	Update(ctx context.Context, night domain.Night) error
	Get(ctx context.Context, id int64) (domain.Night, error)
	// Latest returns the most recently started night or apperrors.ErrNotFound.
	Latest(ctx context.Context) (domain.Night, error)
	// List returns every night, newest first.
	List(ctx context.Context) ([]domain.Night, error)
	Clear(ctx context.Context) error
	// Subscribe yields the full history now and after every mutation.
	Subscribe(ctx context.Context) <-chan []domain.Night
}

type HistoryExporter interface {
	Export(ctx context.Context, path string, nights []domain.Night, generatedAt time.Time) error
}
