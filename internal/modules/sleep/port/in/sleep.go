package in

import (
	"context"

	"sleeptrack/internal/modules/sleep/dto"
)

type Usecase interface {
	Begin(ctx context.Context) (dto.NightOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.NightOutput, error)
	Tonight(ctx context.Context) (dto.NightOutput, error)
	Rate(ctx context.Context, input dto.RateInput) (dto.NightOutput, error)
	Get(ctx context.Context, id int64) (dto.NightOutput, error)
	List(ctx context.Context) ([]dto.NightOutput, error)
	Clear(ctx context.Context) error
	Watch(ctx context.Context) <-chan []dto.NightOutput
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
