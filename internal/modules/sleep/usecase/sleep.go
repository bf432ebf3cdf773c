package usecase

import (
	"context"

	"sleeptrack/internal/modules/sleep/domain"
	"sleeptrack/internal/modules/sleep/dto"
	sleepin "sleeptrack/internal/modules/sleep/port/in"
	"sleeptrack/internal/modules/sleep/service"
)

type Interactor struct {
	svc *service.NightService
}

func NewInteractor(svc *service.NightService) sleepin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Begin(ctx context.Context) (dto.NightOutput, error) {
	night, err := i.svc.Begin(ctx)
	if err != nil {
		return dto.NightOutput{}, err
	}
	return toOutput(night), nil
}

func (i *Interactor) End(ctx context.Context, input dto.EndInput) (dto.NightOutput, error) {
	night, err := i.svc.End(ctx, input.NightID)
	if err != nil {
		return dto.NightOutput{}, err
	}
	return toOutput(night), nil
}

func (i *Interactor) Tonight(ctx context.Context) (dto.NightOutput, error) {
	night, err := i.svc.Tonight(ctx)
	if err != nil {
		return dto.NightOutput{}, err
	}
	return toOutput(night), nil
}

func (i *Interactor) Rate(ctx context.Context, input dto.RateInput) (dto.NightOutput, error) {
	night, err := i.svc.Rate(ctx, input.NightID, input.Quality)
	if err != nil {
		return dto.NightOutput{}, err
	}
	return toOutput(night), nil
}

func (i *Interactor) Get(ctx context.Context, id int64) (dto.NightOutput, error) {
	night, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.NightOutput{}, err
	}
	return toOutput(night), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.NightOutput, error) {
	nights, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(nights), nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

// Watch converts the store feed to DTOs. The channel closes with ctx or when
// the store shuts down.
func (i *Interactor) Watch(ctx context.Context) <-chan []dto.NightOutput {
	src := i.svc.Watch(ctx)
	out := make(chan []dto.NightOutput, 1)
	go func() {
		defer close(out)
		for nights := range src {
			select {
			case out <- toOutputs(nights):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	n, err := i.svc.Export(ctx, input.Path)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: input.Path, Nights: n}, nil
}

func toOutput(n domain.Night) dto.NightOutput {
	return dto.NightOutput{
		ID:         n.ID,
		StartTime:  n.StartTime,
		EndTime:    n.EndTime,
		Quality:    n.Quality,
		InProgress: n.InProgress(),
	}
}

func toOutputs(nights []domain.Night) []dto.NightOutput {
	out := make([]dto.NightOutput, 0, len(nights))
	for _, n := range nights {
		out = append(out, toOutput(n))
	}
	return out
}
