package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sleeptrack/internal/modules/sleep/domain"
	sleepout "sleeptrack/internal/modules/sleep/port/out"
	"sleeptrack/internal/platform/clock"
	apperrors "sleeptrack/internal/platform/errors"
)

type NightService struct {
	clock    clock.Clock
	store    sleepout.NightStore
	exporter sleepout.HistoryExporter
}

func NewNightService(clock clock.Clock, store sleepout.NightStore, exporter sleepout.HistoryExporter) *NightService {
	return &NightService{clock: clock, store: store, exporter: exporter}
}

// Begin starts a new night unless one is already in progress.
func (s *NightService) Begin(ctx context.Context) (domain.Night, error) {
	if _, err := s.Tonight(ctx); err == nil {
		return domain.Night{}, apperrors.ErrNightInProgress
	} else if !errors.Is(err, apperrors.ErrNoNightInProgress) {
		return domain.Night{}, err
	}
	return s.store.Insert(ctx, domain.NewNight(s.clock.Now()))
}

// Tonight returns the latest night if it is still in progress.
func (s *NightService) Tonight(ctx context.Context) (domain.Night, error) {
	night, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Night{}, apperrors.ErrNoNightInProgress
		}
		return domain.Night{}, err
	}
	if !night.InProgress() {
		return domain.Night{}, apperrors.ErrNoNightInProgress
	}
	return night, nil
}

func (s *NightService) End(ctx context.Context, id int64) (domain.Night, error) {
	var (
		night domain.Night
		err   error
	)
	if id == 0 {
		night, err = s.Tonight(ctx)
	} else {
		night, err = s.store.Get(ctx, id)
	}
	if err != nil {
		return domain.Night{}, err
	}
	if !night.InProgress() {
		return domain.Night{}, apperrors.ErrNoNightInProgress
	}
	night = night.Finish(s.clock.Now())
	if err := s.store.Update(ctx, night); err != nil {
		return domain.Night{}, err
	}
	return night, nil
}

func (s *NightService) Rate(ctx context.Context, id int64, quality int) (domain.Night, error) {
	if err := domain.ValidateQuality(quality); err != nil {
		return domain.Night{}, err
	}
	night, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Night{}, err
	}
	night.Quality = quality
	if err := s.store.Update(ctx, night); err != nil {
		return domain.Night{}, err
	}
	return night, nil
}

func (s *NightService) Get(ctx context.Context, id int64) (domain.Night, error) {
	return s.store.Get(ctx, id)
}

func (s *NightService) List(ctx context.Context) ([]domain.Night, error) {
	return s.store.List(ctx)
}

func (s *NightService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *NightService) Watch(ctx context.Context) <-chan []domain.Night {
	return s.store.Subscribe(ctx)
}

func (s *NightService) Export(ctx context.Context, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("%w: export path is required", apperrors.ErrInvalidInput)
	}
	if s.exporter == nil {
		return 0, fmt.Errorf("history exporter is not configured")
	}
	nights, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.exporter.Export(ctx, path, nights, s.clock.Now()); err != nil {
		return 0, err
	}
	return len(nights), nil
}
