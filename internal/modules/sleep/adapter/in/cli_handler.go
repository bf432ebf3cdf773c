package in

import (
	"context"

	sleepdto "sleeptrack/internal/modules/sleep/dto"
	sleepin "sleeptrack/internal/modules/sleep/port/in"
)

type CLIHandler struct {
	usecase sleepin.Usecase
}

func NewCLIHandler(usecase sleepin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (sleepdto.NightOutput, error) {
	return h.usecase.Begin(ctx)
}

// Stop ends the given night, or the one in progress when id is zero.
func (h CLIHandler) Stop(ctx context.Context, id int64) (sleepdto.NightOutput, error) {
	return h.usecase.End(ctx, sleepdto.EndInput{NightID: id})
}

func (h CLIHandler) Rate(ctx context.Context, id int64, quality int) (sleepdto.NightOutput, error) {
	return h.usecase.Rate(ctx, sleepdto.RateInput{NightID: id, Quality: quality})
}

func (h CLIHandler) Tonight(ctx context.Context) (sleepdto.NightOutput, error) {
	return h.usecase.Tonight(ctx)
}

func (h CLIHandler) List(ctx context.Context) ([]sleepdto.NightOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id int64) (sleepdto.NightOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

func (h CLIHandler) Export(ctx context.Context, path string) (sleepdto.ExportOutput, error) {
	return h.usecase.Export(ctx, sleepdto.ExportInput{Path: path})
}
