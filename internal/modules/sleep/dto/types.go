package dto

import "time"

// NightOutput is comparable with == so list diffs can use it directly.
type NightOutput struct {
	ID         int64
	StartTime  time.Time
	EndTime    time.Time
	Quality    int
	InProgress bool
}

type EndInput struct {
	NightID int64
}

type RateInput struct {
	NightID int64
	Quality int
}

type ExportInput struct {
	Path string
}

type ExportOutput struct {
	Path   string
	Nights int
}

// Snapshot is the derived screen state. Tonight is nil when no night is in
// progress.
type Snapshot struct {
	Tonight      *NightOutput
	Nights       []NightOutput
	StartEnabled bool
	StopEnabled  bool
	ClearEnabled bool
	HistoryText  string
}
