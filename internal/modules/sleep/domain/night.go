package domain

import (
	"time"

	apperrors "sleeptrack/internal/platform/errors"
)

const SchemaVersion = 1

const (
	QualityUnrated = -1
	QualityMin     = 0
	QualityMax     = 5
)

// Night is one recorded sleep interval. EndTime equals StartTime while the
// night is still in progress.
type Night struct {
	ID        int64
	StartTime time.Time
	EndTime   time.Time
	Quality   int
}

func NewNight(now time.Time) Night {
	return Night{StartTime: now, EndTime: now, Quality: QualityUnrated}
}

func (n Night) InProgress() bool {
	return n.EndTime.Equal(n.StartTime)
}

func (n Night) Duration() time.Duration {
	d := n.EndTime.Sub(n.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Finish stamps the end time. An end that does not move past the start is
// nudged forward by a millisecond so a finished night never looks in progress.
func (n Night) Finish(now time.Time) Night {
	if !now.After(n.StartTime) {
		now = n.StartTime.Add(time.Millisecond)
	}
	n.EndTime = now
	return n
}

func ValidateQuality(q int) error {
	if q < QualityMin || q > QualityMax {
		return apperrors.ErrInvalidQuality
	}
	return nil
}
