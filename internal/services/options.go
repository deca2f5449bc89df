package services

import "time"

// ServiceOption customises a collection service.
type ServiceOption interface {
	applyClock(dst *func() time.Time)
}

type clockOption struct {
	now func() time.Time
}

func (o clockOption) applyClock(dst *func() time.Time) {
	if o.now != nil {
		*dst = o.now
	}
}

// WithClock overrides the clock used for id generation and timestamps,
// primarily for tests.
func WithClock(now func() time.Time) ServiceOption {
	return clockOption{now: now}
}
