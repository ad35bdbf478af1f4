package service

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type options struct {
	now    func() time.Time
	logger logrus.FieldLogger
}

// Option customizes a service.
type Option func(*options)

// WithClock replaces the time source used to stamp rows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger used for audit lines.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{now: defaultNow}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		o.logger = quiet
	}
	return o
}

// timestamps are kept at microsecond precision so every backend round-trips
// them unchanged
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
