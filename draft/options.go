// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package draft

import (
	"io"
	"log/slog"
)

type options struct {
	logger *slog.Logger
}

// Option configures Produce.
type Option func(*options)

// WithLogger sets the logger that commits, replacements and aborted
// drafts are reported to at debug level. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func optionsNew(opts []Option) *options {
	o := &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
