// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import (
	"github.com/imdario/mergo"
	"go.uber.org/zap"
)

// Options configures a new Engine. Grounded on the teacher's
// pkg/opt.Options pattern (functional options collapsed into a single
// struct via Configure), adapted here with mergo filling any field a
// caller left zero from defaultOptions() rather than hand-rolled
// if-zero-then-default checks per field.
type Options struct {
	// Issuer is the address ownerIDSentinel resolves to on every entry
	// point.
	Issuer Address

	// UpperBound is the largest index ever allocatable; must not exceed
	// MaxUpperBound.
	UpperBound Index

	// Oracle is the compliance collaborator consulted by the transfer
	// entry points. A nil Oracle skips compliance checks entirely,
	// useful for tests and deployments that gate compliance elsewhere.
	Oracle ComplianceOracle

	// Hooks are the optional tag-scoped policy collaborators. A nil Hooks
	// defaults to a permissive no-op.
	Hooks PolicyHooks

	// Events receives every emitted Event. Defaults to a logger that
	// discards everything.
	Events EventLogger

	// Logger is the structured logger used for operational diagnostics.
	// Defaults to zap.NewNop().
	Logger *zap.Logger

	// Clock abstracts time.Now for time-lock evaluation. Defaults to the
	// real wall clock.
	Clock clock
}

// Option mutates an Options value under construction.
type Option func(*Options)

// WithIssuer sets the issuer address.
func WithIssuer(issuer Address) Option {
	return func(o *Options) { o.Issuer = issuer }
}

// WithUpperBound sets the addressable index-space ceiling.
func WithUpperBound(upperBound Index) Option {
	return func(o *Options) { o.UpperBound = upperBound }
}

// WithOracle installs the compliance oracle collaborator.
func WithOracle(oracle ComplianceOracle) Option {
	return func(o *Options) { o.Oracle = oracle }
}

// WithHooks installs the policy-hook collaborator.
func WithHooks(hooks PolicyHooks) Option {
	return func(o *Options) { o.Hooks = hooks }
}

// WithEvents installs the event sink.
func WithEvents(events EventLogger) Option {
	return func(o *Options) { o.Events = events }
}

// WithLogger installs the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithClock overrides the wall clock, primarily for tests exercising
// time-lock expiry.
func WithClock(now clock) Option {
	return func(o *Options) { o.Clock = now }
}

// defaultOptions returns the baseline every constructed Engine falls
// back to for fields the caller left zero.
func defaultOptions() Options {
	return Options{
		Issuer:     ownerIDSentinel,
		UpperBound: MaxUpperBound,
		Hooks:      noopHooks{},
		Events:     discardLogger{},
		Logger:     zap.NewNop(),
		Clock:      defaultClock,
	}
}

// configure applies opts over the defaults, using mergo to fill any
// field the caller left at its zero value — the same "defaults merged
// under caller overrides" shape the teacher reaches for whenever a
// struct has more optional knobs than NewX has parameters. An explicit
// WithUpperBound(0) is kept as zero, so NewEngine rejects it instead of
// treating it as an omitted field.
func configure(opts ...Option) (Options, error) {
	cfg := Options{}
	probe := Options{UpperBound: MaxUpperBound + 1}
	for _, opt := range opts {
		opt(&cfg)
		opt(&probe)
	}

	def := defaultOptions()
	if err := mergo.Merge(&cfg, def); err != nil {
		return Options{}, err
	}
	if probe.UpperBound == 0 {
		cfg.UpperBound = 0
	}
	return cfg, nil
}
