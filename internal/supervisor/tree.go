// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is the duration to wait when the threshold is
	// exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the two-layer supervisor: a data layer for the store's
// maintenance services and an api layer for the HTTP server. A crash in
// the data layer never interrupts request serving.
type Tree struct {
	root   *suture.Supervisor
	data   *suture.Supervisor
	api    *suture.Supervisor
	logger zerolog.Logger
}

// NewTree builds the supervisor hierarchy. Zero config values fall back
// to the defaults.
func NewTree(logger zerolog.Logger, config TreeConfig) *Tree {
	def := DefaultTreeConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = def.FailureDecay
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = def.FailureBackoff
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}

	rootSpec := suture.Spec{
		EventHook:        eventHook(logger),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("cinehub", rootSpec)
	data := suture.New("data-layer", childSpec)
	api := suture.New("api-layer", childSpec)
	root.Add(data)
	root.Add(api)

	return &Tree{root: root, data: data, api: api, logger: logger}
}

// AddDataService adds a service to the data layer.
func (t *Tree) AddDataService(svc suture.Service) {
	t.data.Add(svc)
}

// AddAPIService adds a service to the api layer.
func (t *Tree) AddAPIService(svc suture.Service) {
	t.api.Add(svc)
}

// ServeBackground starts the tree and returns a channel that yields the
// tree's final error and then closes.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that failed to stop within the
// shutdown timeout.
func (t *Tree) UnstoppedServiceReport() (suture.UnstoppedServiceReport, error) {
	return t.root.UnstoppedServiceReport()
}

// eventHook routes suture's supervision events into the structured log.
func eventHook(logger zerolog.Logger) suture.EventHook {
	return func(ev suture.Event) {
		evLogger := logger.With().
			Str("component", "supervisor").
			Int("event_type", int(ev.Type())).
			Logger()
		switch ev.Type() {
		case suture.EventTypeServiceTerminate, suture.EventTypeServicePanic:
			evLogger.Warn().Interface("event", ev.Map()).Msg(ev.String())
		case suture.EventTypeBackoff:
			evLogger.Warn().Interface("event", ev.Map()).Msg(ev.String())
		default:
			evLogger.Info().Interface("event", ev.Map()).Msg(ev.String())
		}
	}
}
