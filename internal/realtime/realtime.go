// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Subscription is something kept fresh in the background.
type Subscription interface {
	// Interval is the time between refreshes.
	Interval() time.Duration
	// Refresh brings the subscriber up to date once.
	Refresh(ctx context.Context) error
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler refreshes one piece of state: Fetch gets the latest value,
// ShouldApply decides whether it differs enough from what is shown, and
// Apply shows it.
type Reconciler[T any] struct {
	Fetch       func(ctx context.Context) (T, error)
	ShouldApply func(T) bool
	Apply       func(T)
}

// Reconcile runs one fetch-decide-apply step. It reports whether Apply ran.
func (r Reconciler[T]) Reconcile(ctx context.Context) (bool, error) {
	v, err := r.Fetch(ctx)
	if err != nil {
		return false, err
	}
	if r.ShouldApply != nil && !r.ShouldApply(v) {
		return false, nil
	}
	if r.Apply != nil {
		r.Apply(v)
	}
	return true, nil
}

// =============================================================================
// POLLER
// =============================================================================

// Poller refreshes subscriptions on a fixed interval.
type Poller struct {
	Logger *zap.Logger
}

// NewPoller returns a poller logging to logger (nil discards).
func NewPoller(logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{Logger: logger}
}

// Tick refreshes sub once. Errors are logged, never returned.
func (p *Poller) Tick(ctx context.Context, sub Subscription) {
	if err := sub.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger().Warn("background refresh failed", zap.Error(err))
	}
}

// Run ticks sub every Interval until ctx is done. The first refresh happens
// one interval after Run starts.
func (p *Poller) Run(ctx context.Context, sub Subscription) {
	interval := sub.Interval()
	if interval <= 0 {
		p.logger().Warn("subscription has no interval, not polling")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx, sub)
		}
	}
}

func (p *Poller) logger() *zap.Logger {
	if p == nil || p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
