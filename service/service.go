// Package service runs the long-lived parts of a contact-audio process in dependency order
package service

import "context"

// Service is a long-lived component: audio back end, catalog publisher, scheduler
//
// Lifecycle:
//  1. Construction
//  2. Start(ctx) - acquire resources, launch goroutines
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	Start(ctx context.Context) error

	// Stop must be idempotent
	Stop() error
}

// Func adapts closures into a Service
// Nil hooks are no-ops
type Func struct {
	ID      string
	Deps    []string
	OnStart func(ctx context.Context) error
	OnStop  func() error
}

func (f *Func) Name() string           { return f.ID }
func (f *Func) Dependencies() []string { return f.Deps }

func (f *Func) Start(ctx context.Context) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx)
}

func (f *Func) Stop() error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop()
}
