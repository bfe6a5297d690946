// Package registry provides the in-memory store of user-defined commands.
package registry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrNotFound is returned by Lookup when no command has the given name.
	ErrNotFound = errors.New("command not found")
	// ErrLockUnavailable wraps failures to acquire access to the registry.
	ErrLockUnavailable = errors.New("couldn't lock commands")
)

// readers is the number of concurrent lookups allowed.
// An insert takes all of them at once.
const readers = 1 << 16

// Registry maps command names to response texts.
// Any number of lookups may proceed concurrently, while an insert excludes
// all other access. Acquisition is first come first served, so a stream of
// lookups cannot starve an insert.
type Registry struct {
	sem *semaphore.Weighted
	m   map[string]string
}

// New returns a new empty registry.
func New() *Registry {
	return &Registry{
		sem: semaphore.NewWeighted(readers),
		m:   make(map[string]string),
	}
}

func (r *Registry) acquire(ctx context.Context, n int64) error {
	// Acquire may succeed on a done context if the semaphore is free.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	if err := r.sem.Acquire(ctx, n); err != nil {
		return fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	return nil
}

// Insert sets the response for a command, replacing any existing one.
// It fails only if exclusive access cannot be obtained before ctx is done.
func (r *Registry) Insert(ctx context.Context, name, response string) error {
	if err := r.acquire(ctx, readers); err != nil {
		return err
	}
	defer r.sem.Release(readers)
	r.m[name] = response
	return nil
}

// Lookup returns the response for a command.
// The error is ErrNotFound if there is no such command.
func (r *Registry) Lookup(ctx context.Context, name string) (string, error) {
	if err := r.acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)
	v, ok := r.m[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Len returns the number of commands.
func (r *Registry) Len(ctx context.Context) (int, error) {
	if err := r.acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer r.sem.Release(1)
	return len(r.m), nil
}

// All iterates over a snapshot of the registry in order of name.
// Inserts made during iteration are not observed.
func (r *Registry) All(ctx context.Context) (iter.Seq2[string, string], error) {
	if err := r.acquire(ctx, 1); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(r.m))
	resp := make(map[string]string, len(r.m))
	for k, v := range r.m {
		names = append(names, k)
		resp[k] = v
	}
	r.sem.Release(1)
	slices.Sort(names)
	return func(f func(string, string) bool) {
		for _, k := range names {
			if !f(k, resp[k]) {
				return
			}
		}
	}, nil
}
