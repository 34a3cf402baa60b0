// Package optimistic applies a local change before the server confirms it and
// reverts the change when the server call fails.
package optimistic

import (
	"context"
	"errors"
)

// Mutation describes one optimistic change.
type Mutation struct {
	// Name labels the mutation in metrics and logs.
	Name string
	// Apply performs the local change and returns the function that undoes it.
	Apply func() (undo func())
	// Commit performs the server call.
	Commit func(ctx context.Context) error
	// OnRollback runs after undo, with the error that caused it.
	OnRollback func(name string, err error)
}

// Apply runs the mutation. When Commit fails the local change is undone before
// the error is returned, so callers never observe a failed value.
func Apply(ctx context.Context, m Mutation) error {
	if m.Apply == nil || m.Commit == nil {
		return errors.New("optimistic mutation requires apply and commit")
	}
	undo := m.Apply()
	err := m.Commit(ctx)
	if err == nil {
		return nil
	}
	if undo != nil {
		undo()
	}
	if m.OnRollback != nil {
		m.OnRollback(m.Name, err)
	}
	return err
}
