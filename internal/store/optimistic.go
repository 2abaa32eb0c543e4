package store

import "context"

// Authorizer reports whether a user is signed in. Mutating store actions
// guard on it before touching any state.
type Authorizer interface {
	SignedIn() bool
}

// Mutation is one optimistic update in three phases. Apply mutates local
// state synchronously so the UI reflects the anticipated end state with zero
// latency. Commit performs the server round-trip and, on success, overwrites
// local state with the server's authoritative values. Revert restores the
// snapshot captured before Apply ran; it must not recompute.
type Mutation struct {
	Apply  func()
	Commit func(ctx context.Context) error
	Revert func()
}

// RunMutation executes a mutation: optimistic apply, then commit, with the
// revert invoked on any commit failure. The commit error is propagated so the
// caller can surface it.
func RunMutation(ctx context.Context, m Mutation) error {
	if m.Apply != nil {
		m.Apply()
	}
	if err := m.Commit(ctx); err != nil {
		if m.Revert != nil {
			m.Revert()
		}
		return err
	}
	return nil
}
