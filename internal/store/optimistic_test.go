package store

import (
	"context"
	"errors"
	"testing"
)

func TestRunMutationCommit(t *testing.T) {
	value := 5
	err := RunMutation(context.Background(), Mutation{
		Apply:  func() { value = 6 },
		Commit: func(ctx context.Context) error { value = 7; return nil }, // server said 7
		Revert: func() { value = 5 },
	})
	if err != nil {
		t.Fatalf("RunMutation() error: %v", err)
	}
	if value != 7 {
		t.Errorf("value = %d, want server-reconciled 7", value)
	}
}

func TestRunMutationRevertUsesSnapshot(t *testing.T) {
	value := 5
	snapshot := value // captured before apply

	err := RunMutation(context.Background(), Mutation{
		Apply:  func() { value = 6 },
		Commit: func(ctx context.Context) error { return errors.New("boom") },
		Revert: func() { value = snapshot },
	})
	if err == nil {
		t.Fatal("RunMutation() should propagate the commit error")
	}
	if value != 5 {
		t.Errorf("value = %d, want snapshot 5", value)
	}
}

func TestRunMutationWithoutOptionalPhases(t *testing.T) {
	called := false
	err := RunMutation(context.Background(), Mutation{
		Commit: func(ctx context.Context) error { called = true; return nil },
	})
	if err != nil || !called {
		t.Errorf("commit-only mutation: err=%v called=%v", err, called)
	}

	if err := RunMutation(context.Background(), Mutation{
		Commit: func(ctx context.Context) error { return errors.New("boom") },
	}); err == nil {
		t.Error("error should propagate even without a revert")
	}
}
