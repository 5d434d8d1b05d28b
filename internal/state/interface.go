package state

import "context"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetResume(ctx context.Context) (*ResumeState, error)
	SaveResume(state ResumeState)
	RecentPlays(ctx context.Context, limit int) ([]Play, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
