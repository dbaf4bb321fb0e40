package snapshotv1

import "context"

// Store defines the interface for persisting and loading book state.
type Store interface {
	Save(ctx context.Context, state *State) error
	Load(ctx context.Context) (*State, error)
}
