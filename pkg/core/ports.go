package core

import "context"

// Op is a mutation operation against a remote collection.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Valid reports whether op is a known mutation operation.
func (op Op) Valid() bool {
	return op == OpAdd || op == OpUpdate || op == OpDelete
}

// Store defines the contract for the local mirror of remote collections.
// Adhering to this interface keeps the core independent of the backing
// mechanism (in-memory map, on-disk key-value store, etc).
//
// Replace is the only operation that reflects server truth; UpsertOne and
// RemoveOne are advisory edits for same-process responsiveness and are
// overwritten by the next Replace. Implementations must expose writes
// atomically: a reader never observes a mix of pre- and post-replace
// entries.
type Store interface {
	// Get returns the last committed snapshot for kind, or nil if the
	// collection has never been populated. Callers must not mutate the
	// returned slice.
	Get(kind Kind) []Note

	// Replace swaps the whole collection for kind with a fresh snapshot.
	Replace(kind Kind, notes []Note)

	// UpsertOne inserts or overwrites a single entry by key.
	UpsertOne(kind Kind, note Note)

	// RemoveOne deletes a single entry by key, if present.
	RemoveOne(kind Kind, key string)

	// Clear drops the collection for kind.
	Clear(kind Kind)

	// ClearAll drops every collection.
	ClearAll()
}

// Fetcher retrieves an entire remote collection across however many pages
// it spans. It never touches the Store; callers decide whether to commit
// the result.
type Fetcher interface {
	// FetchAll returns the complete collection for kind, or an error if
	// any page failed. A partial result is never returned as complete.
	FetchAll(ctx context.Context, kind Kind, token string) ([]Note, error)
}

// Mutator executes exactly one remote create/update/delete call.
type Mutator interface {
	Mutate(ctx context.Context, kind Kind, op Op, note Note, token string) error
}

// CredentialProvider yields the opaque bearer credential for remote calls.
// An empty token with a nil error means "not signed in".
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// Broadcaster fans a fresh snapshot out to every live consumer context.
// Delivery is best-effort and at-most-once; failures are the broadcaster's
// to log, never the caller's to handle.
type Broadcaster interface {
	Broadcast(kind Kind, notes []Note)
}
