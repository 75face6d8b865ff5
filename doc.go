// Package notemirror mirrors server-held annotation collections ("notes"
// attached to social-media accounts and wallet addresses) into a local
// cache shared by several isolated consumer contexts.
//
// The hard problem it solves is cache coherence with cross-context
// messaging: a mutation issued from one context is applied server-side,
// acknowledged immediately, and the local mirror is brought back into
// agreement with the server by an asynchronous whole-collection resync
// that every other live context is then notified about. Consistency is
// eventual and whole-collection; a context that misses a notification
// converges by pulling full state on its next activation.
//
// Architecture:
//
//   - **Hexagonal**: the coordination core (pkg/core) is isolated from
//     transport and storage details behind small ports.
//   - **REST adapter**: paginated whole-collection fetches and single-shot
//     mutations against the annotation service.
//   - **Mirror stores**: in-memory (default) or diskv-backed persistent
//     snapshots, both copy-on-write so readers never observe torn state.
//   - **Broadcast**: best-effort, at-most-once fan-out to registered
//     consumers, matched by origin pattern.
//   - **Handoff**: gesture-safe surface opening with bounded-retry payload
//     delivery.
//
// Usage:
//
//	// Assemble the mirror with functional options
//	m, err := notemirror.New("https://api.example.com",
//		notemirror.WithToken(token),
//		notemirror.WithLogger(logger),
//	)
//
//	// Mutate and let the mirror catch up in the background
//	err = m.Mutate(ctx, core.KindTwitter, core.OpAdd, note)
package notemirror
