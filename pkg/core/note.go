package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies one independent note collection. Each kind has its own
// cache key, REST path, and broadcast message type.
type Kind string

const (
	KindTwitter Kind = "twitter_notes"
	KindWallet  Kind = "wallet_notes"
)

// Kinds returns every known collection kind.
func Kinds() []Kind {
	return []Kind{KindTwitter, KindWallet}
}

// Valid reports whether k is a known collection kind.
func (k Kind) Valid() bool {
	return k == KindTwitter || k == KindWallet
}

// Path returns the REST path segment for the kind's endpoints,
// e.g. "twitter" for POST {base}/twitter/notes/list.
func (k Kind) Path() string {
	switch k {
	case KindTwitter:
		return "twitter"
	case KindWallet:
		return "wallet"
	}
	return string(k)
}

// MessageType returns the cross-context message type emitted after a
// successful resync, e.g. "TWITTER_NOTES_CACHE_UPDATED".
func (k Kind) MessageType() string {
	return strings.ToUpper(string(k)) + "_CACHE_UPDATED"
}

// Note is the central entity of the domain: an annotation attached to some
// externally identified subject. Concrete variants share the Key contract
// but carry different attributes.
type Note interface {
	// Key uniquely identifies the note within its collection.
	Key() string

	// NoteKind returns the collection the note belongs to.
	NoteKind() Kind
}

// TwitterNote annotates a social-media account, keyed by the opaque
// account identifier.
type TwitterNote struct {
	ID        string   `json:"twitter_id"`
	Name      string   `json:"name,omitempty"`
	Handle    string   `json:"username,omitempty"`
	AvatarURL string   `json:"avatar,omitempty"`
	Note      string   `json:"note,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt int64    `json:"created_at,omitempty"`
}

func (n TwitterNote) Key() string    { return n.ID }
func (n TwitterNote) NoteKind() Kind { return KindTwitter }

// WalletNote annotates a blockchain wallet address. The same address may
// exist on several networks, so the key is the (address, network) pair.
type WalletNote struct {
	Address   string `json:"address"`
	Network   string `json:"network"`
	Note      string `json:"note,omitempty"`
	Source    string `json:"source,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

func (n WalletNote) Key() string    { return n.Address + "@" + n.Network }
func (n WalletNote) NoteKind() Kind { return KindWallet }

// CacheUpdate is the message fanned out to consumer contexts after a
// successful resync. Notes is always a complete snapshot, never a delta.
type CacheUpdate struct {
	Type  string `json:"type"`
	Kind  Kind   `json:"kind"`
	Notes []Note `json:"notes"`
}

// NewCacheUpdate builds the broadcast message for a fresh snapshot.
func NewCacheUpdate(kind Kind, notes []Note) CacheUpdate {
	return CacheUpdate{Type: kind.MessageType(), Kind: kind, Notes: notes}
}

// EventType represents the type of change observed on a mirrored collection.
type EventType string

const (
	EventReplaced EventType = "REPLACED"
	EventCleared  EventType = "CLEARED"
)

// Event represents a change to a mirrored collection, as seen by an
// out-of-process consumer (e.g. the snapshot watcher).
type Event struct {
	Type      EventType
	Kind      Kind
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer so Event satisfies generic event sinks.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Kind)
}

// DecodeNotes unmarshals a JSON array into the concrete note variant for
// kind. Shared by the REST adapter (server payloads) and the persistent
// store (snapshot files).
func DecodeNotes(kind Kind, data []byte) ([]Note, error) {
	switch kind {
	case KindTwitter:
		var raw []TwitterNote
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		notes := make([]Note, len(raw))
		for i, n := range raw {
			notes[i] = n
		}
		return notes, nil
	case KindWallet:
		var raw []WalletNote
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		notes := make([]Note, len(raw))
		for i, n := range raw {
			notes[i] = n
		}
		return notes, nil
	}
	return nil, fmt.Errorf("decode: unknown kind %q", kind)
}

// EncodeNotes marshals a snapshot to JSON. The concrete variants carry the
// type information, so encoding is kind-agnostic.
func EncodeNotes(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	return json.Marshal(notes)
}
