package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notemirror/notemirror/pkg/core"
)

func twitterNotes(ids ...string) []core.Note {
	notes := make([]core.Note, len(ids))
	for i, id := range ids {
		notes[i] = core.TwitterNote{ID: id}
	}
	return notes
}

func TestReplaceAndGet(t *testing.T) {
	s := New()
	assert.Nil(t, s.Get(core.KindTwitter))

	s.Replace(core.KindTwitter, twitterNotes("1", "2"))
	require.Len(t, s.Get(core.KindTwitter), 2)

	// Replaying the same replace leaves the view unchanged.
	s.Replace(core.KindTwitter, twitterNotes("1", "2"))
	require.Len(t, s.Get(core.KindTwitter), 2)

	// Collections are independent.
	assert.Nil(t, s.Get(core.KindWallet))
}

func TestReplaceCopiesInput(t *testing.T) {
	s := New()
	input := twitterNotes("1", "2")
	s.Replace(core.KindTwitter, input)

	input[0] = core.TwitterNote{ID: "mutated"}

	assert.Equal(t, "1", s.Get(core.KindTwitter)[0].Key())
}

func TestUpsertOne(t *testing.T) {
	s := New()
	s.Replace(core.KindTwitter, twitterNotes("1", "2"))

	// Insert
	s.UpsertOne(core.KindTwitter, core.TwitterNote{ID: "3"})
	require.Len(t, s.Get(core.KindTwitter), 3)

	// Overwrite keeps keys unique
	s.UpsertOne(core.KindTwitter, core.TwitterNote{ID: "2", Note: "updated"})
	notes := s.Get(core.KindTwitter)
	require.Len(t, notes, 3)

	keys := map[string]int{}
	for _, n := range notes {
		keys[n.Key()]++
	}
	assert.Equal(t, 1, keys["2"], "no duplicate keys after upsert")
}

func TestRemoveOne(t *testing.T) {
	s := New()
	s.Replace(core.KindTwitter, twitterNotes("1", "2", "3"))

	s.RemoveOne(core.KindTwitter, "2")
	require.Len(t, s.Get(core.KindTwitter), 2)

	// Removing an absent key is a no-op.
	s.RemoveOne(core.KindTwitter, "nope")
	require.Len(t, s.Get(core.KindTwitter), 2)
}

func TestClear(t *testing.T) {
	s := New()
	s.Replace(core.KindTwitter, twitterNotes("1"))
	s.Replace(core.KindWallet, []core.Note{core.WalletNote{Address: "a", Network: "eth"}})

	s.Clear(core.KindTwitter)
	assert.Nil(t, s.Get(core.KindTwitter))
	assert.Len(t, s.Get(core.KindWallet), 1)

	s.ClearAll()
	assert.Nil(t, s.Get(core.KindWallet))
}

// TestNoTornReads hammers Replace from one goroutine while readers check
// that every observed snapshot is internally consistent (all entries from
// the same generation).
func TestNoTornReads(t *testing.T) {
	s := New()

	generation := func(gen int) []core.Note {
		notes := make([]core.Note, 10)
		for i := range notes {
			notes[i] = core.TwitterNote{ID: fmt.Sprintf("g%d-%d", gen, i), Note: fmt.Sprintf("%d", gen)}
		}
		return notes
	}
	s.Replace(core.KindTwitter, generation(0))

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1; gen <= 500; gen++ {
			s.Replace(core.KindTwitter, generation(gen))
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				notes := s.Get(core.KindTwitter)
				first := notes[0].(core.TwitterNote).Note
				for _, n := range notes {
					if n.(core.TwitterNote).Note != first {
						t.Errorf("torn read: mixed generations %s and %s", first, n.(core.TwitterNote).Note)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
}

func TestStoreIntrospection(t *testing.T) {
	s := New()
	s.Replace(core.KindTwitter, twitterNotes("1", "2"))

	state, ok := s.State().(StoreState)
	require.True(t, ok)
	assert.Equal(t, 2, state.Collections[core.KindTwitter])
	assert.Equal(t, "memory-store", s.ComponentType())
}
