package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notemirror/notemirror/pkg/core"
)

func TestKindHelpers(t *testing.T) {
	assert.True(t, core.KindTwitter.Valid())
	assert.True(t, core.KindWallet.Valid())
	assert.False(t, core.Kind("discord_notes").Valid())

	assert.Equal(t, "TWITTER_NOTES_CACHE_UPDATED", core.KindTwitter.MessageType())
	assert.Equal(t, "WALLET_NOTES_CACHE_UPDATED", core.KindWallet.MessageType())

	assert.Equal(t, "twitter", core.KindTwitter.Path())
	assert.Equal(t, "wallet", core.KindWallet.Path())
}

func TestNoteKeys(t *testing.T) {
	tw := core.TwitterNote{ID: "44196397", Handle: "elonmusk"}
	assert.Equal(t, "44196397", tw.Key())
	assert.Equal(t, core.KindTwitter, tw.NoteKind())

	// The same address on two networks yields two distinct keys.
	a := core.WalletNote{Address: "0xdead", Network: "eth"}
	b := core.WalletNote{Address: "0xdead", Network: "bsc"}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, core.KindWallet, a.NoteKind())
}

func TestDecodeNotes(t *testing.T) {
	data := []byte(`[{"twitter_id":"1","username":"alice","note":"dev","tags":["builder"]}]`)

	notes, err := core.DecodeNotes(core.KindTwitter, data)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	tw, ok := notes[0].(core.TwitterNote)
	require.True(t, ok)
	assert.Equal(t, "alice", tw.Handle)
	assert.Equal(t, []string{"builder"}, tw.Tags)
}

func TestDecodeNotesRejectsUnknownKind(t *testing.T) {
	_, err := core.DecodeNotes(core.Kind("bogus"), []byte(`[]`))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []core.Note{
		core.WalletNote{Address: "0xabc", Network: "eth", Note: "cold storage", Source: "manual"},
	}

	data, err := core.EncodeNotes(in)
	require.NoError(t, err)

	out, err := core.DecodeNotes(core.KindWallet, data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0], out[0])
}

func TestCacheUpdateMessage(t *testing.T) {
	msg := core.NewCacheUpdate(core.KindWallet, nil)
	assert.Equal(t, "WALLET_NOTES_CACHE_UPDATED", msg.Type)
	assert.Equal(t, core.KindWallet, msg.Kind)
}
