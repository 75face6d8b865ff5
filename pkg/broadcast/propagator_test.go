package broadcast

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notemirror/notemirror/pkg/core"
)

type testConsumer struct {
	id     string
	origin string

	mu       sync.Mutex
	received []core.CacheUpdate
	fail     error
	panics   bool
}

func (c *testConsumer) ID() string     { return c.id }
func (c *testConsumer) Origin() string { return c.origin }

func (c *testConsumer) Deliver(msg core.CacheUpdate) error {
	if c.panics {
		panic("consumer context torn down")
	}
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, msg)
	return nil
}

func (c *testConsumer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

func TestBroadcastReachesAllConsumers(t *testing.T) {
	p := New(nil, nil)
	a := &testConsumer{id: "a", origin: "https://x.com/home"}
	b := &testConsumer{id: "b", origin: "https://x.com/notifications"}
	p.Register(a)
	p.Register(b)

	p.Broadcast(core.KindTwitter, []core.Note{core.TwitterNote{ID: "1"}})

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())

	msg := a.received[0]
	assert.Equal(t, "TWITTER_NOTES_CACHE_UPDATED", msg.Type)
	assert.Len(t, msg.Notes, 1)
}

func TestOneFailingConsumerDoesNotStopFanout(t *testing.T) {
	// Consumer 2 errors on send; 1 and 3 still receive the update.
	p := New(nil, nil)
	c1 := &testConsumer{id: "1", origin: "https://x.com/a"}
	c2 := &testConsumer{id: "2", origin: "https://x.com/b", fail: errors.New("no listener")}
	c3 := &testConsumer{id: "3", origin: "https://x.com/c"}
	p.Register(c1)
	p.Register(c2)
	p.Register(c3)

	p.Broadcast(core.KindTwitter, nil)

	assert.Equal(t, 1, c1.count())
	assert.Equal(t, 0, c2.count())
	assert.Equal(t, 1, c3.count())
}

func TestPanickingConsumerIsIsolated(t *testing.T) {
	p := New(nil, nil)
	bad := &testConsumer{id: "bad", origin: "https://x.com/a", panics: true}
	good := &testConsumer{id: "good", origin: "https://x.com/b"}
	p.Register(bad)
	p.Register(good)

	assert.NotPanics(t, func() {
		p.Broadcast(core.KindWallet, nil)
	})
	assert.Equal(t, 1, good.count())
}

func TestOriginPatternsFilterConsumers(t *testing.T) {
	patterns := map[core.Kind][]string{
		core.KindTwitter: {"https://x.com/**", "https://twitter.com/**"},
	}
	p := New(patterns, nil)

	onSite := &testConsumer{id: "on", origin: "https://x.com/someuser"}
	offSite := &testConsumer{id: "off", origin: "https://example.com/page"}
	p.Register(onSite)
	p.Register(offSite)

	p.Broadcast(core.KindTwitter, nil)
	assert.Equal(t, 1, onSite.count())
	assert.Equal(t, 0, offSite.count())

	// A kind with no patterns matches everyone.
	p.Broadcast(core.KindWallet, nil)
	assert.Equal(t, 2, onSite.count())
	assert.Equal(t, 1, offSite.count())
}

func TestUnregister(t *testing.T) {
	p := New(nil, nil)
	c := &testConsumer{id: "c", origin: "https://x.com"}
	p.Register(c)
	require.Equal(t, 1, p.ConsumerCount())

	p.Unregister("c")
	assert.Equal(t, 0, p.ConsumerCount())

	p.Broadcast(core.KindTwitter, nil)
	assert.Equal(t, 0, c.count())
}
