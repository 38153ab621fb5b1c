package notifications

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pet-care-planner/internal/domain/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFeed_PublishOnlyReachesOwner(t *testing.T) {
	f := NewFeed(4)

	a, err := f.Subscribe("o1")
	require.NoError(t, err)
	defer a.Close()
	b, err := f.Subscribe("o2")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 1, f.Publish("o1", Event{Type: EventCreated}))

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 0)
}

func TestFeed_CloseIsIdempotent(t *testing.T) {
	f := NewFeed(1)
	s, err := f.Subscribe("o1")
	require.NoError(t, err)

	s.Close()
	s.Close()

	_, open := <-s.Events()
	assert.False(t, open)
	assert.Equal(t, 0, f.Active("o1"))
	assert.Equal(t, 0, f.Publish("o1", Event{Type: EventRead}))
}

func TestFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	f := NewFeed(1)
	s, err := f.Subscribe("o1")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1, f.Publish("o1", Event{Type: EventCreated}))
	assert.Equal(t, 0, f.Publish("o1", Event{Type: EventCreated}))
}

func TestFeed_ReleaseOwnerEndsConsumers(t *testing.T) {
	f := NewFeed(4)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		s, err := f.Subscribe("o1")
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range s.Events() {
			}
		}()
	}
	other, err := f.Subscribe("o2")
	require.NoError(t, err)
	defer other.Close()

	assert.Equal(t, 3, f.ReleaseOwner("o1"))
	wg.Wait()

	assert.Equal(t, 0, f.Active("o1"))
	assert.Equal(t, 1, f.Active("o2"))
}

func TestFeed_SubscribeRequiresOwner(t *testing.T) {
	_, err := NewFeed(0).Subscribe("")
	assert.ErrorIs(t, err, schedule.ErrNotAuthenticated)
}

func TestFeed_CloseAllEndsEveryOwner(t *testing.T) {
	f := NewFeed(4)

	var wg sync.WaitGroup
	for _, owner := range []string{"o1", "o1", "o2"} {
		s, err := f.Subscribe(owner)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range s.Events() {
			}
		}()
	}

	f.CloseAll()
	wg.Wait()

	assert.Equal(t, 0, f.Active("o1"))
	assert.Equal(t, 0, f.Active("o2"))
	// sin handles es no-op
	f.CloseAll()
}
