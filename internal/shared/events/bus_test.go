package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeAndEmit(t *testing.T) {
	b := NewBus()

	var got []Event
	b.Subscribe("change", func(ev Event) {
		got = append(got, ev)
	})

	b.Emit("change", Detail{"name": "a"})
	b.Emit("other", Detail{"name": "b"})
	b.Emit("change", nil)

	assert.Len(t, got, 2)
	assert.Equal(t, "change", got[0].Topic)
	assert.Equal(t, "a", got[0].Detail["name"])
	assert.Nil(t, got[1].Detail)
}

func TestSubscribeAll(t *testing.T) {
	b := NewBus()

	var topics []string
	b.SubscribeAll(func(ev Event) {
		topics = append(topics, ev.Topic)
	})

	b.Emit("a", nil)
	b.Emit("b", nil)

	assert.Equal(t, []string{"a", "b"}, topics)
}

func TestCancelRemovesSubscription(t *testing.T) {
	b := NewBus()

	calls := 0
	cancel := b.Subscribe("change", func(Event) { calls++ })

	b.Emit("change", nil)
	cancel()
	b.Emit("change", nil)
	// A second cancel is a no-op.
	cancel()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.SubscriberCount("change"))
}

func TestPanickingHandlerDoesNotStopFanout(t *testing.T) {
	b := NewBus()

	b.Subscribe("change", func(Event) { panic("boom") })
	called := false
	b.Subscribe("change", func(Event) { called = true })

	assert.NotPanics(t, func() {
		b.Emit("change", nil)
	})
	assert.True(t, called)
}

func TestConcurrentEmitAndSubscribe(t *testing.T) {
	b := NewBus()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cancel := b.Subscribe("change", func(Event) {})
			cancel()
		}()
		go func() {
			defer wg.Done()
			b.Emit("change", Detail{"n": 1})
		}()
	}
	wg.Wait()
}
