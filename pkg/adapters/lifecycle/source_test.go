package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/botstrap/pkg/core"
)

func TestSource_ForwardsFilteredEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event, 3)
	in <- core.Event{Type: core.EventModify, Name: "notes", Path: "/bots/my/notes.json"}
	in <- core.Event{Type: core.EventModify, Name: core.ConfigModuleName, Path: "/bots/my/cfgs.yaml"}
	close(in)

	src := NewSource(in, Artifacts(core.BotModuleName, core.ConfigModuleName, core.MetaModuleName))
	require.NoError(t, src.Start(ctx))

	var got []core.Event
	for e := range src.Events() {
		ev, ok := e.(core.Event)
		require.True(t, ok, "unexpected event type %T", e)
		got = append(got, ev)
	}

	require.Len(t, got, 1)
	assert.Equal(t, core.ConfigModuleName, got[0].Name)
}

func TestSource_NilFilterForwardsAll(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventCreate, Name: "a"}
	in <- core.Event{Type: core.EventDelete, Name: "b"}
	close(in)

	src := NewSource(in, nil)
	require.NoError(t, src.Start(ctx))

	count := 0
	for range src.Events() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestSource_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(make(chan core.Event), nil)
	require.NoError(t, src.Start(ctx))

	cancel()
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}
}
