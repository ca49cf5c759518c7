package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(UpdatedEvent, "payload")

	msg := ListenCmd(ctx, ch)()

	ev, ok := msg.(Event[string])
	require.True(t, ok, "msg should be Event[string]")
	require.Equal(t, "payload", ev.Payload)
}

func TestListenCmd_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := ListenCmd(ctx, make(chan Event[string]))()

	require.Nil(t, msg)
}

func TestListenCmd_ClosedChannel(t *testing.T) {
	ch := make(chan Event[int])
	close(ch)

	msg := ListenCmd(context.Background(), ch)()

	require.Nil(t, msg)
}

func TestListener_Sequence(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener[int](ctx, broker)

	broker.Publish(CreatedEvent, 1)
	broker.Publish(LoadedEvent, 2)

	first, ok := listener.Listen()().(Event[int])
	require.True(t, ok)
	require.Equal(t, CreatedEvent, first.Type)

	second, ok := listener.Listen()().(Event[int])
	require.True(t, ok)
	require.Equal(t, LoadedEvent, second.Type)
	require.Equal(t, 2, second.Payload)
}
