package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoBrokersIsNoop(t *testing.T) {
	p := New(nil)
	_, ok := p.(Noop)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), TopicUsers, "k", map[string]any{"type": "x"}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokers(t *testing.T) {
	p := New([]string{"localhost:9092"})
	prod, ok := p.(*Producer)
	require.True(t, ok)
	assert.Equal(t, "localhost:9092", prod.writer.Addr.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, TopicUsers, "mario", map[string]any{"type": "user_registered", "username": "mario"}))
	require.NoError(t, r.Publish(ctx, TopicGroups, "g", map[string]any{"type": "group_created"}))

	assert.Len(t, r.Events(), 2)
	ev, ok := r.Last(TopicUsers)
	require.True(t, ok)
	assert.Equal(t, "mario", ev.Key)
	assert.Equal(t, "user_registered", ev.Event["type"])

	_, ok = r.Last(TopicTransactions)
	assert.False(t, ok)
}

func TestNewEvent(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), TopicCategories, "food", NewEvent("category_created", map[string]string{"type": "food"})))

	ev, ok := r.Last(TopicCategories)
	require.True(t, ok)
	assert.Equal(t, "category_created", ev.Event["type"])
	assert.NotEmpty(t, ev.Event["occurredAt"])
	assert.Equal(t, map[string]any{"type": "food"}, ev.Event["payload"])
}
