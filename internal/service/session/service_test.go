package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionGeneratesId(t *testing.T) {
	svc := New(10)

	id := svc.CreateSession(context.Background(), "")
	assert.NotEmpty(t, id)
	assert.Contains(t, svc.ListSessionIds(context.Background()), id)
}

func TestCreateSessionKeepsExplicitId(t *testing.T) {
	svc := New(10)

	id := svc.CreateSession(context.Background(), "customer-7")
	assert.Equal(t, "customer-7", id)

	// Re-creating the same session keeps its history.
	svc.Append(context.Background(), id, "user", "hello", nil)
	svc.CreateSession(context.Background(), "customer-7")
	assert.Len(t, svc.History(context.Background(), id), 1)
}

func TestAppendPreservesOrder(t *testing.T) {
	svc := New(10)
	id := svc.CreateSession(context.Background(), "")

	svc.Append(context.Background(), id, "user", "first", nil)
	svc.Append(context.Background(), id, "assistant", "second", nil)
	svc.Append(context.Background(), id, "tool", "third", map[string]string{"tool": "get_formatted_items_context"})

	history := svc.History(context.Background(), id)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.Equal(t, "tool", history[2].Role)
}

func TestAppendEnforcesWindow(t *testing.T) {
	svc := New(3)
	id := svc.CreateSession(context.Background(), "")

	for i := 0; i < 5; i++ {
		svc.Append(context.Background(), id, "user", fmt.Sprintf("msg-%d", i), nil)
	}

	history := svc.History(context.Background(), id)
	require.Len(t, history, 3)
	assert.Equal(t, "msg-2", history[0].Content)
	assert.Equal(t, "msg-4", history[2].Content)
}

func TestAppendIgnoresBlankContent(t *testing.T) {
	svc := New(10)
	id := svc.CreateSession(context.Background(), "")

	svc.Append(context.Background(), id, "user", "   ", nil)
	assert.Empty(t, svc.History(context.Background(), id))
}

func TestDeleteSession(t *testing.T) {
	svc := New(10)
	id := svc.CreateSession(context.Background(), "")
	svc.Append(context.Background(), id, "user", "hello", nil)

	svc.DeleteSession(context.Background(), id)
	assert.Empty(t, svc.History(context.Background(), id))
	assert.NotContains(t, svc.ListSessionIds(context.Background()), id)
}
