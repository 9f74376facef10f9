package lawdit_test

import (
	"context"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAsker verifies Asker interface can be implemented.
type mockAsker struct {
	AskFn func(ctx context.Context, dataRoomID, question string) (string, error)
}

func (m *mockAsker) Ask(ctx context.Context, dataRoomID, question string) (string, error) {
	return m.AskFn(ctx, dataRoomID, question)
}

var _ lawdit.Asker = (*mockAsker)(nil)

func TestAsker_CanBeImplemented(t *testing.T) {
	t.Parallel()

	asker := &mockAsker{
		AskFn: func(_ context.Context, dataRoomID, question string) (string, error) {
			return "answer to " + question, nil
		},
	}

	answer, err := asker.Ask(context.Background(), "room-1", "who are the parties?")

	require.NoError(t, err)
	assert.Equal(t, "answer to who are the parties?", answer)
}
