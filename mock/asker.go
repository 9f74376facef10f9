package mock

import (
	"context"

	"github.com/lawdit/lawdit"
)

var _ lawdit.Asker = (*Asker)(nil)

// Asker is a mock implementation of lawdit.Asker.
type Asker struct {
	AskFn func(ctx context.Context, dataRoomID, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, dataRoomID, question string) (string, error) {
	return a.AskFn(ctx, dataRoomID, question)
}
