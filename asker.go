package lawdit

import "context"

// Asker provides natural language question answering over a data room.
type Asker interface {
	// Ask answers a natural language question about a data room's documents.
	// Returns ENOTFOUND if the data room has no indexed documents.
	Ask(ctx context.Context, dataRoomID string, question string) (string, error)
}
