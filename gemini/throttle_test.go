package gemini_test

import (
	"context"
	"testing"
	"time"

	"github.com/lawdit/lawdit/gemini"
	"github.com/lawdit/lawdit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestThrottle(t *testing.T) {
	t.Parallel()

	contents := func(text string) []*genai.Content {
		return []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	}

	t.Run("delegates to generator", func(t *testing.T) {
		t.Parallel()

		gen := &scriptedGenerator{responses: []*genai.GenerateContentResponse{textResponse("ok")}}
		th := gemini.NewThrottle(gen, nil, 60, 90000)

		resp, err := th.GenerateContent(context.Background(), "m", contents("hello"), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text())
		assert.Len(t, gen.requests, 1)
	})

	t.Run("clamps oversized requests to the token burst", func(t *testing.T) {
		t.Parallel()

		gen := &scriptedGenerator{}
		counter := &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 1_000_000, nil },
		}
		th := gemini.NewThrottle(gen, counter, 0, 1000)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := th.GenerateContent(ctx, "m", contents("huge"), nil)

		require.NoError(t, err)
	})

	t.Run("waits when request budget is spent", func(t *testing.T) {
		t.Parallel()

		th := gemini.NewThrottle(&scriptedGenerator{}, nil, 1, 0)

		_, err := th.GenerateContent(context.Background(), "m", contents("first"), nil)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = th.GenerateContent(ctx, "m", contents("second"), nil)

		assert.Error(t, err)
	})

	t.Run("counts tokens with the counter", func(t *testing.T) {
		t.Parallel()

		var counted string
		counter := &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				counted = text
				return 1, nil
			},
		}
		th := gemini.NewThrottle(&scriptedGenerator{}, counter, 0, 100)

		_, err := th.GenerateContent(context.Background(), "m", contents("indemnity cap"), nil)

		require.NoError(t, err)
		assert.Contains(t, counted, "indemnity cap")
	})
}
