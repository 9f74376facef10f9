package gemini

import (
	"context"
	"strings"

	"github.com/lawdit/lawdit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Default request budgets.
const (
	DefaultRequestsPerMinute = 60
	DefaultTokensPerMinute   = 90000
)

// imageTokens approximates the cost of one inline image.
const imageTokens = 258

var _ ContentGenerator = (*Throttle)(nil)

// Throttle applies requests-per-minute and tokens-per-minute budgets in
// front of a ContentGenerator. It is safe for concurrent use.
type Throttle struct {
	gen      ContentGenerator
	counter  lawdit.TokenCounter
	requests *rate.Limiter
	tokens   *rate.Limiter
}

// NewThrottle creates a Throttle. A non-positive rpm or tpm disables that
// budget. A nil counter falls back to a four-characters-per-token estimate.
func NewThrottle(gen ContentGenerator, counter lawdit.TokenCounter, rpm, tpm int) *Throttle {
	t := &Throttle{gen: gen, counter: counter}
	if rpm > 0 {
		t.requests = rate.NewLimiter(rate.Limit(float64(rpm)/60), rpm)
	}
	if tpm > 0 {
		t.tokens = rate.NewLimiter(rate.Limit(float64(tpm)/60), tpm)
	}
	return t
}

// GenerateContent waits for both budgets, then delegates.
func (t *Throttle) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if t.requests != nil {
		if err := t.requests.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if t.tokens != nil {
		n := min(t.estimate(ctx, contents), t.tokens.Burst())
		if err := t.tokens.WaitN(ctx, n); err != nil {
			return nil, err
		}
	}
	return t.gen.GenerateContent(ctx, model, contents, config)
}

func (t *Throttle) estimate(ctx context.Context, contents []*genai.Content) int {
	var sb strings.Builder
	var images int
	for _, c := range contents {
		if c == nil {
			continue
		}
		for _, p := range c.Parts {
			switch {
			case p == nil:
			case p.Text != "":
				sb.WriteString(p.Text)
				sb.WriteByte('\n')
			case p.InlineData != nil:
				images++
			}
		}
	}

	text := sb.String()
	n := (len(text) + 3) / 4
	if t.counter != nil {
		if counted, err := t.counter.CountTokens(ctx, text); err == nil {
			n = counted
		}
	}
	return max(n+images*imageTokens, 1)
}
