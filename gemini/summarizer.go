package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawdit/lawdit"
	"google.golang.org/genai"
)

// Output token caps for summaries.
const (
	PageSummaryMaxTokens     = 300
	DocumentSummaryMaxTokens = 500
)

// Ensure Summarizer implements lawdit.Summarizer at compile time.
var _ lawdit.Summarizer = (*Summarizer)(nil)

// Summarizer describes page images and synthesizes document summaries.
type Summarizer struct {
	gen   ContentGenerator
	model string
}

// NewSummarizer creates a Summarizer. An empty model selects DefaultModel.
func NewSummarizer(gen ContentGenerator, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{gen: gen, model: model}
}

// SummarizePage sends the PNG page image inline with the page prompt.
func (s *Summarizer) SummarizePage(ctx context.Context, image []byte, pageNum int) (string, error) {
	if len(image) == 0 {
		return "", lawdit.Errorf(lawdit.EINVALID, "page %d: empty image", pageNum)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(BuildPagePrompt(pageNum)),
			genai.NewPartFromBytes(image, "image/png"),
		}, genai.RoleUser),
	}
	return s.generate(ctx, contents, PageSummaryMaxTokens)
}

// SummarizeDocument combines page summaries into a document summary.
func (s *Summarizer) SummarizeDocument(ctx context.Context, fileName string, pages []*lawdit.Page) (string, error) {
	if len(pages) == 0 {
		return "", lawdit.Errorf(lawdit.EINVALID, "%s: no page summaries", fileName)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildDocumentPrompt(fileName, pages), genai.RoleUser),
	}
	return s.generate(ctx, contents, DocumentSummaryMaxTokens)
}

func (s *Summarizer) generate(ctx context.Context, contents []*genai.Content, maxTokens int32) (string, error) {
	resp, err := s.gen.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: maxTokens,
		Temperature:     ptr(float32(0.2)),
		// Thinking tokens count against MaxOutputTokens.
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: ptr(int32(0))},
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", lawdit.Errorf(lawdit.EINTERNAL, "gemini returned nil result")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", lawdit.Errorf(lawdit.EINTERNAL, "gemini returned empty summary")
	}
	return text, nil
}

// BuildPagePrompt returns the instruction sent with a page image.
func BuildPagePrompt(pageNum int) string {
	return fmt.Sprintf(`You are analyzing page %d of a legal document.
Please provide a concise summary that captures:

1. The type of content on this page (e.g., contract clause, financial table, signature block, exhibit)
2. Key information present (parties, dates, amounts, obligations, terms)
3. Any notable or concerning provisions
4. References to other documents or sections

Be specific and factual. Focus on information that would be relevant for legal risk assessment.
Keep your summary to 2-3 sentences unless the page contains complex information requiring more detail.`, pageNum)
}

// BuildDocumentPrompt returns the prompt synthesizing page summaries.
func BuildDocumentPrompt(fileName string, pages []*lawdit.Page) string {
	blocks := make([]string, 0, len(pages))
	for _, p := range pages {
		blocks = append(blocks, fmt.Sprintf("Page %d: %s", p.Number, p.Summary))
	}

	return fmt.Sprintf(`You are creating a comprehensive summary of the document %q
based on individual page summaries.

Here are the summaries of each page:

%s

Please provide a document-level summary that:

1. Identifies the document type and purpose
2. Lists the main parties involved
3. Summarizes key terms, provisions, or information
4. Notes any concerning clauses or unusual provisions
5. Highlights important dates, amounts, or obligations
6. Indicates the document's relevance for legal due diligence

Your summary should be comprehensive but concise (approximately 150-200 words).
Focus on information that would help a legal analyst understand this document's
significance without reading every page.`, fileName, strings.Join(blocks, "\n\n"))
}
