package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawdit/lawdit"
	"google.golang.org/genai"
)

// Ensure Asker implements lawdit.Asker at compile time.
var _ lawdit.Asker = (*Asker)(nil)

// Asker implements lawdit.Asker using Google Gemini.
type Asker struct {
	gen   ContentGenerator
	docs  lawdit.DocumentFinder
	model string
}

// NewAsker creates a new Asker. An empty model selects DefaultModel.
func NewAsker(gen ContentGenerator, docs lawdit.DocumentFinder, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{gen: gen, docs: docs, model: model}
}

// Ask answers a question from the document and page summaries of a data room.
func (a *Asker) Ask(ctx context.Context, dataRoomID, question string) (string, error) {
	if dataRoomID == "" {
		return "", lawdit.Errorf(lawdit.EINVALID, "data room ID required")
	}
	if strings.TrimSpace(question) == "" {
		return "", lawdit.Errorf(lawdit.EINVALID, "question required")
	}

	docs, err := a.docs.FindDocuments(ctx, lawdit.DocumentFilter{DataRoomID: &dataRoomID})
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", lawdit.Errorf(lawdit.ENOTFOUND, "no documents found for data room %q", dataRoomID)
	}

	result, err := a.gen.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(BuildUserPrompt(docs, question), genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", lawdit.Errorf(lawdit.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for question answering.
func BuildConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are a legal due diligence assistant answering questions about the documents of a data room. "+
				"Answer based only on the document summaries provided and cite the file names you rely on. "+
				"If the answer is not in the summaries, say so.",
			genai.RoleUser),
		Temperature: ptr(float32(0.4)),
	}
}

// BuildUserPrompt builds the user prompt containing the summaries and question.
func BuildUserPrompt(docs []*lawdit.Document, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, doc := range docs {
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<id>%s</id>\n", doc.ID)
		fmt.Fprintf(&sb, "<file>%s</file>\n", doc.FileName)
		fmt.Fprintf(&sb, "<summary>%s</summary>\n", doc.Summary)
		for _, p := range doc.Pages {
			fmt.Fprintf(&sb, "<page number=\"%d\">%s</page>\n", p.Number, p.Summary)
		}
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
