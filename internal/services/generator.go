package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"flashdeck-backend/internal/models"
)

// DefaultNumCards is used when the caller does not request a count.
const DefaultNumCards = 10

// FlashcardGenerator turns free text into question/answer pairs. The real
// implementation calls Gemini; the fake is deterministic and offline. Which
// one runs is a configuration decision made at wiring time.
type FlashcardGenerator interface {
	Generate(ctx context.Context, text string, numCards int) ([]models.GeneratedCard, error)
}

// GeminiGenerator calls the Gemini API. The call blocks until the API
// responds or fails; there is no retry and no internal timeout.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Close() {
	g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, text string, numCards int) ([]models.GeneratedCard, error) {
	if numCards <= 0 {
		numCards = DefaultNumCards
	}

	prompt := buildFlashcardPrompt(text, numCards)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return parseFlashcardResponse(extractText(resp)), nil
}

// StaticGenerator is the deterministic offline implementation, selected by
// AI_PROVIDER=fake. It derives cards from the input sentences so development
// and tests never depend on the external API.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (g *StaticGenerator) Generate(ctx context.Context, text string, numCards int) ([]models.GeneratedCard, error) {
	if numCards <= 0 {
		numCards = DefaultNumCards
	}

	sentences := splitSentences(text)
	cards := make([]models.GeneratedCard, 0, numCards)
	for i, s := range sentences {
		if len(cards) >= numCards {
			break
		}
		cards = append(cards, models.GeneratedCard{
			Question: fmt.Sprintf("What does the source state in part %d?", i+1),
			Answer:   s,
		})
	}
	return cards, nil
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// buildFlashcardPrompt produces the fixed instruction prompt: the requested
// count, the authoring guidelines, one example pair, then the source text.
func buildFlashcardPrompt(text string, numCards int) string {
	var b strings.Builder

	b.WriteString("You are an expert flashcard creator. Generate high-quality study flashcards from the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array of objects with \"question\" and \"answer\" fields. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d flashcards.\n\n", numCards))

	b.WriteString(`Guidelines:
- Questions must be specific, never vague
- Answers must be concise and self-contained
- Mix factual recall with conceptual understanding
- No two cards may test the same fact

Example:
[{"question": "What is the capital of France?", "answer": "Paris"}]
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(text)
	b.WriteString("\n---END---\n")

	return b.String()
}

// qaPattern matches one "Q: ... / A: ..." block, optionally numbered.
var qaPattern = regexp.MustCompile(`(?m)^[ \t]*(?:\d+[.)][ \t]*)?Q:[ \t]*(.+)\r?\n[ \t]*A:[ \t]*(.+)$`)

// parseFlashcardResponse recovers question/answer pairs from a raw model
// response. Order of attempts: fenced or bare JSON array, a bracketed slice
// of the text, then a scan for Q:/A: blocks. Malformed output never errors;
// the worst case is an empty list.
func parseFlashcardResponse(raw string) []models.GeneratedCard {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var cards []models.GeneratedCard
	if err := json.Unmarshal([]byte(text), &cards); err == nil {
		return wellFormed(cards)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &cards); err == nil {
			return wellFormed(cards)
		}
	}

	cards = cards[:0]
	for _, m := range qaPattern.FindAllStringSubmatch(raw, -1) {
		q := strings.TrimSpace(m[1])
		a := strings.TrimSpace(m[2])
		if q != "" && a != "" {
			cards = append(cards, models.GeneratedCard{Question: q, Answer: a})
		}
	}
	return cards
}

func wellFormed(cards []models.GeneratedCard) []models.GeneratedCard {
	out := make([]models.GeneratedCard, 0, len(cards))
	for _, c := range cards {
		if strings.TrimSpace(c.Question) != "" && strings.TrimSpace(c.Answer) != "" {
			out = append(out, models.GeneratedCard{
				Question: strings.TrimSpace(c.Question),
				Answer:   strings.TrimSpace(c.Answer),
			})
		}
	}
	return out
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
