package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/aristath/advisor/internal/modules/portfolio"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const systemInstruction = `
You are a financial analyst writing a portfolio report for a private investor.
Write in Markdown with these sections: Summary, Asset allocation, Instruments
(one subsection per instrument), Correlation and diversification, Risks.
Use only the figures provided. If data is marked synthetic, say that the
figures are placeholders. Do not give personalised investment advice.
`

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator generates text with a Gemini model.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini client for the given API key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// GenerateText sends a single-turn prompt.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return resp.Text(), nil
}

// GenAIWriter asks a language model to write the report.
type GenAIWriter struct {
	generator TextGenerator
	log       zerolog.Logger
}

// NewGenAIWriter creates a new AI-backed writer
func NewGenAIWriter(generator TextGenerator, log zerolog.Logger) *GenAIWriter {
	return &GenAIWriter{
		generator: generator,
		log:       log.With().Str("component", "genai_writer").Logger(),
	}
}

// Name identifies the writer in report metadata.
func (w *GenAIWriter) Name() string {
	return "genai"
}

// Write builds the prompt from the result and insights and returns the
// model's Markdown. An empty answer is an error.
func (w *GenAIWriter) Write(ctx context.Context, result *portfolio.PortfolioResult, insights Insights) (string, error) {
	prompt, err := BuildPrompt(result, insights)
	if err != nil {
		return "", err
	}

	text, err := w.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("model returned an empty report")
	}

	w.log.Debug().Int("length", len(text)).Msg("Generated AI report")
	return text, nil
}

// BuildPrompt serialises the result and insights into the model prompt.
func BuildPrompt(result *portfolio.PortfolioResult, insights Insights) (string, error) {
	payload := struct {
		Portfolio *portfolio.PortfolioResult `json:"portfolio"`
		Insights  Insights                   `json:"insights"`
	}{result, insights}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report prompt: %w", err)
	}

	var b strings.Builder
	b.WriteString("Write a detailed report for the following recommended portfolio.\n")
	fmt.Fprintf(&b, "The investor's risk profile is %s.\n", result.RiskProfile)
	b.WriteString("Portfolio data (JSON):\n\n")
	b.Write(data)
	b.WriteString("\n")
	return b.String(), nil
}
