package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"opspilot/types"
)

const requestTimeout = 60 * time.Second

// PainCategories is the closed set of categories the classifier may return.
var PainCategories = []string{
	"Chasing updates",
	"Reporting delays",
	"Lack of visibility",
	"Tool overload",
	"Other",
}

// Client wraps the Cohere chat API as a pain classifier and outreach drafter.
type Client struct {
	client *cohereclient.Client
	model  string
}

// NewClient builds a Cohere-backed client.
func NewClient(apiKey, model string) *Client {
	return &Client{
		client: cohereclient.NewClient(cohereclient.WithToken(apiKey)),
		model:  model,
	}
}

// Classify analyzes post text for operational pain points. The model must
// return well-formed JSON matching the analysis schema; anything else is an
// error and the caller treats the post as pain-free.
func (c *Client) Classify(ctx context.Context, text string) (types.PainAnalysis, error) {
	resp, err := c.chat(ctx, classifyPrompt(text))
	if err != nil {
		return types.PainAnalysis{}, fmt.Errorf("classification request failed: %w", err)
	}
	return ParseAnalysis(resp)
}

// Draft writes a short outreach message for a qualified lead.
func (c *Client) Draft(ctx context.Context, lead *types.Lead) (string, error) {
	resp, err := c.chat(ctx, draftPrompt(lead))
	if err != nil {
		return "", fmt.Errorf("draft request failed: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	model := c.model
	temperature := 0.2
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &model,
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ParseAnalysis decodes and validates the classifier's JSON reply. Markdown
// code fences are stripped first since models wrap JSON in them routinely.
func ParseAnalysis(raw string) (types.PainAnalysis, error) {
	cleaned := stripCodeFences(raw)

	var payload struct {
		HasPain      bool    `json:"has_pain"`
		PainCategory *string `json:"pain_category"`
		PainSummary  *string `json:"pain_summary"`
		UrgencyScore int     `json:"urgency_score"`
		Reasoning    string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return types.PainAnalysis{}, fmt.Errorf("malformed classifier response: %w", err)
	}

	analysis := types.PainAnalysis{
		HasPain:      payload.HasPain,
		UrgencyScore: payload.UrgencyScore,
		Reasoning:    payload.Reasoning,
	}
	if payload.PainCategory != nil {
		analysis.PainCategory = *payload.PainCategory
	}
	if payload.PainSummary != nil {
		analysis.PainSummary = *payload.PainSummary
	}

	if analysis.UrgencyScore < 0 || analysis.UrgencyScore > 10 {
		return types.PainAnalysis{}, fmt.Errorf("urgency score %d outside 0-10", analysis.UrgencyScore)
	}
	if analysis.HasPain && !validCategory(analysis.PainCategory) {
		return types.PainAnalysis{}, fmt.Errorf("unknown pain category %q", analysis.PainCategory)
	}

	return analysis, nil
}

func validCategory(category string) bool {
	for _, c := range PainCategories {
		if category == c {
			return true
		}
	}
	return false
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func classifyPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following social media post for operational pain points experienced by managers or founders.

Post Content:
%s

Return strictly valid JSON with no markdown formatting. The JSON must match this schema:
{
  "has_pain": boolean,
  "pain_category": "Chasing updates" | "Reporting delays" | "Lack of visibility" | "Tool overload" | "Other" | null,
  "pain_summary": "Short explanation in plain English" | null,
  "urgency_score": integer (1-10),
  "reasoning": "Why this qualifies"
}

Criteria:
- has_pain: true if the author is a manager/founder expressing frustration about operations, reporting, or visibility.
- urgency_score: 1 (low) to 10 (high).`, text)
}

func draftPrompt(lead *types.Lead) string {
	return fmt.Sprintf(`Draft a very short (max 3 sentences), casual, non-salesy DM to this person.
Pretend you are a rough-around-the-edges founder (OpsPilot) who solves this exact pain.

Context:
Their Pain: %s
Category: %s

Rules:
- No emojis.
- No links.
- No "I hope this finds you well".
- Just relate to the pain and offer a quick "same here" or "we fixed this by X".
- Sound valid, not spammy.`, lead.PainSummary, lead.PainCategory)
}
