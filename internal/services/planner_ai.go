package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// PlannerAIService turns free-text site briefs into proposed assignment
// requests using OpenAI. Proposals are suggestions only; nothing is committed
// until a caller submits them through the regular creation path.
type PlannerAIService struct {
	client *openai.Client
}

// SuggestedAssignment is one proposal extracted from a brief.
type SuggestedAssignment struct {
	AssigneeType string  `json:"assignee_type"`
	AssigneeID   uint64  `json:"assignee_id"`
	EntityType   string  `json:"entity_type"`
	EntityID     uint64  `json:"entity_id"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Notes        string  `json:"notes"`
}

func NewPlannerAIService(apiKey string) *PlannerAIService {
	return &PlannerAIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestAssignmentsFromText extracts proposed assignments from a scheduling brief
func (s *PlannerAIService) SuggestAssignmentsFromText(ctx context.Context, text string) ([]SuggestedAssignment, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a construction scheduling assistant. Extract concrete assignment proposals from the brief below.

Today's date: %s

Brief:
%s

Return a JSON array of proposals in this exact shape:
[
  {
    "assignee_type": "worker" or "material",
    "assignee_id": <numeric id mentioned in the brief>,
    "entity_type": "site" or "task",
    "entity_id": <numeric id mentioned in the brief>,
    "start_date": "YYYY-MM-DD",
    "end_date": "YYYY-MM-DD" or null for open-ended,
    "notes": "short free-text summary"
  }
]

Rules:
- Return an empty array [] if the brief names no schedulable work
- Resolve relative dates ("tomorrow", "next week") against today's date
- Only use ids that appear in the brief; never invent ids
- Return JSON only, with no surrounding prose`, today, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var suggestions []SuggestedAssignment
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return suggestions, nil
}
