package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/constants"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
)

var ErrAIServiceNotConfigured = errors.New("AI service is not configured")

// ChatCompleter is the subset of the OpenAI client the drafting service uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TaskDraft is a suggested task extracted from free text. Drafts are never
// persisted; the manager reviews them and creates tasks explicitly.
type TaskDraft struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type AIService struct {
	repos  *repository.Repositories
	client ChatCompleter
	now    func() time.Time
}

// NewAIService returns a service without a client when apiKey is empty;
// drafting then fails with ErrAIServiceNotConfigured.
func NewAIService(repos *repository.Repositories, apiKey string) *AIService {
	s := &AIService{repos: repos, now: time.Now}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

func (s *AIService) Enabled() bool {
	return s.client != nil
}

const draftPrompt = `You are a task extraction assistant for a team manager. Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of at most %d tasks in this format:
[
  {
    "name": "short task title",
    "description": "task details",
    "deadline": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when none is stated"
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative dates such as "tomorrow" or "next week" to absolute timestamps
- Return JSON only, without any commentary`

// DraftTasks asks the model for task drafts. The caller needs manager
// permissions in the organization.
func (s *AIService) DraftTasks(ctx context.Context, user *models.User, orgID uint64, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierrors.NewInvalidData("Text is required")
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		_, err := employeeIn(ctx, tx, user, orgID, access.ManagerPermissions)
		return err
	})
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(draftPrompt, s.now().Format(time.RFC3339), text, constants.MaxAIGeneratedTasks)
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

func parseDrafts(content string) ([]TaskDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	valid := make([]TaskDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}
		valid = append(valid, d)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}
	return valid, nil
}
