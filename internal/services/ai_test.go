package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/business-management-api/internal/constants"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

type fakeCompleter struct {
	content string
	err     error
	prompts []string
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	for _, m := range req.Messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}},
	}, nil
}

func (e *env) aiService(client ChatCompleter) *AIService {
	s := NewAIService(e.repos, "")
	s.client = client
	s.now = func() time.Time { return tenAM }
	return s
}

func TestAI_NotConfigured(t *testing.T) {
	e := newEnv(t)
	s := NewAIService(e.repos, "")

	assert.False(t, s.Enabled())
	_, err := s.DraftTasks(e.ctx, e.managerUser, e.org.ID, "ship it")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}

func TestAI_DraftTasks(t *testing.T) {
	e := newEnv(t)
	client := &fakeCompleter{content: "```json\n[{\"name\":\"Prepare deck\",\"description\":\"Q3 review\",\"deadline\":\"2030-03-05T17:00:00Z\"},{\"name\":\"  \",\"description\":\"dropped\"}]\n```"}

	drafts, err := e.aiService(client).DraftTasks(e.ctx, e.managerUser, e.org.ID, "Prepare the Q3 deck by tomorrow 5pm")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Prepare deck", drafts[0].Name)
	require.NotNil(t, drafts[0].Deadline)
	assert.True(t, drafts[0].Deadline.Equal(time.Date(2030, time.March, 5, 17, 0, 0, 0, time.UTC)))

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "2030-03-04T10:00:00Z")
	assert.Contains(t, client.prompts[0], "Prepare the Q3 deck")
	assert.Zero(t, e.count(&models.Task{}), "drafts are never persisted")
}

func TestAI_DraftTasksRequiresManager(t *testing.T) {
	e := newEnv(t)
	client := &fakeCompleter{content: "[]"}

	_, err := e.aiService(client).DraftTasks(e.ctx, e.workerUser, e.org.ID, "anything")
	assert.ErrorIs(t, err, apierrors.ErrPermissionDenied)
	assert.Empty(t, client.prompts)

	_, err = e.aiService(client).DraftTasks(e.ctx, e.managerUser, e.org.ID, "   ")
	assert.ErrorIs(t, err, apierrors.ErrInvalidData)
}

func TestAI_UpstreamFailure(t *testing.T) {
	e := newEnv(t)
	upstream := errors.New("rate limited")

	_, err := e.aiService(&fakeCompleter{err: upstream}).DraftTasks(e.ctx, e.managerUser, e.org.ID, "x")
	assert.ErrorIs(t, err, upstream)

	_, err = e.aiService(&fakeCompleter{content: "not json"}).DraftTasks(e.ctx, e.managerUser, e.org.ID, "x")
	assert.Error(t, err)
}

func TestParseDrafts_Caps(t *testing.T) {
	items := make([]string, constants.MaxAIGeneratedTasks+5)
	for i := range items {
		items[i] = `{"name":"task"}`
	}
	drafts, err := parseDrafts("[" + strings.Join(items, ",") + "]")
	require.NoError(t, err)
	assert.Len(t, drafts, constants.MaxAIGeneratedTasks)

	drafts, err = parseDrafts("[]")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
