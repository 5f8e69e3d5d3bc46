package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/datainfa/compliance-cli/pkg/anthropic"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func TestGenerator_Generate(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-sonnet-4-5-20250929" && len(req.Messages) == 1
	})).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "# AI Narrative\n\nAll good."}},
	}, nil)

	g := NewGenerator(client, "claude-sonnet-4-5-20250929", 4096)
	out := g.Generate(context.Background(), sampleResults(), Meta{Organization: "Acme Corp"})

	assert.Equal(t, "# AI Narrative\n\nAll good.", out)
	client.AssertExpectations(t)
}

func TestGenerator_FallsBackOnError(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	g := NewGenerator(client, "claude-sonnet-4-5-20250929", 0)
	out := g.Generate(context.Background(), sampleResults(), Meta{})

	// Template report instead of a failure.
	assert.Contains(t, out, "## EXECUTIVE SUMMARY")
	client.AssertExpectations(t)
}

func TestGenerator_FallsBackOnEmptyResponse(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{}, nil)

	g := NewGenerator(client, "claude-sonnet-4-5-20250929", 4096)
	out := g.Generate(context.Background(), sampleResults(), Meta{})

	assert.Contains(t, out, "## EXECUTIVE SUMMARY")
}

func TestGenerator_NilClientUsesTemplate(t *testing.T) {
	g := NewGenerator(nil, "", 0)
	out := g.Generate(context.Background(), sampleResults(), Meta{})

	assert.Contains(t, out, "## ACTION PLAN")
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(sampleResults(), Meta{Organization: "Acme Corp", Regulation: "DPDP"})

	assert.Contains(t, prompt, "Organization: Acme Corp")
	assert.Contains(t, prompt, "Overall Compliance Score: 55.0%")
	assert.Contains(t, prompt, "- Consent Management: 40.0% compliance")
	assert.Contains(t, prompt, "1. Implement explicit consent capture")
	// Capped at three per section.
	assert.NotContains(t, prompt, "Audit legacy consent records")
	// Inapplicable sections are left out.
	assert.NotContains(t, prompt, "Cross-Border Transfers")
}
