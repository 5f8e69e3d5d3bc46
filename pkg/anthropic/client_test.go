package anthropic

import (
	"context"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestMockClient_CreateMessage(t *testing.T) {
	m := &MockClient{}
	want := &MessageResponse{
		ID:      "msg_123",
		Content: []ContentBlock{{Type: "text", Text: "hello"}},
	}
	m.On("CreateMessage", mock.Anything, mock.Anything).Return(want, nil)

	got, err := m.CreateMessage(context.Background(), MessageRequest{Model: "claude-sonnet-4-5-20250929"})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", got.ID)
	m.AssertExpectations(t)
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "part one "},
			{Type: "thinking", Text: "ignored"},
			{Type: "text", Text: "part two"},
		},
	}
	assert.Equal(t, "part one part two", resp.Text())
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}

	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 18.0, cost, 0.001)

	assert.Zero(t, usage.EstimateCost("unknown-model"))
}

func TestToSDKMessages_MixedRoles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
		{Role: "unknown", Content: "defaults to user"},
	})
	require.Len(t, msgs, 3)
}

func TestToSDKSystemBlocks(t *testing.T) {
	blocks := toSDKSystemBlocks([]SystemBlock{{Text: "you are an auditor"}})
	require.Len(t, blocks, 1)
	assert.Equal(t, "you are an auditor", blocks[0].Text)
}

func TestFromSDKMessage(t *testing.T) {
	msg := &sdk.Message{
		ID:    "msg_abc",
		Model: "claude-sonnet-4-5-20250929",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "narrative"},
		},
		StopReason: "end_turn",
		Usage: sdk.Usage{
			InputTokens:  120,
			OutputTokens: 450,
		},
	}

	resp := fromSDKMessage(msg)
	assert.Equal(t, "msg_abc", resp.ID)
	assert.Equal(t, "narrative", resp.Text())
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, int64(120), resp.Usage.InputTokens)
	assert.Equal(t, int64(450), resp.Usage.OutputTokens)
}

func TestNewClient_RateLimitOption(t *testing.T) {
	c := NewClient("test-key", WithRateLimit(5)).(*sdkClient)
	require.NotNil(t, c.limiter)
	assert.Equal(t, float64(5), float64(c.limiter.Limit()))

	unlimited := NewClient("test-key", WithRateLimit(0)).(*sdkClient)
	assert.Nil(t, unlimited.limiter)
	assert.NoError(t, unlimited.wait(context.Background()))
}
