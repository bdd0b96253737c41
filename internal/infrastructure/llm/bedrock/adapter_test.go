package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestConvertMessages_MergesToolResults(t *testing.T) {
	system, messages := convertMessages([]entity.Message{
		{Role: entity.RoleSystem, Content: "be helpful"},
		{Role: entity.RoleUser, Content: "clean up"},
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{
			{ID: "a", Name: entity.ToolDeleteTask, Arguments: `{"task_name":"gym"}`},
			{ID: "b", Name: entity.ToolDeleteTask, Arguments: `{"task_name":"rent"}`},
		}},
		{Role: entity.RoleTool, ToolCallID: "a", Content: "Task 'gym' deleted."},
		{Role: entity.RoleTool, ToolCallID: "b", Content: "Error: invalid arguments"},
	})

	require.Len(t, system, 1)
	require.Len(t, messages, 3)
	assert.Equal(t, types.ConversationRoleUser, messages[0].Role)
	assert.Equal(t, types.ConversationRoleAssistant, messages[1].Role)
	assert.Len(t, messages[1].Content, 2)

	results := messages[2]
	assert.Equal(t, types.ConversationRoleUser, results.Role)
	require.Len(t, results.Content, 2)
	first := results.Content[0].(*types.ContentBlockMemberToolResult)
	second := results.Content[1].(*types.ContentBlockMemberToolResult)
	assert.Equal(t, "a", aws.ToString(first.Value.ToolUseId))
	assert.Equal(t, types.ToolResultStatusSuccess, first.Value.Status)
	assert.Equal(t, types.ToolResultStatusError, second.Value.Status)
}

func TestConvertTools_Empty(t *testing.T) {
	assert.Nil(t, convertTools(nil))
}

// converseServer answers every Converse call with body and keeps the last
// request path and decoded payload.
func converseServer(t *testing.T, body string) (*httptest.Server, *string, *map[string]interface{}) {
	t.Helper()
	var path string
	payload := map[string]interface{}{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &payload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &path, &payload
}

func newTestClient(endpoint string) *bedrockruntime.Client {
	return bedrockruntime.New(bedrockruntime.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(endpoint),
		Credentials:      aws.AnonymousCredentials{},
		RetryMaxAttempts: 1,
	})
}

func TestChat_ParsesToolUse(t *testing.T) {
	srv, path, payload := converseServer(t, `{
		"output": {"message": {"role": "assistant", "content": [
			{"text": "Let me check."},
			{"toolUse": {"toolUseId": "tu-1", "name": "update_task_status",
				"input": {"task_name": "rent", "new_status": "completed"}}}
		]}},
		"stopReason": "tool_use",
		"usage": {"inputTokens": 42, "outputTokens": 7, "totalTokens": 49},
		"metrics": {"latencyMs": 12}
	}`)
	adapter := NewBedrockAdapter(newTestClient(srv.URL), Config{ModelID: "anthropic.claude-test", MaxTokens: 512})

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: "sys"},
			{Role: entity.RoleUser, Content: "mark rent done"},
		},
		Tools: []entity.ToolDefinition{{
			Name:        entity.ToolUpdateTaskStatus,
			Description: "update",
			Parameters:  map[string]interface{}{"type": "object"},
		}},
	})

	require.NoError(t, err)
	assert.Contains(t, *path, "/model/anthropic.claude-test/converse")
	req := *payload
	assert.Equal(t, float64(512), req["inferenceConfig"].(map[string]interface{})["maxTokens"])
	assert.Len(t, req["system"], 1)
	assert.Len(t, req["toolConfig"].(map[string]interface{})["tools"], 1)

	assert.Equal(t, "Let me check.", resp.Message.Content)
	require.Len(t, resp.Message.ToolCalls, 1)
	call := resp.Message.ToolCalls[0]
	assert.Equal(t, "tu-1", call.ID)
	assert.Equal(t, entity.ToolUpdateTaskStatus, call.Name)

	var args map[string]string
	require.NoError(t, json.Unmarshal([]byte(call.Arguments), &args))
	assert.Equal(t, map[string]string{"task_name": "rent", "new_status": "completed"}, args)
}

func TestChat_FinalAnswer(t *testing.T) {
	srv, _, _ := converseServer(t, `{
		"output": {"message": {"role": "assistant", "content": [{"text": "Rent is marked as completed."}]}},
		"stopReason": "end_turn",
		"usage": {"inputTokens": 50, "outputTokens": 6, "totalTokens": 56},
		"metrics": {"latencyMs": 9}
	}`)
	adapter := NewBedrockAdapter(newTestClient(srv.URL), Config{ModelID: "m"})

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "done?"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Rent is marked as completed.", resp.Message.Content)
	assert.Empty(t, resp.Message.ToolCalls)
}

func TestChat_Error(t *testing.T) {
	adapter := NewBedrockAdapter(&fakeConverse{err: errors.New("AccessDeniedException")}, Config{ModelID: "m"})

	_, err := adapter.Chat(context.Background(), output.ChatRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDeniedException")
}
