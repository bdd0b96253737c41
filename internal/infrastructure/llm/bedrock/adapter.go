// Package bedrock implements output.LLMPort on the Amazon Bedrock Converse
// API, which gives a single tool-calling shape across the hosted model
// families.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

var _ output.LLMPort = (*BedrockAdapter)(nil)

// ConverseAPI is the subset of *bedrockruntime.Client the adapter uses.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Config struct {
	ModelID   string
	MaxTokens int
	Logger    output.LoggerPort
}

type BedrockAdapter struct {
	client    ConverseAPI
	modelID   string
	maxTokens int
	logger    output.LoggerPort
}

func NewBedrockAdapter(client ConverseAPI, cfg Config) *BedrockAdapter {
	return &BedrockAdapter{
		client:    client,
		modelID:   cfg.ModelID,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
}

func (a *BedrockAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	system, messages := convertMessages(req.Messages)

	in := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(a.modelID),
		Messages: messages,
		System:   system,
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(req.Temperature),
		},
		ToolConfig: convertTools(req.Tools),
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.maxTokens
	}
	if maxTokens > 0 {
		in.InferenceConfig.MaxTokens = aws.Int32(int32(maxTokens))
	}

	out, err := a.client.Converse(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("unexpected converse output %T", out.Output)
	}

	if a.logger != nil {
		fields := []any{"model", a.modelID, "stopReason", out.StopReason}
		if out.Usage != nil {
			fields = append(fields,
				"inputTokens", aws.ToInt32(out.Usage.InputTokens),
				"outputTokens", aws.ToInt32(out.Usage.OutputTokens))
		}
		a.logger.Debug("Converse response received", fields...)
	}

	result, err := convertResponseMessage(msg.Value)
	if err != nil {
		return nil, err
	}
	return &output.ChatResponse{Message: result}, nil
}

// convertMessages splits out system prompts and folds consecutive tool
// results into one user turn, since Converse requires strictly alternating
// user/assistant roles.
func convertMessages(messages []entity.Message) ([]types.SystemContentBlock, []types.Message) {
	var system []types.SystemContentBlock
	result := make([]types.Message, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case entity.RoleSystem:
			system = append(system, &types.SystemContentBlockMemberText{Value: msg.Content})

		case entity.RoleUser:
			result = append(result, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
			})

		case entity.RoleAssistant:
			var content []types.ContentBlock
			if msg.Content != "" {
				content = append(content, &types.ContentBlockMemberText{Value: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				content = append(content, &types.ContentBlockMemberToolUse{Value: types.ToolUseBlock{
					ToolUseId: aws.String(tc.ID),
					Name:      aws.String(string(tc.Name)),
					Input:     document.NewLazyDocument(decodeArguments(tc.Arguments)),
				}})
			}
			result = append(result, types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: content,
			})

		case entity.RoleTool:
			block := &types.ContentBlockMemberToolResult{Value: types.ToolResultBlock{
				ToolUseId: aws.String(msg.ToolCallID),
				Content:   []types.ToolResultContentBlock{&types.ToolResultContentBlockMemberText{Value: msg.Content}},
				Status:    toolResultStatus(msg.Content),
			}}

			if n := len(result); n > 0 && result[n-1].Role == types.ConversationRoleUser && isToolResultTurn(result[n-1]) {
				result[n-1].Content = append(result[n-1].Content, block)
				continue
			}
			result = append(result, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{block},
			})
		}
	}

	return system, result
}

func isToolResultTurn(msg types.Message) bool {
	for _, block := range msg.Content {
		if _, ok := block.(*types.ContentBlockMemberToolResult); !ok {
			return false
		}
	}
	return len(msg.Content) > 0
}

func toolResultStatus(content string) types.ToolResultStatus {
	if strings.HasPrefix(content, "Error:") {
		return types.ToolResultStatusError
	}
	return types.ToolResultStatusSuccess
}

func decodeArguments(raw string) map[string]interface{} {
	args := map[string]interface{}{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]interface{}{}
	}
	return args
}

func convertTools(tools []entity.ToolDefinition) *types.ToolConfiguration {
	if len(tools) == 0 {
		return nil
	}

	result := make([]types.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, &types.ToolMemberToolSpec{Value: types.ToolSpecification{
			Name:        aws.String(string(t.Name)),
			Description: aws.String(t.Description),
			InputSchema: &types.ToolInputSchemaMemberJson{Value: document.NewLazyDocument(t.Parameters)},
		}})
	}
	return &types.ToolConfiguration{Tools: result}
}

func convertResponseMessage(msg types.Message) (entity.Message, error) {
	result := entity.Message{Role: entity.RoleAssistant}

	var text strings.Builder
	for _, block := range msg.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			text.WriteString(b.Value)

		case *types.ContentBlockMemberToolUse:
			args := map[string]interface{}{}
			if b.Value.Input != nil {
				if err := b.Value.Input.UnmarshalSmithyDocument(&args); err != nil {
					return entity.Message{}, fmt.Errorf("decode tool input for %s: %w", aws.ToString(b.Value.Name), err)
				}
			}
			raw, err := json.Marshal(args)
			if err != nil {
				return entity.Message{}, fmt.Errorf("encode tool input: %w", err)
			}
			result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
				ID:        aws.ToString(b.Value.ToolUseId),
				Name:      entity.ToolName(aws.ToString(b.Value.Name)),
				Arguments: string(raw),
			})
		}
	}
	result.Content = text.String()

	return result, nil
}
