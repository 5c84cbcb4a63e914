package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"homefax-backend/internal/ai"
)

// Client implements ai.Extractor, ai.Resolver and ai.Planner using OpenAI
// chat completions with forced function calls and strict JSON schemas.
type Client struct {
	client       openai.Client
	visionModel  string
	resolveModel string
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, visionModel, resolveModel string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(visionModel) == "" {
		return nil, fmt.Errorf("OPENAI_VISION_MODEL is required")
	}
	if strings.TrimSpace(resolveModel) == "" {
		resolveModel = visionModel
	}

	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	return &Client{
		client:       openai.NewClient(option.WithAPIKey(apiKey), option.WithRequestTimeout(timeout)),
		visionModel:  visionModel,
		resolveModel: resolveModel,
	}, nil
}

// Extract sends the document to the vision model and returns its structured
// guess at the contents.
func (c *Client) Extract(ctx context.Context, data []byte, contentType string) (ai.ExtractedData, error) {
	if len(data) == 0 {
		return ai.ExtractedData{}, fmt.Errorf("document bytes are empty")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	var docPart openai.ChatCompletionContentPartUnionParam
	if contentType == "application/pdf" {
		docPart = openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURL),
			Filename: openai.String("document.pdf"),
		})
	} else {
		docPart = openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    dataURL,
			Detail: "high",
		})
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(extractPrompt),
						docPart,
					},
				},
			},
		}},
		Tools: []openai.ChatCompletionToolParam{{
			Function: extractFunction,
		}},
		ToolChoice: namedToolChoice(extractFunction.Name),
	}

	args, err := c.callFunction(ctx, req)
	if err != nil {
		return ai.ExtractedData{}, err
	}

	var out ai.ExtractedData
	if err := json.Unmarshal(args, &out); err != nil {
		return ai.ExtractedData{}, fmt.Errorf("unmarshal extraction result: %w", err)
	}
	out.Normalize()
	return out, nil
}

// Resolve asks the reasoning model to map extracted data onto the inventory.
func (c *Client) Resolve(ctx context.Context, extracted ai.ExtractedData, inventory []ai.InventoryItem) (ai.Resolution, error) {
	extractedJSON, err := json.Marshal(extracted)
	if err != nil {
		return ai.Resolution{}, fmt.Errorf("marshal extracted data: %w", err)
	}
	if inventory == nil {
		inventory = []ai.InventoryItem{}
	}
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return ai.Resolution{}, fmt.Errorf("marshal inventory: %w", err)
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.resolveModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(resolvePrompt, extractedJSON, inventoryJSON)),
		},
		Tools: []openai.ChatCompletionToolParam{{
			Function: resolveFunction,
		}},
		ToolChoice: namedToolChoice(resolveFunction.Name),
	}

	args, err := c.callFunction(ctx, req)
	if err != nil {
		return ai.Resolution{}, err
	}

	var out ai.Resolution
	if err := json.Unmarshal(args, &out); err != nil {
		return ai.Resolution{}, fmt.Errorf("unmarshal resolution: %w", err)
	}
	if err := out.Validate(); err != nil {
		return ai.Resolution{}, err
	}
	return out, nil
}

// SuggestMaintenance proposes a recurring maintenance plan for the equipment
// described by an extraction.
func (c *Client) SuggestMaintenance(ctx context.Context, extracted ai.ExtractedData) ([]ai.PlanSuggestion, error) {
	extractedJSON, err := json.Marshal(extracted)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted data: %w", err)
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.resolveModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(planPrompt, extractedJSON)),
		},
		Tools: []openai.ChatCompletionToolParam{{
			Function: planFunction,
		}},
		ToolChoice: namedToolChoice(planFunction.Name),
	}

	args, err := c.callFunction(ctx, req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Tasks []ai.PlanSuggestion `json:"tasks"`
	}
	if err := json.Unmarshal(args, &out); err != nil {
		return nil, fmt.Errorf("unmarshal maintenance plan: %w", err)
	}

	plans := make([]ai.PlanSuggestion, 0, len(out.Tasks))
	for _, task := range out.Tasks {
		task.Name = strings.TrimSpace(task.Name)
		if task.Name == "" || task.IntervalMonths <= 0 {
			continue
		}
		plans = append(plans, task)
	}
	return plans, nil
}

func (c *Client) callFunction(ctx context.Context, req openai.ChatCompletionNewParams) (json.RawMessage, error) {
	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("openai: no function call returned")
	}
	return json.RawMessage(resp.Choices[0].Message.ToolCalls[0].Function.Arguments), nil
}

func namedToolChoice(name string) openai.ChatCompletionToolChoiceOptionUnionParam {
	return openai.ChatCompletionToolChoiceOptionUnionParam{
		OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
			Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
				Name: name,
			},
		},
	}
}

var (
	_ ai.Extractor = (*Client)(nil)
	_ ai.Resolver  = (*Client)(nil)
	_ ai.Planner   = (*Client)(nil)
)
