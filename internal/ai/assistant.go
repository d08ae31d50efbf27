package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dentallab/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Assistant answers questions over the laboratory's data and general dental
// topics via the chat completion API.
type Assistant struct {
	client *openai.Client
}

// NewAssistant builds an Assistant with the given API key. An empty key is
// permitted; calls will fail and the caller is expected to absorb the error
// into the conversation.
func NewAssistant(apiKey string) *Assistant {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Assistant{client: &client}
}

// assistantReply is the structured-output envelope for the model's answer.
type assistantReply struct {
	Reply string `json:"reply" jsonschema_description:"The assistant's complete answer to the user's latest message, in plain text or light markdown"`
}

// Complete submits the conversation — a system instruction carrying the
// current data snapshot, the prior turns in order, then the new user
// message — and returns the reply text.
func (a *Assistant) Complete(ctx context.Context, snapshot core.DataSnapshot, history []core.ChatMessage, userText string) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize data snapshot: %w", err)
	}

	var transcript strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Role, msg.Content)
	}
	fmt.Fprintf(&transcript, "user: %s\n", userText)

	prompt := fmt.Sprintf(`You are an expert dental laboratory assistant integrated into a lab management application.
Your two primary functions are:
1. Answer questions by querying the application's data. The data is provided below as JSON. Use it to answer questions about clients, orders, products and suppliers. Be concise and precise.
2. Act as an expert on general dentistry and dental mechanics topics. Provide knowledgeable and helpful answers on these subjects.

Today's date is %s.

Here is the current data from the application:
%s

Conversation so far (reply to the final user turn):
%s`, time.Now().Format("2006-01-02"), data, transcript.String())

	schemaMap, err := replySchema()
	if err != nil {
		return "", err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "assistant_reply",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("The assistant's reply to the user"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	var reply assistantReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return "", fmt.Errorf("failed to parse completion: %w", err)
	}
	return reply.Reply, nil
}

// replySchema reflects the JSON schema for assistantReply.
func replySchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(assistantReply{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
