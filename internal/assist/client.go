package assist

import (
	"context"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	apiKeyEnv    = "OPENAI_API_KEY_BASHAI"
	defaultModel = openai.GPT4oMini
)

// Client asks a chat-completion model for shell commands.
type Client struct {
	api   *openai.Client
	model string
	log   *logrus.Logger
}

// NewClient loads .env if present, reads the API key from the
// environment, and opens the file-backed log.
func NewClient(log *logrus.Logger) (*Client, error) {
	_ = godotenv.Load()

	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("the %s environment variable is not set", apiKeyEnv)
	}

	return &Client{
		api:   openai.NewClient(key),
		model: defaultModel,
		log:   log,
	}, nil
}

// replySchema is generated once from the Reply struct so the model is
// forced into the exact three-key shape the prompt asks for.
var replySchema = func() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return r.Reflect(&Reply{})
}()

// Ask sends the query and returns the parsed structured reply.
func (c *Client) Ask(ctx context.Context, query string, info SystemInfo) (*Reply, error) {
	system := fmt.Sprintf(
		"You are now an expert human to bash interpreter for %s that only responds with commands and does not use markup.",
		info.Label())
	user := fmt.Sprintf(
		"You are now an expert human to bash interpreter for %s. "+
			"I will tell you what I want to do and you will show me the commands to execute. "+
			"Respond in JSON structured text with three keys only: "+
			"'Explanation': with an explanation and any relevant related switches or options, "+
			"'Command': the command/s or script, and 'Notes': any additional info. "+
			"Do not offer any commentary or explanations outside of the JSON. "+
			"Use tabs and newlines but do not use markup. My query is: %s",
		info.Label(), query)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "shell_reply",
				Schema: replySchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		c.log.WithError(err).Error("chat completion failed")
		return nil, fmt.Errorf("calling chat API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	c.log.WithField("response", content).Debug("model reply")

	reply, err := ParseReply([]byte(content))
	if err != nil {
		c.log.WithError(err).WithField("response", content).Error("bad model reply")
		return nil, err
	}
	return reply, nil
}

// NewLogger opens the assistant's file log, falling back to stderr when
// the file cannot be created.
func NewLogger(path string) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.WithError(err).Warn("cannot open log file, logging to stderr")
		return log
	}
	log.SetOutput(file)
	return log
}
