package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 256

	// NoCommand is returned by the model when the text maps to no command.
	NoCommand = "NONE"
)

const systemPrompt = `You turn messages from recycling field operators into EcoTrack chat commands.
Today's date is %s. Dates are written YYYY-MM-DD; resolve words like "today" or "yesterday" against today's date.

Supported commands, one per reply:
/city <date> <weight_kg> <city name>
/industry <date> weight=<kg> res=<count> cap=<count> iron=<count> mag=<count> cop=<kg> sil=<kg>
/report <date>

Rules:
- Reply with the command only, on a single line, without quotes or explanation.
- Only include industry keys the operator mentioned.
- If the message asks for nothing EcoTrack can record or report, reply NONE.`

// Client defines the interface for AI text processing.
type Client interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	endpoint   string
	now        func() time.Time
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	return newClient(apiKey, apiURL)
}

func newClient(apiKey, endpoint string) *anthropicClient {
	httpClient := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: httpClient, endpoint: endpoint, now: time.Now}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of the exchange sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// TranslateToCommand asks the model to rewrite free text as a slash command.
// It returns "" when the model finds no matching command.
func (c *anthropicClient) TranslateToCommand(ctx context.Context, input string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    fmt.Sprintf(systemPrompt, c.now().Format("2006-01-02")),
		Messages:  []Message{{Role: "user", Content: input}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	return cleanCommand(respBody.Content[0].Text), nil
}

// cleanCommand keeps the first line that looks like a command, stripping any
// code fences the model wrapped it in.
func cleanCommand(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"")
		if strings.EqualFold(line, NoCommand) {
			return ""
		}
		if strings.HasPrefix(line, "/") {
			return line
		}
	}
	return ""
}
