package models

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type OpenAILLM struct {
	Client *openai.Client
	Model  string
}

func NewOpenAILLM(model string) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAILLM{Client: openai.NewClient(apiKey), Model: model}
}

func openaiMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

func (o *OpenAILLM) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.Model,
		Messages: openaiMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAILLM) ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	stream, err := o.Client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    o.Model,
		Messages: openaiMessages(messages),
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	ch := make(chan StreamChunk, 16)
	go func() {
		defer close(ch)
		defer stream.Close()
		var sb strings.Builder
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				ch <- StreamChunk{Done: true, FullText: sb.String()}
				return
			}
			if err != nil {
				ch <- StreamChunk{Done: true, FullText: sb.String(), Err: fmt.Errorf("%w: %v", ErrBackendUnavailable, err)}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta != "" {
				sb.WriteString(delta)
				ch <- StreamChunk{Delta: delta}
			}
		}
	}()
	return ch, nil
}

// getOpenAIMimeType converts normalized MIME types to OpenAI's expected format
func getOpenAIMimeType(mt string) string {
	mt = strings.ToLower(strings.TrimSpace(mt))
	switch mt {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "image/png", "image/gif", "image/webp":
		return mt
	default:
		return ""
	}
}

// ChatWithFiles sends images as data URLs via MultiContent and inlines text
// attachments into the final user turn.
func (o *OpenAILLM) ChatWithFiles(ctx context.Context, messages []Message, files []File) (string, error) {
	var textFiles, mediaFiles []File
	for _, f := range files {
		mt := normalizeMIME(f.Name, f.MIME)
		if getOpenAIMimeType(mt) != "" {
			mediaFiles = append(mediaFiles, f)
		} else if isTextMIME(mt) {
			textFiles = append(textFiles, f)
		}
	}

	msgs := openaiMessages(messages)
	if len(msgs) == 0 {
		return "", errors.New("no messages to send")
	}
	last := &msgs[len(msgs)-1]

	textPrompt := last.Content
	if len(textFiles) > 0 {
		textPrompt = combinePromptWithFiles(textPrompt, textFiles)
	}

	if len(mediaFiles) == 0 {
		last.Content = textPrompt
		resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{Model: o.Model, Messages: msgs})
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("no response from OpenAI")
		}
		return resp.Choices[0].Message.Content, nil
	}

	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: textPrompt,
	}}
	for _, f := range mediaFiles {
		mt := getOpenAIMimeType(normalizeMIME(f.Name, f.MIME))
		encoded := base64.StdEncoding.EncodeToString(f.Data)
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", mt, encoded),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	last.Content = ""
	last.MultiContent = parts

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{Model: o.Model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Agent = (*OpenAILLM)(nil)
var _ VisionAgent = (*OpenAILLM)(nil)
