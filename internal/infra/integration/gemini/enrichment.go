package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const translatePrompt = "You are a translator for a sales team. Translate the user's text from %s to %s. " +
	"Reply with the translation only, without quotes or commentary."

// Translator translates lead messages and agent replies.
type Translator struct {
	client *Client
}

func NewTranslator(client *Client) *Translator {
	return &Translator{client: client}
}

func (t *Translator) Translate(ctx context.Context, text string, from, to entity.Language) (string, error) {
	if from == to || strings.TrimSpace(text) == "" {
		return text, nil
	}
	if !from.Valid() || !to.Valid() {
		return "", fmt.Errorf("unsupported language pair %q -> %q", from, to)
	}
	out, err := t.client.GenerateText(ctx, fmt.Sprintf(translatePrompt, from.Name(), to.Name()), text)
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", from, to, err)
	}
	return out, nil
}

// Classifier tags a lead message with one of the known tags.
type Classifier struct {
	client *Client
	prompt string
}

func NewClassifier(client *Client) *Classifier {
	names := make([]string, 0, len(entity.Tags()))
	for _, tag := range entity.Tags() {
		names = append(names, string(tag))
	}
	return &Classifier{
		client: client,
		prompt: "Classify the customer inquiry into exactly one of: " + strings.Join(names, ", ") +
			". Answer with the single lowercase word only.",
	}
}

// Classify maps the model answer through entity.ParseTag, so unexpected
// answers become general.
func (c *Classifier) Classify(ctx context.Context, text string) (entity.Tag, error) {
	out, err := c.client.GenerateText(ctx, c.prompt, text)
	if err != nil {
		return entity.TagGeneral, fmt.Errorf("classify: %w", err)
	}
	return entity.ParseTag(firstWord(out)), nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
