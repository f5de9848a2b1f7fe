package quizgen

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"unrot/internal/domain"
	"unrot/internal/logger"
)

const (
	// maxCards caps how many elements are repaired when the provider
	// over-produces.
	maxCards    = 12
	optionCount = 4
)

const cardSchemaJSON = `{
	"type": "object",
	"required": ["id", "topic", "question", "options", "correct_answer"],
	"properties": {
		"id": {"type": "integer", "minimum": 0},
		"topic": {"type": "string"},
		"question": {"type": "string"},
		"options": {"type": "array", "items": {"type": "string"}, "minItems": 4, "maxItems": 4},
		"correct_answer": {"type": "integer", "minimum": 0, "maximum": 3},
		"explanation": {"type": "string"},
		"source_name": {"type": "string"},
		"source_url": {"type": "string"},
		"image_url": {"type": "string"}
	}
}`

var cardSchema = mustCompileCardSchema()

func mustCompileCardSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(cardSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("parse card schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://quizcard.json", doc); err != nil {
		panic(fmt.Sprintf("add card schema resource: %v", err))
	}
	compiled, err := c.Compile("schema://quizcard.json")
	if err != nil {
		panic(fmt.Sprintf("compile card schema: %v", err))
	}
	return compiled
}

// ParseCards turns the provider's raw textual response into schema-valid quiz
// cards. Malformed elements are repaired or dropped; an error is returned only
// when no JSON array can be extracted from the text at all. The result may
// hold fewer cards than requested, including zero.
func ParseCards(raw string) ([]domain.QuizCard, error) {
	l := logger.Get()

	text := stripCodeFences(raw)

	var elements []any
	if err := json.Unmarshal([]byte(text), &elements); err != nil {
		l.Warn("Direct JSON parse failed, trying array extraction", zap.Error(err))
		salvaged, ok := salvageArray(text)
		if !ok {
			return nil, fmt.Errorf("no JSON array found in response")
		}
		if err := json.Unmarshal([]byte(salvaged), &elements); err != nil {
			return nil, fmt.Errorf("extracted array is not valid JSON: %w", err)
		}
		l.Info("Extracted JSON array from response", zap.Int("elements", len(elements)))
	}

	cards := make([]domain.QuizCard, 0, len(elements))
	for i, element := range elements {
		if i >= maxCards {
			l.Warn("Provider over-produced, ignoring extra elements",
				zap.Int("total", len(elements)), zap.Int("cap", maxCards))
			break
		}

		obj, ok := element.(map[string]any)
		if !ok {
			l.Warn("Dropping non-object quiz element", zap.Int("index", i))
			continue
		}

		card := repairElement(obj)
		card.ID = len(cards)

		if err := validateCard(card); err != nil {
			l.Error("Dropping card that failed validation after repair",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		cards = append(cards, card)
	}

	l.Info("Parsed quiz cards", zap.Int("count", len(cards)))
	return cards, nil
}

// stripCodeFences removes a leading/trailing Markdown code fence, with or
// without a language tag.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.IndexByte(text, '\n'); idx != -1 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// salvageArray extracts the first-'[' to last-']' span from surrounding prose.
func salvageArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func repairElement(obj map[string]any) domain.QuizCard {
	return domain.QuizCard{
		Topic:         stringField(obj, "topic", "GENERAL"),
		Question:      stringField(obj, "question", ""),
		Options:       repairOptions(obj["options"]),
		CorrectAnswer: repairCorrectAnswer(obj["correct_answer"]),
		Explanation:   stringField(obj, "explanation", ""),
		SourceName:    stringField(obj, "source_name", ""),
		SourceURL:     stringField(obj, "source_url", ""),
		ImageURL:      stringField(obj, "image_url", ""),
	}
}

// stringField coerces an absent, null or non-string value to the default.
func stringField(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return fallback
}

// repairOptions keeps string entries and pads or truncates to exactly four.
func repairOptions(v any) []string {
	options := make([]string, 0, optionCount)
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				options = append(options, s)
			}
		}
	}
	for len(options) < optionCount {
		options = append(options, fmt.Sprintf("Option %d", len(options)+1))
	}
	return options[:optionCount]
}

// repairCorrectAnswer defaults anything but an integer in [0,3] to 0. This is
// intentionally permissive: a bad index degrades one card, it does not fail
// the batch.
func repairCorrectAnswer(v any) int {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && f >= 0 && f <= 3 {
		return int(f)
	}
	logger.Get().Warn("Invalid correct_answer, defaulting to 0", zap.Any("value", v))
	return 0
}

// validateCard is the final schema gate; after the repairs above it should
// only trip on unexpected types.
func validateCard(card domain.QuizCard) error {
	if err := card.Validate(); err != nil {
		return err
	}
	encoded, err := json.Marshal(card)
	if err != nil {
		return err
	}
	var parsed any
	if err := json.Unmarshal(encoded, &parsed); err != nil {
		return err
	}
	return cardSchema.Validate(parsed)
}
