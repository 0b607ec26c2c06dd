package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/logger"
	"github.com/spigell/ats-matcher/internal/matching"
	"github.com/spigell/ats-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var systemPrompt string

const (
	defaultMaxLogLength = 200
	maxSuggestions      = 5
	// maxDescriptionLength bounds the job description sent to the model.
	maxDescriptionLength = 4000
)

// Reviewer asks Gemini for a short review of a scored match.
type Reviewer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewReviewer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reviewer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

type reviewPayload struct {
	Resume          string     `json:"resume"`
	Job             jobPayload `json:"job"`
	MatchScore      float64    `json:"match_score"`
	MatchedKeywords []string   `json:"matched_keywords"`
	MissingKeywords []string   `json:"missing_keywords"`
}

type jobPayload struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (r *Reviewer) Review(ctx context.Context, resumeText string, match *matching.Match) (*matching.Advice, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("resume text is required")
	}
	if match == nil || match.Job == nil {
		return nil, errors.New("match with a job is required")
	}

	message, err := buildMessage(resumeText, match)
	if err != nil {
		return nil, err
	}

	l := logger.WithJob(r.logger, match.Job)
	l.Debug("gemini review request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	l.Debug("gemini review response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	advice, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	advice.Raw = raw
	return advice, nil
}

func buildMessage(resumeText string, match *matching.Match) (string, error) {
	payload := reviewPayload{
		Resume: strings.TrimSpace(resumeText),
		Job: jobPayload{
			Title:       match.Job.Title,
			Company:     match.Job.Company,
			Location:    match.Job.Location,
			Description: utils.TruncateForLog(match.Job.Description, maxDescriptionLength),
		},
		MatchScore:      match.Result.Score,
		MatchedKeywords: match.Result.Matched.Sorted(),
		MissingKeywords: match.Result.Missing.Sorted(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal review payload: %w", err)
	}
	return string(data), nil
}

func parseResponse(raw string) (*matching.Advice, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	advice := &matching.Advice{
		Summary:     coerceString(data["summary"]),
		Suggestions: coerceStrings(data["suggestions"]),
	}
	if len(advice.Suggestions) > maxSuggestions {
		advice.Suggestions = advice.Suggestions[:maxSuggestions]
	}

	if advice.Summary == "" && len(advice.Suggestions) == 0 {
		return nil, errors.New("gemini response has neither summary nor suggestions")
	}

	return advice, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts a list or a newline separated string.
func coerceStrings(v any) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			items = append(items, coerceString(item))
		}
	case string:
		for _, line := range strings.Split(val, "\n") {
			items = append(items, strings.TrimLeft(strings.TrimSpace(line), "-* "))
		}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
