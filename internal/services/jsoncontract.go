package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DefaultScoreWhenMissing is substituted when an answer evaluation carries no
// "score" key at all. A score that is present but out of the 1-10 range is
// kept as returned.
const DefaultScoreWhenMissing = 5

type AnswerEvaluation struct {
	Feedback string
	Score    int
	// ScoreDefaulted is true when the oracle omitted the score key.
	ScoreDefaulted bool
}

type ExtractedSkills struct {
	Technical []string `json:"technical_skills"`
	Soft      []string `json:"soft_skills"`
}

func (s *ExtractedSkills) Empty() bool {
	return s == nil || (len(s.Technical) == 0 && len(s.Soft) == 0)
}

// parseAnswerEvaluation validates {"feedback": string, "score": integer}.
func parseAnswerEvaluation(raw string) (*AnswerEvaluation, error) {
	var fields map[string]json.RawMessage
	if err := decodeObject(raw, &fields); err != nil {
		return nil, err
	}

	feedbackRaw, ok := fields["feedback"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"feedback\" key", ErrUpstreamFormat)
	}
	var feedback string
	if err := json.Unmarshal(feedbackRaw, &feedback); err != nil {
		return nil, fmt.Errorf("%w: \"feedback\" is not a string", ErrUpstreamFormat)
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, fmt.Errorf("%w: \"feedback\" is empty", ErrUpstreamFormat)
	}

	result := &AnswerEvaluation{Feedback: feedback}

	scoreRaw, ok := fields["score"]
	if !ok {
		result.Score = DefaultScoreWhenMissing
		result.ScoreDefaulted = true
		return result, nil
	}

	if bytes.Equal(bytes.TrimSpace(scoreRaw), []byte("null")) {
		return nil, fmt.Errorf("%w: \"score\" is null", ErrUpstreamFormat)
	}
	var score float64
	if err := json.Unmarshal(scoreRaw, &score); err != nil {
		return nil, fmt.Errorf("%w: \"score\" is not a number", ErrUpstreamFormat)
	}
	if score != math.Trunc(score) || math.Abs(score) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: \"score\" %v is not an integer", ErrUpstreamFormat, score)
	}
	result.Score = int(score)

	return result, nil
}

// parseSkillExtraction validates {"habilidades_tecnicas": [string], "habilidades_blandas": [string]}.
// A missing list is treated as empty.
func parseSkillExtraction(raw string) (*ExtractedSkills, error) {
	var payload struct {
		Technical []string `json:"habilidades_tecnicas"`
		Soft      []string `json:"habilidades_blandas"`
	}
	if err := decodeObject(raw, &payload); err != nil {
		return nil, err
	}

	return &ExtractedSkills{
		Technical: cleanSkillNames(payload.Technical),
		Soft:      cleanSkillNames(payload.Soft),
	}, nil
}

func decodeObject(raw string, target interface{}) error {
	// a bare array must not be mined for the object inside it
	if strings.HasPrefix(stripFences(raw), "[") {
		return fmt.Errorf("%w: expected a JSON object, got an array", ErrUpstreamFormat)
	}

	jsonStr := extractJSON(raw)
	if !strings.HasPrefix(jsonStr, "{") {
		return fmt.Errorf("%w: expected a JSON object", ErrUpstreamFormat)
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = stripFences(text)

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}

func cleanSkillNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, name)
	}
	return cleaned
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
