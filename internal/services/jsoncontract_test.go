package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswerEvaluation(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantScore     int
		wantDefaulted bool
		wantErr       bool
	}{
		{name: "plain object", raw: `{"feedback": "Good", "score": 8}`, wantScore: 8},
		{name: "fenced object", raw: "```json\n{\"feedback\": \"Good\", \"score\": 3}\n```", wantScore: 3},
		{name: "prose around object", raw: "Here you go: {\"feedback\": \"Good\", \"score\": 10} Thanks!", wantScore: 10},
		{name: "integral float", raw: `{"feedback": "Good", "score": 7.0}`, wantScore: 7},
		{name: "missing score", raw: `{"feedback": "Good"}`, wantScore: DefaultScoreWhenMissing, wantDefaulted: true},
		{name: "out of range score", raw: `{"feedback": "Good", "score": 42}`, wantScore: 42},
		{name: "null score", raw: `{"feedback": "Good", "score": null}`, wantErr: true},
		{name: "string score", raw: `{"feedback": "Good", "score": "8"}`, wantErr: true},
		{name: "fractional score", raw: `{"feedback": "Good", "score": 7.5}`, wantErr: true},
		{name: "missing feedback", raw: `{"score": 8}`, wantErr: true},
		{name: "blank feedback", raw: `{"feedback": "  ", "score": 8}`, wantErr: true},
		{name: "not json", raw: "The candidate did well.", wantErr: true},
		{name: "array", raw: `[{"feedback": "Good", "score": 8}]`, wantErr: true},
		{name: "fenced array", raw: "```json\n[{\"feedback\": \"Good\", \"score\": 8}]\n```", wantErr: true},
		{name: "truncated", raw: `{"feedback": "Good", "score": 8`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswerEvaluation(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUpstreamFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Good", got.Feedback)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantDefaulted, got.ScoreDefaulted)
		})
	}
}

func TestParseSkillExtraction(t *testing.T) {
	raw := "```json\n" + `{
		"habilidades_tecnicas": ["Go", " PostgreSQL ", "go", ""],
		"habilidades_blandas": ["Trabajo en equipo", "Comunicación"]
	}` + "\n```"

	got, err := parseSkillExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Technical)
	assert.Equal(t, []string{"Trabajo en equipo", "Comunicación"}, got.Soft)
	assert.False(t, got.Empty())
}

func TestParseSkillExtraction_MissingListIsEmpty(t *testing.T) {
	got, err := parseSkillExtraction(`{"habilidades_tecnicas": ["Python"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, got.Technical)
	assert.Empty(t, got.Soft)
}

func TestParseSkillExtraction_Malformed(t *testing.T) {
	for _, raw := range []string{
		"no json here",
		`{"habilidades_tecnicas": "Python"}`,
		`{"habilidades_tecnicas": [1, 2]}`,
		`[{"habilidades_tecnicas": ["Go"], "habilidades_blandas": []}]`,
	} {
		_, err := parseSkillExtraction(raw)
		assert.ErrorIs(t, err, ErrUpstreamFormat, raw)
	}
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSON(`prefix {"a":{"b":2}} suffix`))
	assert.Equal(t, "plain", extractJSON("  plain  "))
}
