package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnswerEvaluationPrompt asks the oracle to score one interview answer.
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(question, answer string) string {
	return fmt.Sprintf(`You are a professional job interviewer. You only reply with valid JSON.

Evaluate the candidate's answer to the interview question below and return strictly a JSON object with these keys:
{
  "feedback": "<detailed feedback on the answer: what was good and what to improve>",
  "score": <integer from 1 to 10>
}

QUESTION:
%s

CANDIDATE ANSWER:
%s`,
		question, answer)
}

// BuildSkillExtractionPrompt asks for technical and soft skills found in a CV.
func (pb *PromptBuilder) BuildSkillExtractionPrompt(cvText string) string {
	return fmt.Sprintf(`You are a human resources expert. You only reply with valid JSON.

Analyze the following CV text and extract a list of technical skills and soft skills.
Return the answer as a JSON object with exactly these keys:
- "habilidades_tecnicas": list of technical skills (strings)
- "habilidades_blandas": list of soft skills (strings)

CV TEXT:
%s`,
		cvText)
}

// BuildAnalysisReportPrompt asks for a free-text CV analysis. guidance holds
// retrieved reference material and may be empty.
func (pb *PromptBuilder) BuildAnalysisReportPrompt(cvText, guidance string) string {
	var prompt strings.Builder

	prompt.WriteString(`Analyze the following CV and extract this information:
- Technical and soft skills
- Work experience
- Areas for improvement
- General summary of the profile
`)

	if guidance != "" {
		prompt.WriteString("\nREFERENCE GUIDANCE (use it to ground the improvement areas):\n")
		prompt.WriteString(guidance)
		prompt.WriteString("\n")
	}

	prompt.WriteString("\nCV:\n")
	prompt.WriteString(cvText)

	return prompt.String()
}

// FormatRAGContext renders search hits as numbered context blocks.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
