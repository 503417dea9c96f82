package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const roadmapSystemPrompt = `You are a career-learning planner. Given a career goal,
produce a JSON object with "title" (short string) and "phases" (array of
{"name", "duration_weeks", "skills": [string], "resources": [string]}).
Respond with JSON only.`

// GenerateRoadmap asks the model for a structured learning roadmap toward
// a goal. Returns the roadmap title and the raw JSON content to persist.
func GenerateRoadmap(goal string) (string, json.RawMessage, error) {
	content, err := complete(ChatRequest{
		Model:       "gpt-4o-mini",
		Temperature: 0.4,
		Messages: []ChatMessage{
			{Role: "system", Content: roadmapSystemPrompt},
			{Role: "user", Content: goal},
		},
	})
	if err != nil {
		return "", nil, err
	}

	// Models occasionally wrap JSON in a code fence.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", nil, fmt.Errorf("error parsing roadmap JSON: %v", err)
	}
	if parsed.Title == "" {
		parsed.Title = goal
	}

	return parsed.Title, json.RawMessage(content), nil
}
