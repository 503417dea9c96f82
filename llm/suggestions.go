package llm

// GenerateSuggestion produces one short next-step suggestion for the
// user's current roadmap position.
func GenerateSuggestion(roadmapTitle, progressSummary string) (string, error) {
	return complete(ChatRequest{
		Model:       "gpt-4o-mini",
		MaxTokens:   120,
		Temperature: 0.7,
		Messages: []ChatMessage{
			{Role: "system", Content: "You suggest one concrete, actionable next learning step. Two sentences max."},
			{Role: "user", Content: "Roadmap: " + roadmapTitle + "\nProgress: " + progressSummary},
		},
	})
}
