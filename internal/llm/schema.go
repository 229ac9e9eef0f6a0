package llm

// GetQuestionsOutputSchema returns the JSON schema for question generation
// output: an object with a 'questions' array of strings.
func GetQuestionsOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	}
}

// GetFlashcardsOutputSchema returns the JSON schema for flashcard
// generation output: a suggested filename plus front/back pairs.
func GetFlashcardsOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{"type": "string"},
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required":             []string{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"filename", "flashcards"},
		"additionalProperties": false,
	}
}
