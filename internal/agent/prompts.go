package agent

import "fmt"

// Prompt templates. These are deterministic: the same content always
// produces the same instruction string.

const questionsPromptTemplate = "Based on the following content, generate %d thoughtful questions that would help someone " +
	"understand the material better. Return the response as a JSON object with a 'questions' field " +
	"containing an array of strings.\n\nContent: %s\n\nQuestions:"

const flashcardsPromptTemplate = "Create flashcards for studying %s. Each flashcard should have a question on the front and " +
	"the answer on the back. Return the response as a JSON object with a 'filename' field containing " +
	"a suggested filename (without extension) and a 'flashcards' field containing an array of objects, " +
	"each with 'front' and 'back' fields.\n\nContent: %s\n\nFlashcards:"

func buildQuestionsPrompt(content string, count int) string {
	return fmt.Sprintf(questionsPromptTemplate, count, content)
}

func buildFlashcardsPrompt(content, title string) string {
	if title == "" {
		title = "this content"
	}
	return fmt.Sprintf(flashcardsPromptTemplate, title, content)
}

// BuildMultiNodePrompt combines several node contents with the user's
// prompt into one instruction string, numbering nodes in order.
func BuildMultiNodePrompt(contents []string, prompt string) string {
	combined := ""
	for i, content := range contents {
		combined += fmt.Sprintf("Node %d: %s\n\n", i+1, content)
	}
	return combined + fmt.Sprintf("Prompt: %s", prompt)
}
