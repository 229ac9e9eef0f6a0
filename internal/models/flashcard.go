package models

// Flashcard is a single question/answer pair.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSet is the parsed result of a flashcard generation: a suggested
// filename (without extension) plus the ordered cards.
type FlashcardSet struct {
	Filename   string      `json:"filename"`
	Flashcards []Flashcard `json:"flashcards"`
}
