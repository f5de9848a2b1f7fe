package domain

// Article represents one news item retrieved for a topic. All fields may be
// empty; retrieval defaults missing provider fields to "".
type Article struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Source string `json:"source"`
	URL    string `json:"url"`
	Image  string `json:"image"`
	Topic  string `json:"topic"`
}

// QuizCard represents one multiple-choice question in a generated quiz.
type QuizCard struct {
	ID            int      `json:"id"`
	Topic         string   `json:"topic"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	SourceName    string   `json:"source_name"`
	SourceURL     string   `json:"source_url"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// Validate checks the structural invariants every emitted card must satisfy.
func (c *QuizCard) Validate() error {
	if c.ID < 0 {
		return NewValidationError("card id must be non-negative")
	}
	if len(c.Options) != 4 {
		return NewValidationError("card must have exactly 4 options")
	}
	if c.CorrectAnswer < 0 || c.CorrectAnswer > 3 {
		return NewValidationError("correct_answer must be in range 0-3")
	}
	return nil
}
