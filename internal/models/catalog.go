package models

// Theme represents a top-level content theme
type Theme struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Subtopic represents a subtopic belonging to exactly one theme
type Subtopic struct {
	ID          int    `json:"id"`
	ThemeID     int    `json:"themeId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Lesson represents a lesson belonging to exactly one subtopic
type Lesson struct {
	ID          int    `json:"id"`
	SubtopicID  int    `json:"subtopicId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}
