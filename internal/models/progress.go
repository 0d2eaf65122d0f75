package models

import "time"

// LessonCompletion represents "user completed lesson" with the timestamp of
// the first completion. One row per (userId, lessonId), never updated.
type LessonCompletion struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	LessonID    int       `json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}

// LessonFavorite represents "user currently favorites lesson". One row per
// (userId, lessonId) while active; the row is removed on un-favorite.
type LessonFavorite struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	LessonID    int       `json:"lessonId"`
	FavoritedAt time.Time `json:"favoriteDate"`
}

// EnrichedLesson is a lesson denormalized with its owning subtopic and theme.
// Exactly one of CompletedAt/FavoriteDate is set depending on which relation
// produced the row.
type EnrichedLesson struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Duration     int        `json:"duration"`
	Subtopic     Subtopic   `json:"subtopic"`
	Theme        Theme      `json:"theme"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	FavoriteDate *time.Time `json:"favoriteDate,omitempty"`
}

// ProgressListResponse is the payload of the progress read endpoints
type ProgressListResponse struct {
	Lessons []EnrichedLesson `json:"lessons"`
	Count   int              `json:"count"`
}
