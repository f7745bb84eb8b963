package models

import "time"

type QuestionStatus string

const (
	QuestionOpen     QuestionStatus = "open"
	QuestionRouted   QuestionStatus = "routed"
	QuestionAnswered QuestionStatus = "answered"
	QuestionClosed   QuestionStatus = "closed"
)

// MentorSuggestion is one entry of the ranked mentor list stored on a
// question after matching ran.
type MentorSuggestion struct {
	MentorID     string  `bson:"mentorId" json:"mentorId"`
	MentorName   string  `bson:"mentorName,omitempty" json:"mentorName,omitempty"`
	MatchPercent float64 `bson:"matchPercent" json:"matchPercent"`
}

type Question struct {
	ID       string         `bson:"_id" json:"id"`
	UserID   string         `bson:"userId" json:"userId"`
	Title    string         `bson:"title" json:"title"`
	Slug     string         `bson:"slug,omitempty" json:"slug,omitempty"`
	Text     string         `bson:"text" json:"text"`
	Category string         `bson:"category,omitempty" json:"category,omitempty"`
	Domains  []string       `bson:"domains,omitempty" json:"domains"`
	Status   QuestionStatus `bson:"status" json:"status"`

	SelectedMentorID string             `bson:"selectedMentorId,omitempty" json:"selectedMentorId,omitempty"`
	SuggestedMentors []MentorSuggestion `bson:"suggestedMentors,omitempty" json:"suggestedMentors,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
