package models

import "time"

// AnswerCard is the structured artifact a mentor's submitted experience is
// synthesized into; shown to the student who asked the question.
type AnswerCard struct {
	ID         string `bson:"_id" json:"id"`
	QuestionID string `bson:"questionId" json:"questionId"`
	MentorID   string `bson:"mentorId" json:"mentorId"`

	Title            string   `bson:"title" json:"title"`
	Summary          string   `bson:"summary" json:"summary"`
	Steps            []string `bson:"steps,omitempty" json:"steps"`
	Pitfalls         []string `bson:"pitfalls,omitempty" json:"pitfalls"`
	SourceExperience string   `bson:"sourceExperience,omitempty" json:"sourceExperience,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
