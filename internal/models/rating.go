package models

import "time"

// Rating is one student's rating of a mentor for a specific question.
// The (userId, mentorId, questionId) triple is unique.
type Rating struct {
	ID         string `bson:"_id" json:"id"`
	UserID     string `bson:"userId" json:"userId"`
	MentorID   string `bson:"mentorId" json:"mentorId"`
	QuestionID string `bson:"questionId" json:"questionId"`

	Stars   int    `bson:"stars" json:"stars"` // 1..5
	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// MentorRatingSummary aggregates a mentor's ratings.
type MentorRatingSummary struct {
	MentorID string  `bson:"_id" json:"mentorId"`
	Average  float64 `bson:"average" json:"average"`
	Count    int64   `bson:"count" json:"count"`
}
