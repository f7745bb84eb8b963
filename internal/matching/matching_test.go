package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func mentor(id string, domains []string, lastActive time.Time, active int) models.User {
	return models.User{
		ID:              id,
		Name:            "Mentor " + id,
		Role:            models.RoleMentor,
		Domains:         domains,
		LastActive:      lastActive,
		ActiveQuestions: active,
	}
}

func TestRankOrdersByScore(t *testing.T) {
	svc := &Service{Now: fixedNow}

	q := QuestionInput{
		Text:     "How should I prepare for consulting case interviews?",
		Category: "consulting",
		Domains:  []string{"consulting", "interviews"},
	}

	full := mentor("m1", []string{"consulting", "interviews"}, fixedNow(), 0)
	partial := mentor("m2", []string{"consulting"}, fixedNow().Add(-3*24*time.Hour), 1)
	unrelated := mentor("m3", []string{"finance"}, fixedNow(), 0)

	got := svc.Rank(q, []Candidate{
		{Mentor: partial},
		{Mentor: unrelated},
		{Mentor: full, AvgRating: 4.5},
	})

	assert.Len(t, got, 2, "unrelated mentor should fall below the floor")
	assert.Equal(t, "m1", got[0].MentorID)
	assert.Equal(t, "m2", got[1].MentorID)
	assert.Greater(t, got[0].MatchPercent, got[1].MatchPercent)
	assert.LessOrEqual(t, got[0].MatchPercent, 100.0)
}

func TestRankNoMatch(t *testing.T) {
	svc := &Service{Now: fixedNow}

	q := QuestionInput{Domains: []string{"design"}}
	got := svc.Rank(q, []Candidate{
		{Mentor: mentor("m1", []string{"finance"}, fixedNow(), 0)},
	})

	assert.Empty(t, got)
}

func TestRankSkipsNonMentors(t *testing.T) {
	svc := &Service{Now: fixedNow}

	student := models.User{ID: "u1", Role: models.RoleUser, Domains: []string{"consulting"}}
	got := svc.Rank(QuestionInput{Domains: []string{"consulting"}}, []Candidate{{Mentor: student}})

	assert.Empty(t, got)
}

func TestLoadPenaltyLowersScore(t *testing.T) {
	svc := &Service{Now: fixedNow}
	q := QuestionInput{Domains: []string{"consulting"}}

	idle := mentor("idle", []string{"consulting"}, fixedNow(), 0)
	busy := mentor("busy", []string{"consulting"}, fixedNow(), 6)

	got := svc.Rank(q, []Candidate{{Mentor: busy}, {Mentor: idle}})

	assert.Len(t, got, 2)
	assert.Equal(t, "idle", got[0].MentorID)
	assert.InDelta(t, loadPenaltyCap, got[0].MatchPercent-got[1].MatchPercent, 0.11)
}

func TestRecencyDecay(t *testing.T) {
	svc := &Service{Now: fixedNow}
	q := QuestionInput{Domains: []string{"consulting"}}

	fresh := mentor("fresh", []string{"consulting"}, fixedNow(), 0)
	stale := mentor("stale", []string{"consulting"}, fixedNow().Add(-30*24*time.Hour), 0)

	got := svc.Rank(q, []Candidate{{Mentor: stale}, {Mentor: fresh}})

	assert.Equal(t, "fresh", got[0].MentorID)
	assert.InDelta(t, recencyWeight, got[0].MatchPercent-got[1].MatchPercent, 0.11)
}
