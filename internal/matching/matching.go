// Package matching ranks mentors against a question. Scores are plain
// field-matching: domain overlap, category affinity, activity recency, load
// and rating. The result is a ranked list with a 0-100 match percentage, or
// an empty list when nothing clears the floor.
package matching

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
)

// Weights of the score components. They sum to 100; the load penalty is
// subtracted afterwards.
const (
	domainWeight   = 50.0
	categoryWeight = 15.0
	recencyWeight  = 15.0
	ratingWeight   = 10.0
	textWeight     = 10.0

	loadPenaltyPerQuestion = 2.5
	loadPenaltyCap         = 10.0

	// MinMatchPercent is the floor below which a mentor is not suggested.
	MinMatchPercent = 20.0

	recencyWindow = 7 * 24 * time.Hour
)

// QuestionInput is what the ranking needs from a question.
type QuestionInput struct {
	Text     string
	Category string
	Domains  []string
}

// Candidate pairs a mentor with their aggregated rating (0 when unrated).
type Candidate struct {
	Mentor    models.User
	AvgRating float64
}

// Service computes mentor rankings. Now is swappable for tests.
type Service struct {
	Now func() time.Time
}

func NewService() *Service {
	return &Service{Now: time.Now}
}

// Rank scores each candidate and returns suggestions sorted by descending
// match percentage. Mentors below MinMatchPercent are dropped.
func (s *Service) Rank(q QuestionInput, candidates []Candidate) []models.MentorSuggestion {
	now := s.Now()
	var out []models.MentorSuggestion

	for _, c := range candidates {
		if c.Mentor.Role != models.RoleMentor {
			continue
		}
		score := s.score(q, c, now)
		if score < MinMatchPercent {
			continue
		}
		out = append(out, models.MentorSuggestion{
			MentorID:     c.Mentor.ID,
			MentorName:   c.Mentor.Name,
			MatchPercent: score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercent > out[j].MatchPercent
	})
	return out
}

func (s *Service) score(q QuestionInput, c Candidate, now time.Time) float64 {
	score := domainWeight * overlap(q.Domains, c.Mentor.Domains)

	if q.Category != "" && containsFold(c.Mentor.Domains, q.Category) {
		score += categoryWeight
	}

	score += recencyWeight * recency(c.Mentor.LastActive, now)
	score += ratingWeight * clamp01(c.AvgRating/5)
	score += textWeight * textAffinity(q.Text, c.Mentor.Domains)

	penalty := loadPenaltyPerQuestion * float64(c.Mentor.ActiveQuestions)
	if penalty > loadPenaltyCap {
		penalty = loadPenaltyCap
	}
	score -= penalty

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*10) / 10
}

// overlap is |A∩B| / |A| over the question's domains. An empty question
// domain list contributes nothing rather than matching everyone.
func overlap(want, have []string) float64 {
	if len(want) == 0 {
		return 0
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	hits := 0
	for _, w := range want {
		if _, ok := haveSet[strings.ToLower(strings.TrimSpace(w))]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

func containsFold(list []string, target string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

// recency decays linearly from 1 (active now) to 0 (recencyWindow ago).
func recency(lastActive time.Time, now time.Time) float64 {
	if lastActive.IsZero() {
		return 0
	}
	age := now.Sub(lastActive)
	if age <= 0 {
		return 1
	}
	if age >= recencyWindow {
		return 0
	}
	return 1 - float64(age)/float64(recencyWindow)
}

// textAffinity gives partial credit when a mentor domain literally appears in
// the question text.
func textAffinity(text string, domains []string) float64 {
	if text == "" || len(domains) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && strings.Contains(lower, d) {
			hits++
		}
	}
	return clamp01(float64(hits) / 2)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
