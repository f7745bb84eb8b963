package models

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleMentor Role = "mentor"
)

// DefaultMessageCredits is granted to every new student account. Mentors do
// not consume credits.
const DefaultMessageCredits = 5

// Education captures a single qualification entry on the profile.
type Education struct {
	InstitutionName string `bson:"institutionName" json:"institutionName"`
	Degree          string `bson:"degree,omitempty" json:"degree,omitempty"`
	Year            int    `bson:"year,omitempty" json:"year,omitempty"`
}

// GeoPoint is a GeoJSON point, indexed 2dsphere on users.location.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"` // always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// MentorProfile holds the mentor-only profile fields.
type MentorProfile struct {
	Headline          string `bson:"headline,omitempty" json:"headline,omitempty"`
	YearsOfExperience int    `bson:"yearsOfExperience,omitempty" json:"yearsOfExperience,omitempty"`
	Verified          bool   `bson:"verified" json:"verified"`
	AwayAutoReply     string `bson:"awayAutoReply,omitempty" json:"awayAutoReply,omitempty"`
}

type User struct {
	ID       string `bson:"_id" json:"id"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"`
	Name     string `bson:"name" json:"name"`
	Role     Role   `bson:"role" json:"role"`

	Bio       string     `bson:"bio,omitempty" json:"bio"`
	Image     string     `bson:"image,omitempty" json:"image"`
	City      string     `bson:"city,omitempty" json:"city"`
	Location  *GeoPoint  `bson:"location,omitempty" json:"location,omitempty"`
	Education *Education `bson:"education,omitempty" json:"education,omitempty"`
	Domains   []string   `bson:"domains,omitempty" json:"domains"`
	Languages []string   `bson:"languages,omitempty" json:"languages"`

	// Students spend one credit per private message; topped up via payments.
	MessageCredits int `bson:"messageCredits" json:"messageCredits"`

	// Matching signals.
	LastActive      time.Time `bson:"lastActive" json:"lastActive"`
	ActiveQuestions int       `bson:"activeQuestions" json:"activeQuestions"`

	MentorProfile *MentorProfile `bson:"mentorProfile,omitempty" json:"mentorProfile,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsMentor reports whether the account is a mentor.
func (u *User) IsMentor() bool {
	return u.Role == RoleMentor
}

// PublicView strips fields that must never leave the server.
func (u *User) PublicView() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"name":      u.Name,
		"role":      u.Role,
		"bio":       u.Bio,
		"image":     u.Image,
		"city":      u.City,
		"domains":   u.Domains,
		"education": u.Education,
	}
}
