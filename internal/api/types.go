package api

import "time"

// Message lifecycle statuses as reported by the backend.
const (
	StatusDraft     = "draft"
	StatusReady     = "ready"
	StatusSent      = "sent"
	StatusResponded = "responded"
)

// Resume is an uploaded résumé as the backend presents it. Parsing and
// ATS scoring happen server-side; the client renders what it gets.
type Resume struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FileName  string    `json:"file_name"`
	ATSScore  int       `json:"ats_score"`
	Skills    []Skill   `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill is a single résumé skill with its category and whether it
// matched the target role profile.
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Matched  bool   `json:"matched"`
}

// Suggestion is an AI-generated résumé improvement.
type Suggestion struct {
	ID       string `json:"id"`
	ResumeID string `json:"resume_id"`
	Section  string `json:"section"`
	Text     string `json:"text"`
}

// Recruiter is a tracked recruiter relationship.
type Recruiter struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	Email         string     `json:"email"`
	LinkedInURL   string     `json:"linkedin_url,omitempty"`
	Relationship  string     `json:"relationship,omitempty"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
}

// Message is an outreach message to a recruiter.
type Message struct {
	ID            string     `json:"id"`
	RecruiterID   string     `json:"recruiter_id"`
	RecruiterName string     `json:"recruiter_name,omitempty"`
	MessageType   string     `json:"message_type"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	Status        string     `json:"status"`
	Score         *int       `json:"score,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MessageStats is the per-status breakdown the backend computes for the
// message list header.
type MessageStats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Ready     int `json:"ready"`
	Sent      int `json:"sent"`
	Responded int `json:"responded"`
}

// MessageScore is the backend's quality assessment of a message.
type MessageScore struct {
	MessageID string   `json:"message_id"`
	Score     int      `json:"score"`
	Verdict   string   `json:"verdict"`
	Tips      []string `json:"tips,omitempty"`
}

// Notification is a single user notification.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// MarketSnapshot is aggregated labor-market data for a role/region.
type MarketSnapshot struct {
	Role         string   `json:"role"`
	Region       string   `json:"region"`
	OpenRoles    int      `json:"open_roles"`
	MedianSalary int      `json:"median_salary"`
	DemandIndex  float64  `json:"demand_index"`
	TopSkills    []string `json:"top_skills,omitempty"`
}

// Account is the authenticated user's identity.
type Account struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	EmailVerified bool   `json:"email_verified"`
	Plan          string `json:"plan,omitempty"`
}

// CoachingBrief is AI-generated career coaching, delivered as markdown.
type CoachingBrief struct {
	ID          string    `json:"id"`
	Markdown    string    `json:"markdown"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MessageDraft is the editable subset sent on message creation.
type MessageDraft struct {
	RecruiterID string `json:"recruiter_id" validate:"required"`
	MessageType string `json:"message_type" validate:"required,oneof=intro follow_up thank_you custom"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Body        string `json:"body" validate:"required"`
}

// RecruiterDraft is the editable subset sent on recruiter create/update.
type RecruiterDraft struct {
	Name        string `json:"name" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	LinkedInURL string `json:"linkedin_url" validate:"omitempty,url"`
}

// ResumeUpdate is the editable subset of a résumé (the file itself is
// immutable once uploaded).
type ResumeUpdate struct {
	Title string `json:"title" validate:"required,max=120"`
}
