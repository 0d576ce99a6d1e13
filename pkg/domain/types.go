package domain

import "time"

// ContactMessage is a message submitted through the public contact form.
// Records are append-only; nothing in the API mutates them after insert.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscriber is a newsletter signup. Email is unique across all rows;
// IsConfirmed is stored for a future double-opt-in flow and never flipped
// by any current endpoint.
type Subscriber struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	IsConfirmed bool      `json:"isConfirmed"`
	IPAddress   string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FireVote records a single fire-counter vote. VoteDate is a UTC calendar
// day in YYYY-MM-DD form; (IPAddress, VoteDate) is unique in effect,
// enforced before insert rather than by a DB constraint.
type FireVote struct {
	ID        int64     `json:"id"`
	IPAddress string    `json:"-"`
	UserAgent string    `json:"-"`
	VoteDate  string    `json:"voteDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// FireCounter is the singleton vote tally. Exactly one row exists; it is
// created lazily with Count=0 on first read.
type FireCounter struct {
	Count     int       `json:"count"`
	LastReset time.Time `json:"lastReset"`
}

// Project is a portfolio entry shown on the projects grid.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	GithubURL   string    `json:"githubUrl"`
	ProjectURL  string    `json:"projectUrl"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Skill is a named proficiency with a 0-100 percentage.
type Skill struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Percentage int       `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TechStackItem is an icon tile in the tech stack section.
type TechStackItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Experience is a timeline entry on the experience section.
type Experience struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Period      string    `json:"period"`
	Description string    `json:"description"`
	Bullets     []string  `json:"bullets"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}
