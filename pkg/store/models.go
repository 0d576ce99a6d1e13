package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type ContactMessageModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null"`
	Subject   string    `gorm:"size:255;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ContactMessageModel) TableName() string { return "contact_messages" }

type SubscriberModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Email       string    `gorm:"size:255;uniqueIndex;not null"`
	IsConfirmed bool      `gorm:"not null;default:false"`
	IPAddress   string    `gorm:"size:64"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (SubscriberModel) TableName() string { return "subscribers" }

type FireVoteModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	IPAddress string `gorm:"size:64;not null;index:idx_fire_votes_ip_date"`
	UserAgent string `gorm:"size:512"`
	// Calendar day in YYYY-MM-DD; paired with IPAddress for app-level dedup.
	VoteDate  string    `gorm:"size:10;not null;index:idx_fire_votes_ip_date"`
	CreatedAt time.Time `gorm:"not null"`
}

func (FireVoteModel) TableName() string { return "fire_votes" }

type FireCounterModel struct {
	ID        int64     `gorm:"primaryKey"`
	Count     int       `gorm:"not null;default:0"`
	LastReset time.Time `gorm:"not null"`
}

func (FireCounterModel) TableName() string { return "fire_counter" }

type ProjectModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Title       string         `gorm:"size:255;not null"`
	Description string         `gorm:"type:text;not null"`
	ImageURL    string         `gorm:"type:text;not null"`
	GithubURL   string         `gorm:"type:text;not null"`
	ProjectURL  string         `gorm:"type:text;not null"`
	Tags        datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func (ProjectModel) TableName() string { return "projects" }

type SkillModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"size:100;not null"`
	Percentage int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (SkillModel) TableName() string { return "skills" }

type TechStackItemModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:100;not null"`
	Icon      string    `gorm:"type:text;not null"`
	Color     string    `gorm:"size:50;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TechStackItemModel) TableName() string { return "tech_stack" }

type ExperienceModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Title       string         `gorm:"size:255;not null"`
	Company     string         `gorm:"size:255;not null"`
	Period      string         `gorm:"size:100;not null"`
	Description string         `gorm:"type:text;not null"`
	Bullets     datatypes.JSON `gorm:"not null"`
	Tags        datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func (ExperienceModel) TableName() string { return "experience" }
