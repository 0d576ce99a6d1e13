package store

import "portfolio/pkg/domain"

// Store defines persistence operations for the portfolio backend.
// It carries no business rules: dedup and validation happen above it.
type Store interface {
	// contact messages
	SaveContactMessage(domain.ContactMessage) (domain.ContactMessage, error)
	ListContactMessages() ([]domain.ContactMessage, error)

	// subscribers
	GetSubscriberByEmail(email string) (domain.Subscriber, bool, error)
	SaveSubscriber(domain.Subscriber) (domain.Subscriber, error)
	ListSubscribers() ([]domain.Subscriber, error)

	// fire votes + counter
	HasFireVote(ipAddress, voteDate string) (bool, error)
	SaveFireVote(domain.FireVote) error
	GetFireCounter() (domain.FireCounter, error)
	IncrementFireCounter() (int, error)

	// portfolio content
	SaveProject(domain.Project) (domain.Project, error)
	ListProjects() ([]domain.Project, error)
	SaveSkill(domain.Skill) (domain.Skill, error)
	ListSkills() ([]domain.Skill, error)
	SaveTechStackItem(domain.TechStackItem) (domain.TechStackItem, error)
	ListTechStack() ([]domain.TechStackItem, error)
	SaveExperience(domain.Experience) (domain.Experience, error)
	ListExperiences() ([]domain.Experience, error)
}
