package app

import (
	"fmt"
	"strings"
	"time"

	"portfolio/pkg/domain"
	"portfolio/pkg/store"
	"portfolio/pkg/validate"
)

// voteDateLayout is the calendar-day key used for vote dedup.
const voteDateLayout = "2006-01-02"

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string

	// Store overrides the default Postgres store (tests).
	Store store.Store

	// Now overrides the clock used for vote date keys (tests).
	Now func() time.Time
}

// App wires storage to the portfolio business rules: contact validation,
// subscription dedup, and once-per-day fire votes.
type App struct {
	store store.Store
	now   func() time.Time
}

// New constructs the application with database storage.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &App{store: dataStore, now: now}, nil
}

// SubmitContact validates a contact submission and persists it.
// Returns validate.FieldErrors when any field violates the rules.
func (a *App) SubmitContact(in validate.ContactInput) (domain.ContactMessage, error) {
	if errs := validate.Contact(in); errs != nil {
		return domain.ContactMessage{}, errs
	}
	msg := domain.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   validate.NormalizeEmail(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	saved, err := a.store.SaveContactMessage(msg)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("save contact message: %w", err)
	}
	return saved, nil
}

// Subscribe registers a newsletter subscriber. A repeat submission with the
// same email is an idempotent success: the existing record is returned with
// already=true and nothing is written.
func (a *App) Subscribe(email, ipAddress string) (domain.Subscriber, bool, error) {
	if err := validate.Email(email); err != nil {
		return domain.Subscriber{}, false, err
	}
	email = validate.NormalizeEmail(email)
	existing, found, err := a.store.GetSubscriberByEmail(email)
	if err != nil {
		return domain.Subscriber{}, false, fmt.Errorf("lookup subscriber: %w", err)
	}
	if found {
		return existing, true, nil
	}
	saved, err := a.store.SaveSubscriber(domain.Subscriber{
		Email:       email,
		IsConfirmed: false,
		IPAddress:   ipAddress,
	})
	if err != nil {
		return domain.Subscriber{}, false, fmt.Errorf("save subscriber: %w", err)
	}
	return saved, false, nil
}

// CastVote records one fire vote for the client and returns the new total.
// A second vote from the same IP on the same UTC day yields
// ErrAlreadyVotedToday. The existence check and the insert are not atomic;
// the per-day request quota on the vote endpoint is the primary defense
// against double-counting, this check catches retries inside the window.
func (a *App) CastVote(ipAddress, userAgent string) (int, error) {
	dateKey := a.now().UTC().Format(voteDateLayout)
	voted, err := a.store.HasFireVote(ipAddress, dateKey)
	if err != nil {
		return 0, fmt.Errorf("check vote: %w", err)
	}
	if voted {
		return 0, ErrAlreadyVotedToday
	}
	err = a.store.SaveFireVote(domain.FireVote{
		IPAddress: ipAddress,
		UserAgent: userAgent,
		VoteDate:  dateKey,
	})
	if err != nil {
		return 0, fmt.Errorf("save vote: %w", err)
	}
	count, err := a.store.IncrementFireCounter()
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return count, nil
}

// FireCount reads the current counter, creating the singleton row at 0 on
// first read.
func (a *App) FireCount() (int, error) {
	counter, err := a.store.GetFireCounter()
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return counter.Count, nil
}

// ListContactMessages returns all stored contact messages.
func (a *App) ListContactMessages() ([]domain.ContactMessage, error) {
	return a.store.ListContactMessages()
}

// ListSubscribers returns all subscribers.
func (a *App) ListSubscribers() ([]domain.Subscriber, error) {
	return a.store.ListSubscribers()
}

// ListProjects returns portfolio projects.
func (a *App) ListProjects() ([]domain.Project, error) {
	return a.store.ListProjects()
}

// ListSkills returns skills.
func (a *App) ListSkills() ([]domain.Skill, error) {
	return a.store.ListSkills()
}

// ListTechStack returns tech stack tiles.
func (a *App) ListTechStack() ([]domain.TechStackItem, error) {
	return a.store.ListTechStack()
}

// ListExperiences returns experience entries.
func (a *App) ListExperiences() ([]domain.Experience, error) {
	return a.store.ListExperiences()
}
