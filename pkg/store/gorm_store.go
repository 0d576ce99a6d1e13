package store

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"portfolio/pkg/domain"
)

// fireCounterID pins the singleton row.
const fireCounterID = 1

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&ContactMessageModel{},
		&SubscriberModel{},
		&FireVoteModel{},
		&FireCounterModel{},
		&ProjectModel{},
		&SkillModel{},
		&TechStackItemModel{},
		&ExperienceModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStoreWithDB wraps an existing GORM connection (tests).
func NewGormStoreWithDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// SaveContactMessage inserts a contact message and returns the stored row.
func (s *GormStore) SaveContactMessage(msg domain.ContactMessage) (domain.ContactMessage, error) {
	model := ContactMessageModel{
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		CreatedAt: createdAtOrNow(msg.CreatedAt),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.ContactMessage{}, err
	}
	return contactFromModel(model), nil
}

// ListContactMessages returns all messages, newest first.
func (s *GormStore) ListContactMessages() ([]domain.ContactMessage, error) {
	var models []ContactMessageModel
	if err := s.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ContactMessage, 0, len(models))
	for _, m := range models {
		res = append(res, contactFromModel(m))
	}
	return res, nil
}

// GetSubscriberByEmail looks up a subscriber by exact email match.
func (s *GormStore) GetSubscriberByEmail(email string) (domain.Subscriber, bool, error) {
	var model SubscriberModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Subscriber{}, false, nil
		}
		return domain.Subscriber{}, false, err
	}
	return subscriberFromModel(model), true, nil
}

// SaveSubscriber inserts a subscriber and returns the stored row.
func (s *GormStore) SaveSubscriber(sub domain.Subscriber) (domain.Subscriber, error) {
	model := SubscriberModel{
		Email:       sub.Email,
		IsConfirmed: sub.IsConfirmed,
		IPAddress:   sub.IPAddress,
		CreatedAt:   createdAtOrNow(sub.CreatedAt),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Subscriber{}, err
	}
	return subscriberFromModel(model), nil
}

// ListSubscribers returns all subscribers ordered by signup time.
func (s *GormStore) ListSubscribers() ([]domain.Subscriber, error) {
	var models []SubscriberModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Subscriber, 0, len(models))
	for _, m := range models {
		res = append(res, subscriberFromModel(m))
	}
	return res, nil
}

// HasFireVote checks whether a vote exists for (ip, date).
func (s *GormStore) HasFireVote(ipAddress, voteDate string) (bool, error) {
	var count int64
	err := s.db.Model(&FireVoteModel{}).
		Where("ip_address = ? AND vote_date = ?", ipAddress, voteDate).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveFireVote appends a vote row.
func (s *GormStore) SaveFireVote(vote domain.FireVote) error {
	model := FireVoteModel{
		IPAddress: vote.IPAddress,
		UserAgent: vote.UserAgent,
		VoteDate:  vote.VoteDate,
		CreatedAt: createdAtOrNow(vote.CreatedAt),
	}
	return s.db.Create(&model).Error
}

// GetFireCounter returns the singleton counter, creating it at 0 on first read.
func (s *GormStore) GetFireCounter() (domain.FireCounter, error) {
	model, err := s.fireCounterRow(s.db)
	if err != nil {
		return domain.FireCounter{}, err
	}
	return domain.FireCounter{Count: model.Count, LastReset: model.LastReset}, nil
}

// IncrementFireCounter bumps the counter by exactly 1 and returns the new
// value. The increment is a single UPDATE so concurrent votes are serialized
// by the database, not by application locks.
func (s *GormStore) IncrementFireCounter() (int, error) {
	var model FireCounterModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.fireCounterRow(tx); err != nil {
			return err
		}
		if err := tx.Model(&FireCounterModel{}).
			Where("id = ?", fireCounterID).
			Updates(map[string]any{
				"count":      gorm.Expr("count + 1"),
				"last_reset": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		return tx.First(&model, "id = ?", fireCounterID).Error
	})
	if err != nil {
		return 0, err
	}
	return model.Count, nil
}

func (s *GormStore) fireCounterRow(tx *gorm.DB) (FireCounterModel, error) {
	model := FireCounterModel{ID: fireCounterID}
	err := tx.Where(FireCounterModel{ID: fireCounterID}).
		Attrs(FireCounterModel{Count: 0, LastReset: time.Now().UTC()}).
		FirstOrCreate(&model).Error
	if err != nil {
		return FireCounterModel{}, err
	}
	return model, nil
}

// SaveProject inserts a project and returns the stored row.
func (s *GormStore) SaveProject(p domain.Project) (domain.Project, error) {
	tags, err := toJSON(p.Tags)
	if err != nil {
		return domain.Project{}, err
	}
	model := ProjectModel{
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		GithubURL:   p.GithubURL,
		ProjectURL:  p.ProjectURL,
		Tags:        tags,
		CreatedAt:   createdAtOrNow(p.CreatedAt),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Project{}, err
	}
	return projectFromModel(model)
}

// ListProjects returns all projects ordered by creation time.
func (s *GormStore) ListProjects() ([]domain.Project, error) {
	var models []ProjectModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Project, 0, len(models))
	for _, m := range models {
		p, err := projectFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

// SaveSkill inserts a skill and returns the stored row.
func (s *GormStore) SaveSkill(sk domain.Skill) (domain.Skill, error) {
	model := SkillModel{
		Name:       sk.Name,
		Percentage: sk.Percentage,
		CreatedAt:  createdAtOrNow(sk.CreatedAt),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Skill{}, err
	}
	return domain.Skill{
		ID:         model.ID,
		Name:       model.Name,
		Percentage: model.Percentage,
		CreatedAt:  model.CreatedAt,
	}, nil
}

// ListSkills returns all skills ordered by creation time.
func (s *GormStore) ListSkills() ([]domain.Skill, error) {
	var models []SkillModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Skill, 0, len(models))
	for _, m := range models {
		res = append(res, domain.Skill{
			ID:         m.ID,
			Name:       m.Name,
			Percentage: m.Percentage,
			CreatedAt:  m.CreatedAt,
		})
	}
	return res, nil
}

// SaveTechStackItem inserts a tech stack tile and returns the stored row.
func (s *GormStore) SaveTechStackItem(item domain.TechStackItem) (domain.TechStackItem, error) {
	model := TechStackItemModel{
		Name:      item.Name,
		Icon:      item.Icon,
		Color:     item.Color,
		CreatedAt: createdAtOrNow(item.CreatedAt),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.TechStackItem{}, err
	}
	return domain.TechStackItem{
		ID:        model.ID,
		Name:      model.Name,
		Icon:      model.Icon,
		Color:     model.Color,
		CreatedAt: model.CreatedAt,
	}, nil
}

// ListTechStack returns all tech stack tiles ordered by creation time.
func (s *GormStore) ListTechStack() ([]domain.TechStackItem, error) {
	var models []TechStackItemModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.TechStackItem, 0, len(models))
	for _, m := range models {
		res = append(res, domain.TechStackItem{
			ID:        m.ID,
			Name:      m.Name,
			Icon:      m.Icon,
			Color:     m.Color,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

// SaveExperience inserts an experience entry and returns the stored row.
func (s *GormStore) SaveExperience(e domain.Experience) (domain.Experience, error) {
	bullets, err := toJSON(e.Bullets)
	if err != nil {
		return domain.Experience{}, err
	}
	tags, err := toJSON(e.Tags)
	if err != nil {
		return domain.Experience{}, err
	}
	model := ExperienceModel{
		Title:       e.Title,
		Company:     e.Company,
		Period:      e.Period,
		Description: e.Description,
		Bullets:     bullets,
		Tags:        tags,
		CreatedAt:   createdAtOrNow(e.CreatedAt),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Experience{}, err
	}
	return experienceFromModel(model)
}

// ListExperiences returns all experience entries ordered by creation time.
func (s *GormStore) ListExperiences() ([]domain.Experience, error) {
	var models []ExperienceModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Experience, 0, len(models))
	for _, m := range models {
		e, err := experienceFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

func contactFromModel(m ContactMessageModel) domain.ContactMessage {
	return domain.ContactMessage{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func subscriberFromModel(m SubscriberModel) domain.Subscriber {
	return domain.Subscriber{
		ID:          m.ID,
		Email:       m.Email,
		IsConfirmed: m.IsConfirmed,
		IPAddress:   m.IPAddress,
		CreatedAt:   m.CreatedAt,
	}
}

func projectFromModel(m ProjectModel) (domain.Project, error) {
	tags, err := fromJSON(m.Tags)
	if err != nil {
		return domain.Project{}, err
	}
	return domain.Project{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		GithubURL:   m.GithubURL,
		ProjectURL:  m.ProjectURL,
		Tags:        tags,
		CreatedAt:   m.CreatedAt,
	}, nil
}

func experienceFromModel(m ExperienceModel) (domain.Experience, error) {
	bullets, err := fromJSON(m.Bullets)
	if err != nil {
		return domain.Experience{}, err
	}
	tags, err := fromJSON(m.Tags)
	if err != nil {
		return domain.Experience{}, err
	}
	return domain.Experience{
		ID:          m.ID,
		Title:       m.Title,
		Company:     m.Company,
		Period:      m.Period,
		Description: m.Description,
		Bullets:     bullets,
		Tags:        tags,
		CreatedAt:   m.CreatedAt,
	}, nil
}

func toJSON(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func fromJSON(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode json column: %w", err)
	}
	return values, nil
}

func createdAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
