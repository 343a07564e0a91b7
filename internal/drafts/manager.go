package drafts

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhub/webclient/internal/model"
)

// Manager is the local autosave store for session drafts.
type Manager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *Manager {
	return &Manager{
		db:     db,
		logger: slog.Default().With("logger", "DraftManager"),
	}
}

func (m *Manager) Migrate() error {
	if m == nil || m.db == nil {
		return fmt.Errorf("no database")
	}

	return m.db.AutoMigrate(&model.SessionDraft{})
}

func (m *Manager) Save(d *model.SessionDraft) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("no database")
	}

	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	return m.db.Save(d).Error
}

func (m *Manager) Get(id string) *model.SessionDraft {
	if m == nil || m.db == nil {
		return nil
	}

	var d *model.SessionDraft

	res := m.db.Take(&d, "id = ?", id)

	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil
	}

	return d
}

func (m *Manager) ForCreator(creatorID uint) []*model.SessionDraft {
	if m == nil || m.db == nil {
		return nil
	}

	var res []*model.SessionDraft

	m.db.Where("creator_id = ?", creatorID).Order("updated_at desc").Find(&res)

	return res
}

func (m *Manager) Delete(id string) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("no database")
	}

	return m.db.Where("id = ?", id).Delete(&model.SessionDraft{}).Error
}
