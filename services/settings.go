package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/models"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository persists the notification settings row.
type SettingsRepository interface {
	Load(ctx context.Context) (models.NotificationSettings, error)
	Save(ctx context.Context, settings models.NotificationSettings) error
}

type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Load returns the zero settings when the row was never written.
func (r *GormSettingsRepository) Load(ctx context.Context) (models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := r.db.WithContext(ctx).First(&settings, models.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotificationSettings{ID: models.SettingsRowID}, nil
	}
	return settings, err
}

func (r *GormSettingsRepository) Save(ctx context.Context, settings models.NotificationSettings) error {
	settings.ID = models.SettingsRowID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&settings).Error
}

type SettingsService struct {
	repo   SettingsRepository
	mailer utils.Mailer
	logger zerolog.Logger
}

func NewSettingsService(repo SettingsRepository, mailer utils.Mailer, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, mailer: mailer, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (models.NotificationSettings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return models.NotificationSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// Update validates and saves the notification settings.
func (s *SettingsService) Update(ctx context.Context, email string, notifyOnNewDoctors bool) (models.NotificationSettings, error) {
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return models.NotificationSettings{}, validationError("invalid notification email %q", email)
		}
	}
	if notifyOnNewDoctors && email == "" {
		return models.NotificationSettings{}, validationError("a notification email is required to notify on new doctors")
	}

	settings := models.NotificationSettings{
		ID:                 models.SettingsRowID,
		NotificationEmail:  email,
		NotifyOnNewDoctors: notifyOnNewDoctors,
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return models.NotificationSettings{}, fmt.Errorf("save settings: %w", err)
	}
	s.logger.Info().Bool("notify_on_new_doctors", notifyOnNewDoctors).Msg("notification settings updated")
	return settings, nil
}

// DoctorCreated emails the notification address when enabled. Failures are
// logged and never reach the caller.
func (s *SettingsService) DoctorCreated(ctx context.Context, d directory.Doctor) {
	if s.mailer == nil {
		return
	}
	settings, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load notification settings")
		return
	}
	if !settings.NotifyOnNewDoctors || settings.NotificationEmail == "" {
		return
	}

	d = d.Display()
	subject := fmt.Sprintf("New doctor added: %s", d.Name)
	body := fmt.Sprintf(`
		<p>A new doctor was added to the CareForMe directory.</p>
		<ul>
			<li><strong>Name:</strong> %s</li>
			<li><strong>Specialty:</strong> %s</li>
			<li><strong>City:</strong> %s</li>
			<li><strong>Email:</strong> %s</li>
		</ul>
	`, html.EscapeString(d.Name), html.EscapeString(d.Specialty), html.EscapeString(d.City), html.EscapeString(d.Email))

	if err := s.mailer.SendEmail(settings.NotificationEmail, subject, body); err != nil {
		s.logger.Warn().Err(err).Str("doctor_id", d.ID).Msg("failed to send new doctor notification")
	}
}
