package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/models"
	"github.com/meinhoongagan/careforme-admin/redis"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
)

// DashboardCacheKey holds the cached dashboard JSON. Doctor writes delete it.
const DashboardCacheKey = "dashboard:summary"

const dashboardTopN = 5

// Dashboard is the landing page payload.
type Dashboard struct {
	Summary             directory.Summary `json:"summary"`
	MostCommonSpecialty string            `json:"mostCommonSpecialty"`
	TopSpecialties      []directory.Group `json:"topSpecialties"`
	TopCities           []directory.Group `json:"topCities"`
	GeneratedAt         time.Time         `json:"generatedAt"`
}

// Report is the reports page payload. The charts cover every doctor; Doctors
// is the filtered table.
type Report struct {
	Specialties []directory.Group  `json:"specialties"`
	Cities      []directory.Group  `json:"cities"`
	Status      []directory.Group  `json:"status"`
	Monthly     []directory.Group  `json:"monthly"`
	Locations   []string           `json:"locations"`
	Doctors     []directory.Doctor `json:"doctors"`
	Total       int                `json:"total"`
	Shown       int                `json:"shown"`
}

// SettingsSource provides the weekly report recipient.
type SettingsSource interface {
	Get(ctx context.Context) (models.NotificationSettings, error)
}

type ReportService struct {
	doctors  *DoctorService
	cache    redis.Cache
	cacheTTL time.Duration
	settings SettingsSource
	mailer   utils.Mailer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewReportService(doctors *DoctorService, cache redis.Cache, cacheTTL time.Duration, settings SettingsSource, mailer utils.Mailer, logger zerolog.Logger) *ReportService {
	return &ReportService{
		doctors:  doctors,
		cache:    cache,
		cacheTTL: cacheTTL,
		settings: settings,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard returns the cached dashboard, computing it on a miss.
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, DashboardCacheKey)
		switch {
		case err == nil:
			var d Dashboard
			if jsonErr := json.Unmarshal([]byte(cached), &d); jsonErr == nil {
				return d, nil
			}
			s.logger.Warn().Msg("discarding unreadable dashboard cache entry")
		case !errors.Is(err, redis.ErrMiss):
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	gen := s.doctors.DashboardGeneration()
	doctors, err := s.doctors.Refresh(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d := buildDashboard(doctors, s.now())

	if s.cache != nil && s.cacheTTL > 0 {
		s.fillDashboardCache(ctx, d, gen)
	}
	return d, nil
}

// fillDashboardCache stores d unless a write happened since gen was taken. A
// write that lands while the entry is being stored is caught by the second
// check, since writes bump the generation before deleting the key.
func (s *ReportService) fillDashboardCache(ctx context.Context, d Dashboard, gen uint64) {
	if s.doctors.DashboardGeneration() != gen {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, DashboardCacheKey, string(data), s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache write failed")
		return
	}
	if s.doctors.DashboardGeneration() != gen {
		if err := s.cache.Del(ctx, DashboardCacheKey); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop stale dashboard cache entry")
		}
	}
}

func buildDashboard(doctors []directory.Doctor, now time.Time) Dashboard {
	summary := directory.Summarize(doctors)
	if summary.TopRated != nil {
		top := summary.TopRated.Display()
		summary.TopRated = &top
	}
	specialties := directory.GroupBy(doctors, directory.BySpecialty)
	d := Dashboard{
		Summary:        summary,
		TopSpecialties: directory.TopN(specialties, dashboardTopN),
		TopCities:      directory.TopN(directory.GroupBy(doctors, directory.ByCity), dashboardTopN),
		GeneratedAt:    now.UTC(),
	}
	if len(specialties) > 0 {
		d.MostCommonSpecialty = specialties[0].Name
	}
	return d
}

// Report builds the chart data and the filtered table.
func (s *ReportService) Report(ctx context.Context, f directory.Filter) (Report, error) {
	doctors, err := s.doctors.Refresh(ctx)
	if err != nil {
		return Report{}, err
	}
	filtered := directory.Apply(doctors, f)
	rows := make([]directory.Doctor, 0, len(filtered))
	for _, d := range filtered {
		rows = append(rows, d.Display())
	}
	return Report{
		Specialties: directory.GroupBy(doctors, directory.BySpecialty),
		Cities:      directory.GroupBy(doctors, directory.ByCity),
		Status:      directory.StatusBreakdown(doctors),
		Monthly:     directory.MonthlyRegistrations(doctors, s.now()),
		Locations:   directory.Locations(doctors),
		Doctors:     rows,
		Total:       len(doctors),
		Shown:       len(filtered),
	}, nil
}

// ExportCSV serializes the doctors matching f.
func (s *ReportService) ExportCSV(ctx context.Context, f directory.Filter) (string, error) {
	doctors, err := s.doctors.List(ctx, f)
	if err != nil {
		return "", err
	}
	return directory.CSV(doctors), nil
}

// SendWeeklyReport mails the summary and the full CSV to the notification
// address. It does nothing when no address is configured.
func (s *ReportService) SendWeeklyReport(ctx context.Context) error {
	if s.mailer == nil {
		return nil
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.NotificationEmail == "" {
		s.logger.Info().Msg("weekly report skipped, no notification email")
		return nil
	}

	doctors, err := s.doctors.Refresh(ctx)
	if err != nil {
		return err
	}
	summary := directory.Summarize(doctors)
	avg := "N/A"
	if summary.AverageRating != nil {
		avg = fmt.Sprintf("%.1f", *summary.AverageRating)
	}
	top := "N/A"
	if summary.TopRated != nil {
		top = summary.TopRated.Display().Name
	}

	subject := fmt.Sprintf("CareForMe weekly report - %s", s.now().Format("2006-01-02"))
	body := fmt.Sprintf(`
		<p>Here is this week's directory summary.</p>
		<ul>
			<li><strong>Total doctors:</strong> %d</li>
			<li><strong>Active:</strong> %d</li>
			<li><strong>Suspended:</strong> %d</li>
			<li><strong>Average rating:</strong> %s</li>
			<li><strong>Total reviews:</strong> %d</li>
			<li><strong>Top rated:</strong> %s</li>
		</ul>
		<p>The full list is attached.</p>
	`, summary.Total, summary.Active, summary.Suspended, avg, summary.TotalReviews, html.EscapeString(top))

	attachment := utils.Attachment{
		Filename:    directory.CSVFilename,
		ContentType: directory.CSVMimeType,
		Data:        []byte(directory.CSV(doctors)),
	}
	if err := s.mailer.SendEmail(settings.NotificationEmail, subject, body, attachment); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}
	s.logger.Info().Int("doctors", summary.Total).Msg("weekly report sent")
	return nil
}
