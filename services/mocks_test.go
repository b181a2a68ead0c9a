package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/models"
	"github.com/meinhoongagan/careforme-admin/redis"
	"github.com/meinhoongagan/careforme-admin/store/storetest"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
)

type sentMail struct {
	to, subject, body string
	attachments       []utils.Attachment
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) SendEmail(to, subject, body string, attachments ...utils.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body, attachments: attachments})
	return nil
}

type mockSettingsRepo struct {
	mu       sync.Mutex
	settings models.NotificationSettings
	saveErr  error
}

func (m *mockSettingsRepo) Load(ctx context.Context) (models.NotificationSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *mockSettingsRepo) Save(ctx context.Context, s models.NotificationSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = s
	return nil
}

var errStoreDown = errors.New("store unavailable")

var fixedNow = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

func sampleRecords() []directory.RawRecord {
	return []directory.RawRecord{
		{
			"id": "doc1", "name": "Dr. Sarah Johnson", "specialty": "Cardiology", "city": "New York",
			"address": "123 Medical Ave", "email": "sarah.johnson@careforme.com", "phone": "+1 (555) 123-4567",
			"rating": 4.8, "reviewCount": 156, "isAvailable": true, "suspended": false,
			"createdAt": "2026-03-02T10:00:00.000Z",
		},
		{
			"id": "doc2", "name": "Dr. Michael Chen", "specialty": "Dermatology", "city": "San Francisco",
			"address": "456 Health St", "email": "michael.chen@careforme.com", "phone": "+1 (555) 987-6543",
			"rating": 4.9, "reviewCount": 203, "isAvailable": true, "suspended": false,
			"createdAt": "2026-03-15T10:00:00.000Z",
		},
		{
			"id": "doc3", "name": "Dr. Emily Rodriguez", "specialty": "Pediatrics", "city": "Chicago",
			"address": "789 Care Blvd", "email": "emily.rodriguez@careforme.com", "phone": "+1 (555) 456-7890",
			"rating": 4.7, "reviewCount": 178, "isAvailable": false, "suspended": false,
			"createdAt": "2025-03-15T10:00:00.000Z",
		},
	}
}

type fixture struct {
	store    *storetest.Memory
	cache    *redis.Memory
	mailer   *mockMailer
	settings *mockSettingsRepo
	doctors  *DoctorService
	reports  *ReportService
	prefs    *SettingsService
}

func newFixture() *fixture {
	f := &fixture{
		store:    storetest.NewMemory(sampleRecords()...),
		cache:    redis.NewMemory(),
		mailer:   &mockMailer{},
		settings: &mockSettingsRepo{},
	}
	log := zerolog.Nop()
	f.prefs = NewSettingsService(f.settings, f.mailer, log)
	f.doctors = NewDoctorService(f.store, f.cache, f.prefs, log)
	f.doctors.now = func() time.Time { return fixedNow }
	f.reports = NewReportService(f.doctors, f.cache, time.Minute, f.prefs, f.mailer, log)
	f.reports.now = func() time.Time { return fixedNow }
	return f
}
