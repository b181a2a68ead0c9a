package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/models"
	"github.com/meinhoongagan/careforme-admin/redis"
)

// setHookCache runs onSet once, before the wrapped Set.
type setHookCache struct {
	redis.Cache
	onSet func()
}

func (c *setHookCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.onSet != nil {
		hook := c.onSet
		c.onSet = nil
		hook()
	}
	return c.Cache.Set(ctx, key, value, ttl)
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	d, err := f.reports.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if d.Summary.Total != 3 || d.Summary.Active != 2 {
		t.Errorf("unexpected summary %+v", d.Summary)
	}
	if d.Summary.TopRated == nil || d.Summary.TopRated.ID != "doc2" {
		t.Errorf("expected doc2 top rated, got %+v", d.Summary.TopRated)
	}
	if len(d.TopSpecialties) != 3 || d.MostCommonSpecialty != "Cardiology" {
		t.Errorf("unexpected specialties %v / %q", d.TopSpecialties, d.MostCommonSpecialty)
	}
}

func TestDashboard_CachedUntilWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.reports.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if _, err := f.reports.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if f.store.Calls["list"] != 1 {
		t.Fatalf("expected one store listing, got %d", f.store.Calls["list"])
	}

	if _, err := f.doctors.ToggleSuspension(ctx, "doc1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	d, err := f.reports.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if f.store.Calls["list"] != 2 {
		t.Errorf("expected the write to invalidate the cache, got %d listings", f.store.Calls["list"])
	}
	if d.Summary.Suspended != 1 {
		t.Errorf("expected 1 suspended, got %d", d.Summary.Suspended)
	}
}

func TestDashboard_WriteDuringCacheFillIsNotCached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.reports.cache = &setHookCache{Cache: f.cache, onSet: func() {
		if err := f.doctors.Delete(ctx, "doc2"); err != nil {
			t.Errorf("delete: %v", err)
		}
	}}

	first, err := f.reports.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if first.Summary.Total != 3 {
		t.Fatalf("expected the in-flight dashboard to count 3, got %d", first.Summary.Total)
	}

	d, err := f.reports.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Summary.Total != 2 {
		t.Errorf("expected the delete to be visible, got total %d", d.Summary.Total)
	}
}

func TestDashboard_WriteBeforeCacheFillSkipsSet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	gen := f.doctors.DashboardGeneration()
	if _, err := f.doctors.ToggleSuspension(ctx, "doc1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	f.reports.fillDashboardCache(ctx, Dashboard{}, gen)

	if _, err := f.cache.Get(ctx, DashboardCacheKey); !errors.Is(err, redis.ErrMiss) {
		t.Errorf("expected no cache entry, got %v", err)
	}
}

func TestDashboard_StoreFailure(t *testing.T) {
	f := newFixture()
	f.store.ListErr = errStoreDown
	if _, err := f.reports.Dashboard(context.Background()); !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestReport(t *testing.T) {
	f := newFixture()
	filter := directory.NoFilter()
	filter.City = "Chicago"

	r, err := f.reports.Report(context.Background(), filter)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Total != 3 || r.Shown != 1 || len(r.Doctors) != 1 || r.Doctors[0].ID != "doc3" {
		t.Errorf("unexpected table %d/%d %+v", r.Shown, r.Total, r.Doctors)
	}
	if len(r.Specialties) != 3 || len(r.Cities) != 3 {
		t.Errorf("charts must cover every doctor: %v %v", r.Specialties, r.Cities)
	}
	if r.Monthly[2].Name != "Mar" || r.Monthly[2].Value != 2 {
		t.Errorf("expected 2 March registrations this year, got %+v", r.Monthly[2])
	}
	if len(r.Locations) != 3 {
		t.Errorf("unexpected locations %v", r.Locations)
	}
}

func TestExportCSV(t *testing.T) {
	f := newFixture()
	filter := directory.NoFilter()
	filter.Specialty = "Dermatology"

	out, err := f.reports.ExportCSV(context.Background(), filter)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "Name,Specialty,City,Rating,Reviews,Available,Suspended\n" +
		`"Dr. Michael Chen","Dermatology","San Francisco",4.9,203,Yes,No`
	if out != want {
		t.Errorf("unexpected csv:\n%s", out)
	}
}

func TestSendWeeklyReport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.reports.SendWeeklyReport(ctx); err != nil {
		t.Fatalf("send without address: %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatal("expected no email without a notification address")
	}

	f.settings.settings = models.NotificationSettings{NotificationEmail: "ops@careforme.com"}
	if err := f.reports.SendWeeklyReport(ctx); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(f.mailer.sent))
	}
	mail := f.mailer.sent[0]
	if !strings.Contains(mail.subject, "2026-10-17") {
		t.Errorf("unexpected subject %q", mail.subject)
	}
	if len(mail.attachments) != 1 || mail.attachments[0].Filename != "doctors_report.csv" {
		t.Fatalf("expected csv attachment, got %+v", mail.attachments)
	}
	if !strings.HasPrefix(string(mail.attachments[0].Data), "Name,Specialty") {
		t.Error("attachment is not the csv export")
	}
}

func TestSendWeeklyReport_MailFailure(t *testing.T) {
	f := newFixture()
	f.settings.settings = models.NotificationSettings{NotificationEmail: "ops@careforme.com"}
	f.mailer.err = errors.New("smtp down")

	if err := f.reports.SendWeeklyReport(context.Background()); err == nil {
		t.Error("expected mail error")
	}
}
