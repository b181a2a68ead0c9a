package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/redis"
	"github.com/meinhoongagan/careforme-admin/store"
	"github.com/rs/zerolog"
)

// DoctorNotifier is told about newly created doctors.
type DoctorNotifier interface {
	DoctorCreated(ctx context.Context, d directory.Doctor)
}

type DoctorService struct {
	store    store.DoctorStore
	view     *directory.View
	cache    redis.Cache
	notifier DoctorNotifier
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool

	// bumped by every confirmed write before the dashboard entry is dropped
	dashboardGen atomic.Uint64
}

func NewDoctorService(s store.DoctorStore, cache redis.Cache, notifier DoctorNotifier, logger zerolog.Logger) *DoctorService {
	return &DoctorService{
		store:    s,
		view:     directory.NewView(),
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		inFlight: map[string]bool{},
	}
}

// View exposes the in-memory directory.
func (s *DoctorService) View() *directory.View {
	return s.view
}

// Refresh reloads the directory from the store. A fetch that finishes after a
// newer fetch or a confirmed write is discarded, and the newer records are
// returned instead.
func (s *DoctorService) Refresh(ctx context.Context) ([]directory.Doctor, error) {
	gen := s.view.BeginFetch()
	raws, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch doctors: %w", err)
	}
	if !s.view.Apply(gen, directory.NormalizeAll(raws)) {
		s.logger.Debug().Uint64("generation", gen).Msg("stale doctor fetch dropped")
	}
	return s.view.Records(), nil
}

// List returns the doctors matching f in store order.
func (s *DoctorService) List(ctx context.Context, f directory.Filter) ([]directory.Doctor, error) {
	doctors, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Apply(doctors, f), nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (directory.Doctor, error) {
	raw, err := s.store.Get(ctx, id)
	if err != nil {
		return directory.Doctor{}, err
	}
	return directory.Normalize(raw), nil
}

// Create validates input, fills the defaults and stores the new doctor.
func (s *DoctorService) Create(ctx context.Context, input directory.RawRecord) (directory.Doctor, error) {
	if err := validateCreate(input); err != nil {
		return directory.Doctor{}, err
	}

	d := directory.Normalize(input)
	d.ID = ""
	d.CreatedAt = s.now().UTC().Format(directory.CreatedAtLayout)

	id, err := s.store.Add(ctx, d.Record())
	if err != nil {
		return directory.Doctor{}, fmt.Errorf("add doctor: %w", err)
	}
	d.ID = id

	s.view.Upsert(d)
	s.invalidateDashboard(ctx)
	s.logger.Info().Str("doctor_id", id).Str("name", d.Name).Msg("doctor created")

	if s.notifier != nil {
		s.notifier.DoctorCreated(ctx, d)
	}
	return d, nil
}

// Update merges the known fields of patch into the stored doctor. id and
// createdAt are never written.
func (s *DoctorService) Update(ctx context.Context, id string, patch directory.RawRecord) (directory.Doctor, error) {
	clean, err := sanitizePatch(patch)
	if err != nil {
		return directory.Doctor{}, err
	}

	release, err := s.acquire(id)
	if err != nil {
		return directory.Doctor{}, err
	}
	defer release()

	if err := s.store.Update(ctx, id, clean); err != nil {
		return directory.Doctor{}, err
	}
	raw, err := s.store.Get(ctx, id)
	if err != nil {
		return directory.Doctor{}, fmt.Errorf("reload doctor %s: %w", id, err)
	}

	d := directory.Normalize(raw)
	s.view.Upsert(d)
	s.invalidateDashboard(ctx)
	s.logger.Info().Str("doctor_id", id).Int("fields", len(clean)).Msg("doctor updated")
	return d, nil
}

// Delete removes the doctor. A doctor that is already gone counts as deleted.
func (s *DoctorService) Delete(ctx context.Context, id string) error {
	release, err := s.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	err = s.store.Delete(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete doctor %s: %w", id, err)
	}

	s.view.Remove(id)
	s.invalidateDashboard(ctx)
	s.logger.Info().Str("doctor_id", id).Bool("already_gone", err != nil).Msg("doctor deleted")
	return nil
}

// ToggleSuspension flips the suspended flag and returns the new value. The
// in-memory directory only changes once the store has accepted the write.
func (s *DoctorService) ToggleSuspension(ctx context.Context, id string) (bool, error) {
	release, err := s.acquire(id)
	if err != nil {
		return false, err
	}
	defer release()

	raw, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	d := directory.Normalize(raw)
	next := !d.Suspended

	if err := s.store.Update(ctx, id, directory.RawRecord{directory.FieldSuspended: next}); err != nil {
		return d.Suspended, fmt.Errorf("update suspension of %s: %w", id, err)
	}

	if !s.view.SetSuspended(id, next) {
		d.Suspended = next
		s.view.Upsert(d)
	}
	s.invalidateDashboard(ctx)
	s.logger.Info().Str("doctor_id", id).Bool("suspended", next).Msg("doctor suspension toggled")
	return next, nil
}

// SetProfilePicture stores an uploaded picture URL on the doctor.
func (s *DoctorService) SetProfilePicture(ctx context.Context, id, url string) (directory.Doctor, error) {
	return s.Update(ctx, id, directory.RawRecord{directory.FieldProfilePicture: url})
}

func (s *DoctorService) acquire(id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return nil, ErrBusy
	}
	s.inFlight[id] = true
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.inFlight, id)
	}, nil
}

// DashboardGeneration changes whenever a write invalidates the dashboard.
func (s *DoctorService) DashboardGeneration() uint64 {
	return s.dashboardGen.Load()
}

func (s *DoctorService) invalidateDashboard(ctx context.Context) {
	s.dashboardGen.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, DashboardCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

func validateCreate(input directory.RawRecord) error {
	for _, field := range directory.RequiredFields {
		v, _ := input[field].(string)
		if strings.TrimSpace(v) == "" {
			return validationError("%s is required", field)
		}
	}
	return validateValues(input)
}

var (
	numberFields = []string{directory.FieldLatitude, directory.FieldLongitude, directory.FieldRating}
	boolFields   = []string{directory.FieldIsAvailable, directory.FieldSuspended}
)

// validateValues rejects values the normalizer would silently replace with
// defaults. A null value is accepted and resets the field.
func validateValues(input directory.RawRecord) error {
	for _, field := range numberFields {
		if v, ok := input[field]; ok && v != nil {
			if _, ok := directory.ParseNumber(v); !ok {
				return validationError("%s must be a number", field)
			}
		}
	}
	if v, ok := input[directory.FieldReviewCount]; ok && v != nil {
		if _, ok := directory.ParseCount(v); !ok {
			return validationError("%s must be a whole number between 0 and %d", directory.FieldReviewCount, directory.MaxReviewCount)
		}
	}
	for _, field := range boolFields {
		if v, ok := input[field]; ok && v != nil {
			if _, ok := directory.ParseBool(v); !ok {
				return validationError("%s must be true or false", field)
			}
		}
	}
	if v, ok := input[directory.FieldSpecialty]; ok {
		sp, _ := v.(string)
		if !directory.IsSpecialty(sp) {
			return validationError("unknown specialty %q", sp)
		}
	}
	if v, ok := input[directory.FieldAvailableDays]; ok && v != nil {
		days, ok := toStrings(v)
		if !ok {
			return validationError("availableDays must be a list of weekdays")
		}
		for _, day := range days {
			if !directory.IsWeekday(day) {
				return validationError("unknown weekday %q", day)
			}
		}
	}
	return nil
}

var patchableFields = map[string]bool{
	directory.FieldName:           true,
	directory.FieldSpecialty:      true,
	directory.FieldCity:           true,
	directory.FieldAddress:        true,
	directory.FieldEmail:          true,
	directory.FieldPhone:          true,
	directory.FieldLatitude:       true,
	directory.FieldLongitude:      true,
	directory.FieldProfilePicture: true,
	directory.FieldBio:            true,
	directory.FieldRating:         true,
	directory.FieldReviewCount:    true,
	directory.FieldAvailableDays:  true,
	directory.FieldIsAvailable:    true,
	directory.FieldSuspended:      true,
}

// sanitizePatch keeps the patchable fields of patch, normalized to their
// stored types.
func sanitizePatch(patch directory.RawRecord) (directory.RawRecord, error) {
	for _, field := range directory.RequiredFields {
		if v, ok := patch[field]; ok {
			s, _ := v.(string)
			if strings.TrimSpace(s) == "" {
				return nil, validationError("%s cannot be empty", field)
			}
		}
	}
	if err := validateValues(patch); err != nil {
		return nil, err
	}

	typed := directory.Normalize(patch).Record()
	clean := directory.RawRecord{}
	for k := range patch {
		if patchableFields[k] {
			clean[k] = typed[k]
		}
	}
	if len(clean) == 0 {
		return nil, validationError("no updatable fields")
	}
	return clean, nil
}

func toStrings(v interface{}) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
