package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/models"
	"gorm.io/gorm"
)

// DoctorSeeder is the part of the doctor store the seed needs.
type DoctorSeeder interface {
	Count(ctx context.Context) (int64, error)
	Add(ctx context.Context, data directory.RawRecord) (string, error)
}

// SeedAdmin creates the admin role with every default permission and, when
// no user with email exists yet, the admin account.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("admin password: %w", auth.ErrPasswordTooShort)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := models.DefaultPermissions()
		for i := range perms {
			if err := tx.Where(models.Permission{Name: perms[i].Name}).FirstOrCreate(&perms[i]).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", perms[i].Name, err)
			}
		}

		role := models.Role{Name: models.RoleAdmin}
		if err := tx.Where(models.Role{Name: models.RoleAdmin}).
			Attrs(models.Role{Description: "Administrator with full access"}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}
		if err := tx.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("assign admin permissions: %w", err)
		}

		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		admin := models.User{Name: "Admin", Email: email, Password: hash, RoleID: role.ID}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		return nil
	})
}

// SeedDoctors adds the sample doctors when the store is empty. It returns the
// number of records added.
func SeedDoctors(ctx context.Context, s DoctorSeeder, now time.Time) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	createdAt := now.UTC().Format(directory.CreatedAtLayout)
	added := 0
	for _, rec := range SampleDoctors() {
		rec[directory.FieldCreatedAt] = createdAt
		if _, err := s.Add(ctx, rec); err != nil {
			return added, fmt.Errorf("add sample doctor: %w", err)
		}
		added++
	}
	return added, nil
}

func SampleDoctors() []directory.RawRecord {
	return []directory.RawRecord{
		{
			"name":           "Dr. Sarah Johnson",
			"specialty":      "Cardiology",
			"city":           "New York",
			"address":        "123 Medical Ave, New York, NY 10001",
			"email":          "sarah.johnson@careforme.com",
			"phone":          "+1 (212) 555-1234",
			"latitude":       40.7128,
			"longitude":      -74.0060,
			"profilePicture": "https://randomuser.me/api/portraits/women/1.jpg",
			"bio":            "Experienced cardiologist with over 10 years of practice.",
			"rating":         4.8,
			"reviewCount":    156,
			"availableDays":  []string{"Monday", "Tuesday", "Wednesday", "Friday"},
			"isAvailable":    true,
			"suspended":      false,
		},
		{
			"name":           "Dr. Michael Chen",
			"specialty":      "Dermatology",
			"city":           "San Francisco",
			"address":        "456 Health St, San Francisco, CA 94105",
			"email":          "michael.chen@careforme.com",
			"phone":          "+1 (415) 555-5678",
			"latitude":       37.7749,
			"longitude":      -122.4194,
			"profilePicture": "https://randomuser.me/api/portraits/men/2.jpg",
			"bio":            "Board-certified dermatologist specializing in skin cancer prevention.",
			"rating":         4.9,
			"reviewCount":    203,
			"availableDays":  []string{"Monday", "Tuesday", "Thursday", "Friday"},
			"isAvailable":    true,
			"suspended":      false,
		},
		{
			"name":           "Dr. Emily Rodriguez",
			"specialty":      "Pediatrics",
			"city":           "Chicago",
			"address":        "789 Child Care Blvd, Chicago, IL 60601",
			"email":          "emily.rodriguez@careforme.com",
			"phone":          "+1 (312) 555-9012",
			"latitude":       41.8781,
			"longitude":      -87.6298,
			"profilePicture": "https://randomuser.me/api/portraits/women/3.jpg",
			"bio":            "Dedicated pediatrician with a focus on newborn care and child development.",
			"rating":         4.7,
			"reviewCount":    178,
			"availableDays":  []string{"Tuesday", "Wednesday", "Thursday", "Friday"},
			"isAvailable":    true,
			"suspended":      false,
		},
	}
}
