package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore keeps each doctor as a JSONB document.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]directory.RawRecord, error) {
	var docs []models.DoctorDocument
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	out := make([]directory.RawRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toRecord(doc))
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (directory.RawRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var doc models.DoctorDocument
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor %s: %w", id, err)
	}
	return toRecord(doc), nil
}

func (s *PostgresStore) Add(ctx context.Context, data directory.RawRecord) (string, error) {
	doc := models.DoctorDocument{
		ID:   uuid.NewString(),
		Data: models.Document(stripID(data)),
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return "", fmt.Errorf("add doctor: %w", err)
	}
	return doc.ID, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch directory.RawRecord) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.DoctorDocument
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&doc, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock doctor %s: %w", id, err)
		}
		doc.Data = doc.Data.Merge(stripID(patch))
		if err := tx.Model(&doc).Update("data", doc.Data).Error; err != nil {
			return fmt.Errorf("update doctor %s: %w", id, err)
		}
		return nil
	})
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).Delete(&models.DoctorDocument{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete doctor %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count is used by the seed command to decide whether sample data is needed.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.DoctorDocument{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}

func toRecord(doc models.DoctorDocument) directory.RawRecord {
	rec := make(directory.RawRecord, len(doc.Data)+1)
	for k, v := range doc.Data {
		rec[k] = v
	}
	rec[directory.FieldID] = doc.ID
	return rec
}

func stripID(data directory.RawRecord) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if k == directory.FieldID {
			continue
		}
		out[k] = v
	}
	return out
}
