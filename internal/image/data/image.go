package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lk2023060901/image-studio-backend/internal/image/biz"
	"gorm.io/gorm"
)

// SegmentsJSON stores segment summaries as a JSONB column.
type SegmentsJSON []biz.SegmentSummary

func (j *SegmentsJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j SegmentsJSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// GeneratedImagePO represents the database model
type GeneratedImagePO struct {
	ID             string `gorm:"type:uuid;primarykey"`
	Prompt         string `gorm:"type:text;not null"`
	EnhancedPrompt string `gorm:"type:text;not null"`
	RevisedPrompt  string `gorm:"type:text"`
	Style          string `gorm:"size:50;not null"`
	Size           string `gorm:"size:20;not null"`
	Quality        string `gorm:"size:20;not null"`
	Model          string `gorm:"size:50;not null"`

	// Truncated payload prefix; the full image lives in object storage.
	ImageRef  string `gorm:"size:128"`
	ObjectKey string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (GeneratedImagePO) TableName() string {
	return "generated_images"
}

// ScriptCollectionPO represents the database model
type ScriptCollectionPO struct {
	ID            string       `gorm:"type:uuid;primarykey"`
	ScriptID      string       `gorm:"size:100;not null;index"`
	Style         string       `gorm:"size:50;not null"`
	TotalSegments int          `gorm:"not null"`
	Segments      SegmentsJSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ScriptCollectionPO) TableName() string {
	return "script_image_collections"
}

// ImageRepo implements biz.ImageRecordRepo interface
type ImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) biz.ImageRecordRepo {
	return &ImageRepo{db: db}
}

func (r *ImageRepo) SaveGeneratedImage(ctx context.Context, record *biz.GeneratedImageRecord) (string, error) {
	po := &GeneratedImagePO{
		ID:             record.ID,
		Prompt:         record.Prompt,
		EnhancedPrompt: record.EnhancedPrompt,
		RevisedPrompt:  record.RevisedPrompt,
		Style:          record.Style,
		Size:           record.Size,
		Quality:        record.Quality,
		Model:          record.Model,
		ImageRef:       record.ImageRef,
		ObjectKey:      record.ObjectKey,
		CreatedAt:      record.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return "", err
	}

	return po.ID, nil
}

func (r *ImageRepo) SaveScriptCollection(ctx context.Context, collection *biz.ScriptCollection) (string, error) {
	po := &ScriptCollectionPO{
		ID:            collection.ID,
		ScriptID:      collection.ScriptID,
		Style:         collection.Style,
		TotalSegments: collection.TotalSegments,
		Segments:      SegmentsJSON(collection.Segments),
		CreatedAt:     collection.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return "", err
	}

	return po.ID, nil
}

func (r *ImageRepo) GetScriptCollection(ctx context.Context, id string) (*biz.ScriptCollection, error) {
	var po ScriptCollectionPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrCollectionNotFound
		}
		return nil, err
	}

	return &biz.ScriptCollection{
		ID:            po.ID,
		ScriptID:      po.ScriptID,
		Style:         po.Style,
		CreatedAt:     po.CreatedAt,
		TotalSegments: po.TotalSegments,
		Segments:      []biz.SegmentSummary(po.Segments),
	}, nil
}
