package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

type TestUploadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, uploads []*types.TestUpload) ([]*types.TestUpload, error)
}

type testUploadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestUploadRepo(db *gorm.DB, baseLog *logger.Logger) TestUploadRepo {
	return &testUploadRepo{db: db, log: baseLog.With("repo", "TestUploadRepo")}
}

func (r *testUploadRepo) Create(ctx context.Context, tx *gorm.DB, uploads []*types.TestUpload) ([]*types.TestUpload, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(uploads) == 0 {
		return []*types.TestUpload{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}
