package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

// QuizFilter narrows the quiz listing. Zero values mean "no filter";
// Page is 1-based.
type QuizFilter struct {
	ModeOfStudy string
	Year        string
	FieldSlug   string
	DegreeSlug  string
	Page        int
	PageSize    int
}

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uint) ([]*types.Quiz, error)
	List(ctx context.Context, tx *gorm.DB, filter QuizFilter) ([]*types.Quiz, int64, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(quizzes) == 0 {
		return []*types.Quiz{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) GetByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uint) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Quiz
	if len(quizIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Category").
		Preload("Category.Parent").
		Where("id IN ?", quizIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizRepo) List(ctx context.Context, tx *gorm.DB, filter QuizFilter) ([]*types.Quiz, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.Quiz{})

	if filter.ModeOfStudy != "" {
		query = query.Where("quiz.mode_of_study = ?", filter.ModeOfStudy)
	}
	if filter.Year != "" {
		query = query.Where("quiz.year = ?", filter.Year)
	}
	if filter.FieldSlug != "" {
		query = query.Joins(`JOIN category AS field ON field.id = quiz.category_id`).
			Where("field.slug = ?", filter.FieldSlug)
	}
	if filter.DegreeSlug != "" {
		query = query.Joins(`JOIN category AS fc ON fc.id = quiz.category_id`).
			Joins(`JOIN category AS degree ON degree.id = fc.parent_id`).
			Where("degree.slug = ?", filter.DegreeSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var results []*types.Quiz
	if err := query.
		Preload("Category").
		Preload("Category.Parent").
		Order("quiz.id DESC").
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
