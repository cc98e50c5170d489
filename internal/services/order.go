package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

// OrderService is the entitlement checker: one order row for a quiz
// unlocks its questions. The check deliberately ignores who placed the
// order, matching the established platform behavior.
type OrderService interface {
	IsEntitled(ctx context.Context, quizID uint) (bool, error)
	HasBought(ctx context.Context, userID uuid.UUID, quizID uint) bool
	PlaceOrder(ctx context.Context, userID uuid.UUID, quizID uint) (*types.QuizOrder, error)
}

type orderService struct {
	db        *gorm.DB
	log       *logger.Logger
	quizRepo  repos.QuizRepo
	orderRepo repos.QuizOrderRepo
}

func NewOrderService(db *gorm.DB, log *logger.Logger, quizRepo repos.QuizRepo, orderRepo repos.QuizOrderRepo) OrderService {
	return &orderService{
		db:        db,
		log:       log.With("service", "OrderService"),
		quizRepo:  quizRepo,
		orderRepo: orderRepo,
	}
}

func (s *orderService) IsEntitled(ctx context.Context, quizID uint) (bool, error) {
	exists, err := s.orderRepo.ExistsByQuizID(ctx, nil, quizID)
	if err != nil {
		return false, fmt.Errorf("failed to check quiz orders: %w", err)
	}
	return exists, nil
}

// HasBought reports whether this specific user ordered the quiz; used for
// listing decoration only, never as the access gate.
func (s *orderService) HasBought(ctx context.Context, userID uuid.UUID, quizID uint) bool {
	if userID == uuid.Nil {
		return false
	}
	bought, err := s.orderRepo.ExistsByUserQuiz(ctx, nil, userID, quizID)
	if err != nil {
		s.log.Warn("Failed to check user quiz order", "error", err, "quiz_id", quizID)
		return false
	}
	return bought
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, quizID uint) (*types.QuizOrder, error) {
	quizzes, err := s.quizRepo.GetByIDs(ctx, nil, []uint{quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, apierr.NotFound("quiz")
	}

	order := &types.QuizOrder{QuizID: quizID, UserID: userID}
	created, err := s.orderRepo.Create(ctx, nil, []*types.QuizOrder{order})
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz order: %w", err)
	}
	return created[0], nil
}
