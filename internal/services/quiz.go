package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
)

// previewQuestionLimit caps how many questions the open preview exposes.
const previewQuestionLimit = 5

type QuizListPage struct {
	Count   int64      `json:"count"`
	Results []QuizView `json:"results"`
}

type QuizPreview struct {
	QuizzDetails QuizView       `json:"quizz_details"`
	TestList     []QuestionView `json:"test_list"`
}

type QuizChoicesView struct {
	YearChoices        []Choice `json:"year_choices"`
	ModeOfStudyChoices []Choice `json:"mode_of_study_choices"`
}

type QuizService interface {
	List(ctx context.Context, userID uuid.UUID, filter repos.QuizFilter) (*QuizListPage, error)
	Choices(ctx context.Context) *QuizChoicesView
	Preview(ctx context.Context, userID uuid.UUID, quizID uint) (*QuizPreview, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizRepo     repos.QuizRepo
	questionRepo repos.QuizQuestionRepo
	optionRepo   repos.QuestionOptionRepo
	orderSvc     OrderService
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	optionRepo repos.QuestionOptionRepo,
	orderSvc OrderService,
) QuizService {
	return &quizService{
		db:           db,
		log:          log.With("service", "QuizService"),
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		orderSvc:     orderSvc,
	}
}

func (s *quizService) List(ctx context.Context, userID uuid.UUID, filter repos.QuizFilter) (*QuizListPage, error) {
	quizzes, total, err := s.quizRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	views := make([]QuizView, 0, len(quizzes))
	for _, quiz := range quizzes {
		views = append(views, NewQuizView(quiz, s.orderSvc.HasBought(ctx, userID, quiz.ID)))
	}
	return &QuizListPage{Count: total, Results: views}, nil
}

func (s *quizService) Choices(ctx context.Context) *QuizChoicesView {
	return &QuizChoicesView{
		YearChoices:        YearChoices(),
		ModeOfStudyChoices: ModeOfStudyChoices(),
	}
}

// Preview returns quiz metadata with the first few questions. No session
// row is created here.
func (s *quizService) Preview(ctx context.Context, userID uuid.UUID, quizID uint) (*QuizPreview, error) {
	quizzes, err := s.quizRepo.GetByIDs(ctx, nil, []uint{quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, apierr.NotFound("quiz")
	}
	quiz := quizzes[0]

	questions, err := s.questionRepo.GetByQuizID(ctx, nil, quizID, previewQuestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, apierr.NotFound("quiz questions")
	}

	questionViews, err := buildQuestionViews(ctx, s.optionRepo, questions)
	if err != nil {
		return nil, err
	}

	return &QuizPreview{
		QuizzDetails: NewQuizView(quiz, s.orderSvc.HasBought(ctx, userID, quiz.ID)),
		TestList:     questionViews,
	}, nil
}
