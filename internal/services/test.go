package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

// TestSessionLength is the fixed attempt size: a session never holds more
// than this many ledger rows, and the final percentage is always computed
// against it, even when fewer questions were presented.
const TestSessionLength = 25

// TestStepView is the Start/Forward payload.
type TestStepView struct {
	Quizz    string         `json:"quizz"`
	TestList []QuestionView `json:"test_list"`
}

// TestBackView redisplays an already-presented question. SelectAnswer and
// TrueAnswer are omitted when stepping back from the first question.
type TestBackView struct {
	Quizz        string         `json:"quizz"`
	TestList     []QuestionView `json:"test_list"`
	SelectAnswer []OptionView   `json:"select_answer,omitempty"`
	TrueAnswer   []OptionView   `json:"true_answer,omitempty"`
}

type CheckResultView struct {
	Msg        bool         `json:"msg"`
	TrueAnswer []OptionView `json:"true_answer,omitempty"`
}

type TestAnswerView struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	SelectedAnswer *OptionDetailView  `json:"selected_answer"`
	OptionList     []OptionDetailView `json:"option_list"`
}

type SessionView struct {
	ID        uint             `json:"id"`
	Quiz      QuizView         `json:"quiz"`
	CreatedAt time.Time        `json:"created_at"`
	TestList  []TestAnswerView `json:"test_list"`
}

type TestResultView struct {
	Results                  *SessionView `json:"results"`
	CountCorrectAnswers      int64        `json:"count_correct_answers"`
	PersentageCorrectAnswers float64      `json:"persentage_correct_answers"`
}

// TestService drives one quiz attempt: Start opens a session and presents
// the first random question, Forward appends questions up to the session
// cap, Backward redisplays earlier questions, Check records the selected
// option, Finish scores the most recent session.
type TestService interface {
	Start(ctx context.Context, userID uuid.UUID, quizID uint) (*TestStepView, error)
	Forward(ctx context.Context, userID uuid.UUID, quizID uint) (*TestStepView, error)
	Backward(ctx context.Context, userID uuid.UUID, quizID uint, questionID uint) (*TestBackView, error)
	Check(ctx context.Context, userID uuid.UUID, optionID uint) (*CheckResultView, error)
	Finish(ctx context.Context, userID uuid.UUID) (*TestResultView, error)
}

type testService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizRepo     repos.QuizRepo
	questionRepo repos.QuizQuestionRepo
	optionRepo   repos.QuestionOptionRepo
	sessionRepo  repos.TestSessionRepo
	answerRepo   repos.TestAnswerRepo
	orderSvc     OrderService
}

func NewTestService(
	db *gorm.DB,
	log *logger.Logger,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	optionRepo repos.QuestionOptionRepo,
	sessionRepo repos.TestSessionRepo,
	answerRepo repos.TestAnswerRepo,
	orderSvc OrderService,
) TestService {
	return &testService{
		db:           db,
		log:          log.With("service", "TestService"),
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		orderSvc:     orderSvc,
	}
}

// Percentage scores a correct count against the fixed session length, not
// against how many questions were actually presented.
func Percentage(correctCount int64) float64 {
	return float64(correctCount*100) / float64(TestSessionLength)
}

func (s *testService) loadEntitledQuiz(ctx context.Context, quizID uint) (*types.Quiz, error) {
	quizzes, err := s.quizRepo.GetByIDs(ctx, nil, []uint{quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, apierr.NotFound("quiz")
	}
	entitled, err := s.orderSvc.IsEntitled(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, apierr.NotEntitled()
	}
	return quizzes[0], nil
}

func (s *testService) Start(ctx context.Context, userID uuid.UUID, quizID uint) (*TestStepView, error) {
	quiz, err := s.loadEntitledQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var questions []*types.QuizQuestion
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions, err := s.sessionRepo.Create(ctx, tx, []*types.TestSession{
			{UserID: userID, QuizID: quizID},
		})
		if err != nil {
			return fmt.Errorf("failed to create test session: %w", err)
		}
		session := sessions[0]

		questions, err = s.questionRepo.GetRandomByQuizID(ctx, tx, quizID, 1)
		if err != nil {
			return fmt.Errorf("failed to pick random question: %w", err)
		}
		return s.appendAnswers(ctx, tx, session.ID, questions)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Started test session", "quiz_id", quizID)

	views, err := buildQuestionViews(ctx, s.optionRepo, questions)
	if err != nil {
		return nil, err
	}
	return &TestStepView{Quizz: quiz.Title, TestList: views}, nil
}

func (s *testService) Forward(ctx context.Context, userID uuid.UUID, quizID uint) (*TestStepView, error) {
	quiz, err := s.loadEntitledQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetLastByUserQuiz(ctx, nil, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current session: %w", err)
	}
	if session == nil {
		return nil, apierr.NoSession()
	}

	var questions []*types.QuizQuestion
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.answerRepo.CountBySessionID(ctx, tx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to count session answers: %w", err)
		}
		if count >= TestSessionLength {
			return apierr.LimitReached(TestSessionLength)
		}

		questions, err = s.questionRepo.GetRandomByQuizID(ctx, tx, quizID, 1)
		if err != nil {
			return fmt.Errorf("failed to pick random question: %w", err)
		}
		return s.appendAnswers(ctx, tx, session.ID, questions)
	})
	if err != nil {
		return nil, err
	}

	views, err := buildQuestionViews(ctx, s.optionRepo, questions)
	if err != nil {
		return nil, err
	}
	return &TestStepView{Quizz: quiz.Title, TestList: views}, nil
}

func (s *testService) Backward(ctx context.Context, userID uuid.UUID, quizID uint, questionID uint) (*TestBackView, error) {
	quiz, err := s.loadEntitledQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetLastByUserQuiz(ctx, nil, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("test session")
	}

	answers, err := s.answerRepo.GetBySessionID(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session answers: %w", err)
	}

	currentIndex := -1
	for i, a := range answers {
		if a.QuestionID == questionID {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return nil, apierr.NotFound("question")
	}
	if currentIndex == 0 {
		// Nothing before the first presented question.
		return &TestBackView{Quizz: quiz.Title, TestList: []QuestionView{}}, nil
	}

	previous := answers[currentIndex-1]
	questions, err := s.questionRepo.GetByIDs(ctx, nil, []uint{previous.QuestionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load previous question: %w", err)
	}
	if len(questions) == 0 {
		return nil, apierr.NotFound("question")
	}

	views, err := buildQuestionViews(ctx, s.optionRepo, questions)
	if err != nil {
		return nil, err
	}

	trueOptions, err := s.optionRepo.GetCorrectByQuestionID(ctx, nil, previous.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load correct options: %w", err)
	}

	selectAnswer := []OptionView{}
	if previous.SelectedOptionID != nil {
		selected, err := s.optionRepo.GetByIDs(ctx, nil, []uint{*previous.SelectedOptionID})
		if err != nil {
			return nil, fmt.Errorf("failed to load selected option: %w", err)
		}
		selectAnswer = optionViews(selected)
	}

	trueAnswer := optionViews(trueOptions)
	if len(trueAnswer) == 0 {
		trueAnswer = []OptionView{}
	}

	return &TestBackView{
		Quizz:        quiz.Title,
		TestList:     views,
		SelectAnswer: selectAnswer,
		TrueAnswer:   trueAnswer,
	}, nil
}

func (s *testService) Check(ctx context.Context, userID uuid.UUID, optionID uint) (*CheckResultView, error) {
	options, err := s.optionRepo.GetByIDs(ctx, nil, []uint{optionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load option: %w", err)
	}
	if len(options) == 0 {
		return nil, apierr.NotFound("option")
	}
	option := options[0]

	questions, err := s.questionRepo.GetByIDs(ctx, nil, []uint{option.QuestionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if len(questions) == 0 {
		return nil, apierr.NotFound("question")
	}
	question := questions[0]

	session, err := s.sessionRepo.GetLastByUserQuiz(ctx, nil, userID, question.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current session: %w", err)
	}
	if session == nil {
		return nil, apierr.NoSession()
	}

	answer, err := s.answerRepo.GetLastBySessionQuestion(ctx, nil, session.ID, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer record: %w", err)
	}
	if answer == nil {
		return nil, apierr.NotFound("answer record")
	}

	// Last write wins; re-checking the same question just overwrites.
	if err := s.answerRepo.SetSelectedOption(ctx, nil, answer.ID, option.ID); err != nil {
		return nil, fmt.Errorf("failed to record selected option: %w", err)
	}

	if option.IsCorrect {
		return &CheckResultView{Msg: true}, nil
	}

	trueOptions, err := s.optionRepo.GetCorrectByQuestionID(ctx, nil, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load correct options: %w", err)
	}
	return &CheckResultView{Msg: false, TrueAnswer: optionViews(trueOptions)}, nil
}

func (s *testService) Finish(ctx context.Context, userID uuid.UUID) (*TestResultView, error) {
	// The most recent session regardless of quiz: finishing always scores
	// the user's latest attempt.
	session, err := s.sessionRepo.GetLastByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest session: %w", err)
	}
	if session == nil {
		return nil, apierr.NoSession()
	}

	correctCount, err := s.answerRepo.CountCorrectBySessionID(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count correct answers: %w", err)
	}

	sessionView, err := s.buildSessionView(ctx, userID, session)
	if err != nil {
		return nil, err
	}

	return &TestResultView{
		Results:                  sessionView,
		CountCorrectAnswers:      correctCount,
		PersentageCorrectAnswers: Percentage(correctCount),
	}, nil
}

func (s *testService) appendAnswers(ctx context.Context, tx *gorm.DB, sessionID uint, questions []*types.QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	answers := make([]*types.TestAnswer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, &types.TestAnswer{SessionID: sessionID, QuestionID: q.ID})
	}
	if _, err := s.answerRepo.Create(ctx, tx, answers); err != nil {
		return fmt.Errorf("failed to append answer records: %w", err)
	}
	return nil
}

func (s *testService) buildSessionView(ctx context.Context, userID uuid.UUID, session *types.TestSession) (*SessionView, error) {
	quizzes, err := s.quizRepo.GetByIDs(ctx, nil, []uint{session.QuizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load session quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, apierr.NotFound("quiz")
	}
	quiz := quizzes[0]

	answers, err := s.answerRepo.GetBySessionID(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session answers: %w", err)
	}

	questionIDs := make([]uint, 0, len(answers))
	for _, a := range answers {
		questionIDs = append(questionIDs, a.QuestionID)
	}

	questions, err := s.questionRepo.GetByIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load session questions: %w", err)
	}
	questionsByID := make(map[uint]*types.QuizQuestion, len(questions))
	for _, q := range questions {
		questionsByID[q.ID] = q
	}

	options, err := s.optionRepo.GetByQuestionIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load session options: %w", err)
	}
	optionsByQuestion := make(map[uint][]*types.QuestionOption)
	optionsByID := make(map[uint]*types.QuestionOption, len(options))
	for _, opt := range options {
		optionsByQuestion[opt.QuestionID] = append(optionsByQuestion[opt.QuestionID], opt)
		optionsByID[opt.ID] = opt
	}

	testList := make([]TestAnswerView, 0, len(answers))
	for _, a := range answers {
		view := TestAnswerView{
			ID:         a.ID,
			OptionList: shuffledOptionDetailViews(optionsByQuestion[a.QuestionID]),
		}
		if q, ok := questionsByID[a.QuestionID]; ok {
			view.Title = q.Title
		}
		if a.SelectedOptionID != nil {
			if opt, ok := optionsByID[*a.SelectedOptionID]; ok {
				view.SelectedAnswer = &OptionDetailView{ID: opt.ID, Text: opt.Text, IsCorrect: opt.IsCorrect}
			}
		}
		testList = append(testList, view)
	}

	return &SessionView{
		ID:        session.ID,
		Quiz:      NewQuizView(quiz, s.orderSvc.HasBought(ctx, userID, quiz.ID)),
		CreatedAt: session.CreatedAt,
		TestList:  testList,
	}, nil
}
