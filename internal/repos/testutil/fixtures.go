package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/types"
)

func SeedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// SeedCategoryPair creates a degree with one field under it and returns both.
func SeedCategoryPair(t *testing.T, tx *gorm.DB) (*types.Category, *types.Category) {
	t.Helper()
	suffix := uuid.NewString()[:8]
	degree := &types.Category{
		Name: "Bachelor " + suffix,
		Slug: "bachelor-" + suffix,
	}
	if err := tx.Create(degree).Error; err != nil {
		t.Fatalf("failed to seed degree: %v", err)
	}
	field := &types.Category{
		Name:     "Economics " + suffix,
		Slug:     "economics-" + suffix,
		ParentID: &degree.ID,
	}
	if err := tx.Create(field).Error; err != nil {
		t.Fatalf("failed to seed field: %v", err)
	}
	return degree, field
}

func SeedQuiz(t *testing.T, tx *gorm.DB, categoryID *uint) *types.Quiz {
	t.Helper()
	quiz := &types.Quiz{
		Title:       "Quiz " + uuid.NewString()[:8],
		Price:       50000,
		Semester:    "1",
		ModeOfStudy: types.ModeOfStudyDaytime,
		Year:        "1",
		CategoryID:  categoryID,
	}
	if err := tx.Create(quiz).Error; err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	return quiz
}

// SeedQuestion creates a question with one correct option followed by
// wrongCount incorrect ones. The correct option is always returned first.
func SeedQuestion(t *testing.T, tx *gorm.DB, quizID uint, wrongCount int) (*types.QuizQuestion, []*types.QuestionOption) {
	t.Helper()
	question := &types.QuizQuestion{
		Title:  "Question " + uuid.NewString()[:8],
		QuizID: quizID,
	}
	if err := tx.Create(question).Error; err != nil {
		t.Fatalf("failed to seed question: %v", err)
	}
	options := []*types.QuestionOption{{
		QuestionID: question.ID,
		Text:       "right answer",
		IsCorrect:  true,
	}}
	for i := 0; i < wrongCount; i++ {
		options = append(options, &types.QuestionOption{
			QuestionID: question.ID,
			Text:       fmt.Sprintf("wrong answer %d", i+1),
		})
	}
	if err := tx.Create(options).Error; err != nil {
		t.Fatalf("failed to seed options: %v", err)
	}
	return question, options
}

func SeedOrder(t *testing.T, tx *gorm.DB, userID uuid.UUID, quizID uint) *types.QuizOrder {
	t.Helper()
	order := &types.QuizOrder{QuizID: quizID, UserID: userID}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func SeedSession(t *testing.T, tx *gorm.DB, userID uuid.UUID, quizID uint) *types.TestSession {
	t.Helper()
	session := &types.TestSession{UserID: userID, QuizID: quizID}
	if err := tx.Create(session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return session
}

func SeedAnswer(t *testing.T, tx *gorm.DB, sessionID, questionID uint, selectedOptionID *uint) *types.TestAnswer {
	t.Helper()
	answer := &types.TestAnswer{
		SessionID:        sessionID,
		QuestionID:       questionID,
		SelectedOptionID: selectedOptionID,
	}
	if err := tx.Create(answer).Error; err != nil {
		t.Fatalf("failed to seed answer: %v", err)
	}
	return answer
}
