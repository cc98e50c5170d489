package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

// ParsedOption is one answer line from an import file. A '+' prefix marks
// the correct option, '-' an incorrect one.
type ParsedOption struct {
	Text      string
	IsCorrect bool
}

// ParsedQuestion is one '#'-delimited block: title line plus option lines.
type ParsedQuestion struct {
	Title   string
	Options []ParsedOption
}

type ImportResult struct {
	QuizID        uint `json:"quiz_id"`
	QuestionCount int  `json:"question_count"`
}

type ImporterService interface {
	ImportText(ctx context.Context, authorID uuid.UUID, categoryID uint, fileName string, content string) (*ImportResult, error)
}

type importerService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	quizRepo     repos.QuizRepo
	questionRepo repos.QuizQuestionRepo
	optionRepo   repos.QuestionOptionRepo
	uploadRepo   repos.TestUploadRepo
}

func NewImporterService(
	db *gorm.DB,
	log *logger.Logger,
	categoryRepo repos.CategoryRepo,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	optionRepo repos.QuestionOptionRepo,
	uploadRepo repos.TestUploadRepo,
) ImporterService {
	return &importerService{
		db:           db,
		log:          log.With("service", "ImporterService"),
		categoryRepo: categoryRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		uploadRepo:   uploadRepo,
	}
}

// ParseTestFile parses the bulk-import format: blocks separated by '#',
// first line of a block is the question title, remaining lines are
// options prefixed with '+' (correct) or '-' (incorrect).
func ParseTestFile(content string) ([]ParsedQuestion, error) {
	blocks := strings.Split(strings.TrimSpace(content), "#")
	var questions []ParsedQuestion
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		title := strings.TrimSpace(lines[0])
		if title == "" {
			return nil, fmt.Errorf("question block without a title")
		}

		var options []ParsedOption
		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "-") {
				return nil, fmt.Errorf("option line %q must start with '+' or '-'", line)
			}
			text := strings.TrimSpace(line[1:])
			if text == "" {
				return nil, fmt.Errorf("empty option text in question %q", title)
			}
			options = append(options, ParsedOption{
				Text:      text,
				IsCorrect: strings.HasPrefix(line, "+"),
			})
		}
		if len(options) == 0 {
			return nil, fmt.Errorf("question %q has no options", title)
		}
		questions = append(questions, ParsedQuestion{Title: title, Options: options})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions found in file")
	}
	return questions, nil
}

func (s *importerService) ImportText(ctx context.Context, authorID uuid.UUID, categoryID uint, fileName string, content string) (*ImportResult, error) {
	categories, err := s.categoryRepo.GetByIDs(ctx, nil, []uint{categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if len(categories) == 0 {
		return nil, apierr.Validation(fmt.Errorf("invalid or non-existent category id"))
	}
	if categories[0].IsRoot() {
		return nil, apierr.Validation(fmt.Errorf("quizzes can only be attached to a field category"))
	}

	parsed, err := ParseTestFile(content)
	if err != nil {
		return nil, apierr.Validation(err)
	}

	quizTitle := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if quizTitle == "" {
		quizTitle = fileName
	}

	var result ImportResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quizzes, err := s.quizRepo.Create(ctx, tx, []*types.Quiz{
			{Title: quizTitle, CategoryID: &categoryID},
		})
		if err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		quiz := quizzes[0]

		questions := make([]*types.QuizQuestion, 0, len(parsed))
		for _, p := range parsed {
			questions = append(questions, &types.QuizQuestion{Title: p.Title, QuizID: quiz.ID})
		}
		created, err := s.questionRepo.Create(ctx, tx, questions)
		if err != nil {
			return fmt.Errorf("failed to create questions: %w", err)
		}

		var options []*types.QuestionOption
		for i, p := range parsed {
			for _, opt := range p.Options {
				options = append(options, &types.QuestionOption{
					QuestionID: created[i].ID,
					Text:       opt.Text,
					IsCorrect:  opt.IsCorrect,
				})
			}
		}
		if _, err := s.optionRepo.Create(ctx, tx, options); err != nil {
			return fmt.Errorf("failed to create options: %w", err)
		}

		if _, err := s.uploadRepo.Create(ctx, tx, []*types.TestUpload{{
			FileName:      fileName,
			CategoryID:    categoryID,
			QuizID:        quiz.ID,
			AuthorID:      authorID,
			QuestionCount: len(parsed),
		}}); err != nil {
			return fmt.Errorf("failed to record upload: %w", err)
		}

		result = ImportResult{QuizID: quiz.ID, QuestionCount: len(parsed)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Imported test file", "file", fileName, "questions", result.QuestionCount, "quiz_id", result.QuizID)
	return &result, nil
}
