package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

// Wire views. Field names and JSON keys follow the established client
// contract, including the "quizz" and "persentage" spellings.

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type OptionDetailView struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionView struct {
	ID         uint         `json:"id"`
	Title      string       `json:"title"`
	OptionList []OptionView `json:"option_list"`
}

type QuizView struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Semester    string        `json:"semester"`
	ModeOfStudy string        `json:"mode_of_study"`
	Year        string        `json:"year"`
	Degree      *CategoryView `json:"degree"`
	CreatedAt   time.Time     `json:"created_at"`
	HasBought   bool          `json:"has_bought"`
}

type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var semesterLabels = map[string]string{
	"1": "I",
	"2": "II",
}

var yearLabels = map[string]string{
	"1": "I",
	"2": "II",
	"3": "III",
	"4": "IV",
	"5": "V",
	"6": "VI",
}

var modeOfStudyLabels = map[string]string{
	types.ModeOfStudyDaytime:  "Kunduzki",
	types.ModeOfStudyEvening:  "Sirtqi",
	types.ModeOfStudyRemote:   "Masofaviy",
	types.ModeOfStudyExternal: "Tashqi",
}

var yearChoiceOrder = []string{"1", "2", "3", "4", "5", "6"}

var modeOfStudyChoiceOrder = []string{
	types.ModeOfStudyDaytime,
	types.ModeOfStudyEvening,
	types.ModeOfStudyRemote,
	types.ModeOfStudyExternal,
}

func YearChoices() []Choice {
	choices := make([]Choice, 0, len(yearChoiceOrder))
	for _, id := range yearChoiceOrder {
		choices = append(choices, Choice{ID: id, Label: yearLabels[id]})
	}
	return choices
}

func ModeOfStudyChoices() []Choice {
	choices := make([]Choice, 0, len(modeOfStudyChoiceOrder))
	for _, id := range modeOfStudyChoiceOrder {
		choices = append(choices, Choice{ID: id, Label: modeOfStudyLabels[id]})
	}
	return choices
}

func semesterLabel(code string) string {
	return semesterLabels[code]
}

func yearLabel(code string) string {
	return yearLabels[code]
}

func modeOfStudyLabel(code string) string {
	return modeOfStudyLabels[code]
}

func NewQuizView(quiz *types.Quiz, hasBought bool) QuizView {
	view := QuizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Price:       quiz.Price,
		Semester:    semesterLabel(quiz.Semester),
		ModeOfStudy: modeOfStudyLabel(quiz.ModeOfStudy),
		Year:        yearLabel(quiz.Year),
		CreatedAt:   quiz.CreatedAt,
		HasBought:   hasBought,
	}
	if quiz.Category != nil && quiz.Category.Parent != nil {
		view.Degree = &CategoryView{
			ID:   quiz.Category.Parent.ID,
			Name: quiz.Category.Parent.Name,
			Slug: quiz.Category.Parent.Slug,
		}
	}
	return view
}

func NewCategoryView(category *types.Category) CategoryView {
	return CategoryView{ID: category.ID, Name: category.Name, Slug: category.Slug}
}

// shuffledOptionViews randomizes option order for display so answer
// position carries no signal.
func shuffledOptionViews(options []*types.QuestionOption) []OptionView {
	views := make([]OptionView, 0, len(options))
	for _, opt := range options {
		views = append(views, OptionView{ID: opt.ID, Text: opt.Text})
	}
	rand.Shuffle(len(views), func(i, j int) {
		views[i], views[j] = views[j], views[i]
	})
	return views
}

func shuffledOptionDetailViews(options []*types.QuestionOption) []OptionDetailView {
	views := make([]OptionDetailView, 0, len(options))
	for _, opt := range options {
		views = append(views, OptionDetailView{ID: opt.ID, Text: opt.Text, IsCorrect: opt.IsCorrect})
	}
	rand.Shuffle(len(views), func(i, j int) {
		views[i], views[j] = views[j], views[i]
	})
	return views
}

// buildQuestionViews renders questions with their (shuffled) options,
// batching the option lookups.
func buildQuestionViews(ctx context.Context, optionRepo repos.QuestionOptionRepo, questions []*types.QuizQuestion) ([]QuestionView, error) {
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	options, err := optionRepo.GetByQuestionIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load question options: %w", err)
	}
	byQuestion := make(map[uint][]*types.QuestionOption, len(questions))
	for _, opt := range options {
		byQuestion[opt.QuestionID] = append(byQuestion[opt.QuestionID], opt)
	}

	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:         q.ID,
			Title:      q.Title,
			OptionList: shuffledOptionViews(byQuestion[q.ID]),
		})
	}
	return views, nil
}

func optionViews(options []*types.QuestionOption) []OptionView {
	views := make([]OptionView, 0, len(options))
	for _, opt := range options {
		views = append(views, OptionView{ID: opt.ID, Text: opt.Text})
	}
	return views
}
