package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/repos/testutil"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

func TestPercentage_UsesFixedSessionLength(t *testing.T) {
	cases := []struct {
		correct int64
		want    float64
	}{
		{0, 0},
		{2, 8.0},
		{3, 12.0},
		{25, 100.0},
	}
	for _, tc := range cases {
		if got := Percentage(tc.correct); got != tc.want {
			t.Fatalf("Percentage(%d) = %v, want %v", tc.correct, got, tc.want)
		}
	}
}

func newTestServiceForTest(t *testing.T, tx *gorm.DB) TestService {
	t.Helper()
	log := testutil.Logger(t)
	quizRepo := repos.NewQuizRepo(tx, log)
	orderSvc := NewOrderService(tx, log, quizRepo, repos.NewQuizOrderRepo(tx, log))
	return NewTestService(
		tx,
		log,
		quizRepo,
		repos.NewQuizQuestionRepo(tx, log),
		repos.NewQuestionOptionRepo(tx, log),
		repos.NewTestSessionRepo(tx, log),
		repos.NewTestAnswerRepo(tx, log),
		orderSvc,
	)
}

func sessionCount(t *testing.T, tx *gorm.DB, quizID uint) int64 {
	t.Helper()
	var count int64
	if err := tx.Model(&types.TestSession{}).Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
		t.Fatalf("failed counting sessions: %v", err)
	}
	return count
}

func TestTestService_StartCreatesOneSessionAndOneLedgerRow(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	testutil.SeedQuestion(t, tx, quiz.ID, 3)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)

	step, err := svc.Start(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if step.Quizz != quiz.Title {
		t.Fatalf("expected quiz title %q, got %q", quiz.Title, step.Quizz)
	}
	if len(step.TestList) != 1 {
		t.Fatalf("expected one presented question, got %d", len(step.TestList))
	}
	if len(step.TestList[0].OptionList) != 4 {
		t.Fatalf("expected 4 options, got %d", len(step.TestList[0].OptionList))
	}

	if got := sessionCount(t, tx, quiz.ID); got != 1 {
		t.Fatalf("expected 1 session row, got %d", got)
	}
	var answers []types.TestAnswer
	if err := tx.Find(&answers).Error; err != nil {
		t.Fatalf("failed loading answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(answers))
	}
	if answers[0].SelectedOptionID != nil {
		t.Fatalf("expected no selection until checked, got %v", *answers[0].SelectedOptionID)
	}
}

func TestTestService_StartWithoutOrderFailsAndCreatesNothing(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	testutil.SeedQuestion(t, tx, quiz.ID, 3)

	_, err := svc.Start(ctx, user.ID, quiz.ID)
	if err == nil {
		t.Fatalf("expected entitlement error")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apierr, got %v", err)
	}
	if ae.Code != apierr.CodeNotEntitled || ae.Status != 400 {
		t.Fatalf("expected not_entitled 400, got %+v", ae)
	}
	if ae.Error() != apierr.MsgPurchaseRequired {
		t.Fatalf("unexpected message: %q", ae.Error())
	}
	if got := sessionCount(t, tx, quiz.ID); got != 0 {
		t.Fatalf("expected no session rows, got %d", got)
	}
}

func TestTestService_StartEachCallOpensFreshSession(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	testutil.SeedQuestion(t, tx, quiz.ID, 3)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)

	if _, err := svc.Start(ctx, user.ID, quiz.ID); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if _, err := svc.Start(ctx, user.ID, quiz.ID); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if got := sessionCount(t, tx, quiz.ID); got != 2 {
		t.Fatalf("expected 2 session rows, got %d", got)
	}
}

func TestTestService_ForwardWithoutSessionFails(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	testutil.SeedQuestion(t, tx, quiz.ID, 3)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)

	_, err := svc.Forward(ctx, user.ID, quiz.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNoSession {
		t.Fatalf("expected no_session error, got %v", err)
	}
}

func TestTestService_ForwardStopsAtSessionCap(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	question, _ := testutil.SeedQuestion(t, tx, quiz.ID, 3)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)

	session := testutil.SeedSession(t, tx, user.ID, quiz.ID)
	for i := 0; i < TestSessionLength; i++ {
		testutil.SeedAnswer(t, tx, session.ID, question.ID, nil)
	}

	_, err := svc.Forward(ctx, user.ID, quiz.ID)
	if err == nil {
		t.Fatalf("expected cap error on answer %d", TestSessionLength+1)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeLimitReached || ae.Status != 400 {
		t.Fatalf("expected limit_reached 400, got %v", err)
	}

	var answerCount int64
	if err := tx.Model(&types.TestAnswer{}).Where("session_id = ?", session.ID).Count(&answerCount).Error; err != nil {
		t.Fatalf("failed counting answers: %v", err)
	}
	if answerCount != TestSessionLength {
		t.Fatalf("expected ledger to stay at %d rows, got %d", TestSessionLength, answerCount)
	}
}

func TestTestService_ForwardAppendsToCurrentSession(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	testutil.SeedQuestion(t, tx, quiz.ID, 3)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)

	if _, err := svc.Start(ctx, user.ID, quiz.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	step, err := svc.Forward(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if len(step.TestList) != 1 {
		t.Fatalf("expected one presented question, got %d", len(step.TestList))
	}

	var answerCount int64
	if err := tx.Model(&types.TestAnswer{}).Count(&answerCount).Error; err != nil {
		t.Fatalf("failed counting answers: %v", err)
	}
	if answerCount != 2 {
		t.Fatalf("expected 2 ledger rows after Start+Forward, got %d", answerCount)
	}
}

func TestTestService_CheckRecordsSelectionAndReportsVerdict(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	question, options := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)
	session := testutil.SeedSession(t, tx, user.ID, quiz.ID)
	testutil.SeedAnswer(t, tx, session.ID, question.ID, nil)

	wrong, err := svc.Check(ctx, user.ID, options[1].ID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if wrong.Msg {
		t.Fatalf("expected msg=false for wrong option")
	}
	if len(wrong.TrueAnswer) != 1 || wrong.TrueAnswer[0].ID != options[0].ID {
		t.Fatalf("expected true answer %d, got %+v", options[0].ID, wrong.TrueAnswer)
	}

	right, err := svc.Check(ctx, user.ID, options[0].ID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !right.Msg {
		t.Fatalf("expected msg=true for correct option")
	}
	if len(right.TrueAnswer) != 0 {
		t.Fatalf("expected no true answer on correct check, got %+v", right.TrueAnswer)
	}

	// Re-checking rewrote the same ledger row rather than adding one.
	var answerCount int64
	if err := tx.Model(&types.TestAnswer{}).Where("session_id = ?", session.ID).Count(&answerCount).Error; err != nil {
		t.Fatalf("failed counting answers: %v", err)
	}
	if answerCount != 1 {
		t.Fatalf("expected a single ledger row, got %d", answerCount)
	}
	var answer types.TestAnswer
	if err := tx.Where("session_id = ?", session.ID).First(&answer).Error; err != nil {
		t.Fatalf("failed loading answer: %v", err)
	}
	if answer.SelectedOptionID == nil || *answer.SelectedOptionID != options[0].ID {
		t.Fatalf("expected last selection %d to win, got %+v", options[0].ID, answer.SelectedOptionID)
	}
}

func TestTestService_CheckOnUnpresentedQuestionFails(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	_, options := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)
	testutil.SeedSession(t, tx, user.ID, quiz.ID)

	_, err := svc.Check(ctx, user.ID, options[0].ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found for unpresented question, got %v", err)
	}
}

func TestTestService_BackwardFromFirstQuestionReturnsEmptyList(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	question, _ := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)
	session := testutil.SeedSession(t, tx, user.ID, quiz.ID)
	testutil.SeedAnswer(t, tx, session.ID, question.ID, nil)

	back, err := svc.Backward(ctx, user.ID, quiz.ID, question.ID)
	if err != nil {
		t.Fatalf("Backward failed: %v", err)
	}
	if len(back.TestList) != 0 {
		t.Fatalf("expected empty test list for first question, got %d entries", len(back.TestList))
	}
	if back.SelectAnswer != nil || back.TrueAnswer != nil {
		t.Fatalf("expected no answer payload for first question")
	}
}

func TestTestService_BackwardRedisplaysPreviousQuestionWithAnswers(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	q1, o1 := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	q2, _ := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)
	session := testutil.SeedSession(t, tx, user.ID, quiz.ID)
	testutil.SeedAnswer(t, tx, session.ID, q1.ID, &o1[1].ID)
	testutil.SeedAnswer(t, tx, session.ID, q2.ID, nil)

	back, err := svc.Backward(ctx, user.ID, quiz.ID, q2.ID)
	if err != nil {
		t.Fatalf("Backward failed: %v", err)
	}
	if len(back.TestList) != 1 || back.TestList[0].ID != q1.ID {
		t.Fatalf("expected previous question %d, got %+v", q1.ID, back.TestList)
	}
	if len(back.SelectAnswer) != 1 || back.SelectAnswer[0].ID != o1[1].ID {
		t.Fatalf("expected selected option %d, got %+v", o1[1].ID, back.SelectAnswer)
	}
	if len(back.TrueAnswer) != 1 || back.TrueAnswer[0].ID != o1[0].ID {
		t.Fatalf("expected correct option %d, got %+v", o1[0].ID, back.TrueAnswer)
	}
}

func TestTestService_BackwardUnknownQuestionFails(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	question, _ := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)
	session := testutil.SeedSession(t, tx, user.ID, quiz.ID)
	testutil.SeedAnswer(t, tx, session.ID, question.ID, nil)

	_, err := svc.Backward(ctx, user.ID, quiz.ID, question.ID+999)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found for unpresented question, got %v", err)
	}
}

func TestTestService_FinishScoresLatestSessionAgainstFixedLength(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	_, field := testutil.SeedCategoryPair(t, tx)
	quiz := testutil.SeedQuiz(t, tx, &field.ID)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)

	q1, o1 := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	q2, o2 := testutil.SeedQuestion(t, tx, quiz.ID, 2)
	q3, o3 := testutil.SeedQuestion(t, tx, quiz.ID, 2)

	session := testutil.SeedSession(t, tx, user.ID, quiz.ID)
	testutil.SeedAnswer(t, tx, session.ID, q1.ID, &o1[0].ID) // correct
	testutil.SeedAnswer(t, tx, session.ID, q2.ID, &o2[0].ID) // correct
	testutil.SeedAnswer(t, tx, session.ID, q3.ID, &o3[1].ID) // wrong

	result, err := svc.Finish(ctx, user.ID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if result.CountCorrectAnswers != 2 {
		t.Fatalf("expected 2 correct answers, got %d", result.CountCorrectAnswers)
	}
	if result.PersentageCorrectAnswers != 8.0 {
		t.Fatalf("expected percentage 8.0, got %v", result.PersentageCorrectAnswers)
	}
	if result.Results == nil || result.Results.ID != session.ID {
		t.Fatalf("expected session %d in results", session.ID)
	}
	if len(result.Results.TestList) != 3 {
		t.Fatalf("expected 3 answers in results, got %d", len(result.Results.TestList))
	}
	first := result.Results.TestList[0]
	if first.Title != q1.Title {
		t.Fatalf("expected presentation order preserved, got first title %q", first.Title)
	}
	if first.SelectedAnswer == nil || first.SelectedAnswer.ID != o1[0].ID || !first.SelectedAnswer.IsCorrect {
		t.Fatalf("expected selected answer detail for first question, got %+v", first.SelectedAnswer)
	}
}

// lastPresented returns the question of the newest ledger row, so the test
// can follow whichever question the random draw produced.
func lastPresented(t *testing.T, tx *gorm.DB) *types.TestAnswer {
	t.Helper()
	var answer types.TestAnswer
	if err := tx.Order("id DESC").First(&answer).Error; err != nil {
		t.Fatalf("failed loading last ledger row: %v", err)
	}
	return &answer
}

func correctOptionID(t *testing.T, tx *gorm.DB, questionID uint) uint {
	t.Helper()
	var option types.QuestionOption
	if err := tx.Where("question_id = ? AND is_correct = ?", questionID, true).First(&option).Error; err != nil {
		t.Fatalf("failed loading correct option: %v", err)
	}
	return option.ID
}

func wrongOptionID(t *testing.T, tx *gorm.DB, questionID uint) uint {
	t.Helper()
	var option types.QuestionOption
	if err := tx.Where("question_id = ? AND is_correct = ?", questionID, false).First(&option).Error; err != nil {
		t.Fatalf("failed loading wrong option: %v", err)
	}
	return option.ID
}

func TestTestService_FullWalkThroughScoresTwoOfThree(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)
	quiz := testutil.SeedQuiz(t, tx, nil)
	testutil.SeedOrder(t, tx, user.ID, quiz.ID)
	for i := 0; i < 3; i++ {
		testutil.SeedQuestion(t, tx, quiz.ID, 2)
	}

	if _, err := svc.Start(ctx, user.ID, quiz.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	first := lastPresented(t, tx)
	verdict, err := svc.Check(ctx, user.ID, correctOptionID(t, tx, first.QuestionID))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !verdict.Msg {
		t.Fatalf("expected correct verdict")
	}

	if _, err := svc.Forward(ctx, user.ID, quiz.ID); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	second := lastPresented(t, tx)
	if _, err := svc.Check(ctx, user.ID, correctOptionID(t, tx, second.QuestionID)); err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if _, err := svc.Forward(ctx, user.ID, quiz.ID); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	third := lastPresented(t, tx)
	if _, err := svc.Check(ctx, user.ID, wrongOptionID(t, tx, third.QuestionID)); err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	result, err := svc.Finish(ctx, user.ID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if result.CountCorrectAnswers != 2 {
		t.Fatalf("expected 2 correct, got %d", result.CountCorrectAnswers)
	}
	if result.PersentageCorrectAnswers != 8.0 {
		t.Fatalf("expected 8.0 percent, got %v", result.PersentageCorrectAnswers)
	}
}

func TestTestService_FinishWithoutAnySessionFails(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newTestServiceForTest(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx)

	_, err := svc.Finish(ctx, user.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNoSession || ae.Status != 404 {
		t.Fatalf("expected no_session 404, got %v", err)
	}
}
