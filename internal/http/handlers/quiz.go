package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/http/response"
	"github.com/yungbote/coursework-backend/internal/modules/learning/grading"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
	"github.com/yungbote/coursework-backend/internal/services"
)

type QuizHandler struct {
	log      *logger.Logger
	attempts services.AttemptService
	notifier invalidation.Notifier
}

func NewQuizHandler(log *logger.Logger, attempts services.AttemptService, notifier invalidation.Notifier) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), attempts: attempts, notifier: notifier}
}

type submitAttemptRequest struct {
	Answers          map[string]grading.AnswerValue `json:"answers"`
	StartedAt        *time.Time                     `json:"started_at,omitempty"`
	TimeSpentSeconds int                            `json:"time_spent_seconds" validate:"gte=0,lte=86400"`
}

type answerView struct {
	QuestionID      uuid.UUID       `json:"question_id"`
	SubmittedAnswer json.RawMessage `json:"submitted_answer"`
	IsCorrect       *bool           `json:"is_correct,omitempty"`
	PointsEarned    *int            `json:"points_earned,omitempty"`
}

type attemptView struct {
	ID               uuid.UUID    `json:"id"`
	QuizID           uuid.UUID    `json:"quiz_id"`
	StartedAt        time.Time    `json:"started_at"`
	CompletedAt      time.Time    `json:"completed_at"`
	Score            float64      `json:"score"`
	TotalPoints      int          `json:"total_points"`
	EarnedPoints     int          `json:"earned_points"`
	Passed           bool         `json:"passed"`
	TimeSpentSeconds int          `json:"time_spent_seconds"`
	Answers          []answerView `json:"answers,omitempty"`
}

// newAttemptView hides per-question correctness when the quiz does not show
// results.
func newAttemptView(a *types.QuizAttempt, showResults bool) attemptView {
	v := attemptView{
		ID:               a.ID,
		QuizID:           a.QuizID,
		StartedAt:        a.StartedAt,
		CompletedAt:      a.CompletedAt,
		Score:            a.Score,
		TotalPoints:      a.TotalPoints,
		EarnedPoints:     a.EarnedPoints,
		Passed:           a.Passed,
		TimeSpentSeconds: a.TimeSpentSeconds,
	}
	for _, ans := range a.Answers {
		if ans == nil {
			continue
		}
		av := answerView{QuestionID: ans.QuestionID, SubmittedAnswer: json.RawMessage(ans.SubmittedAnswer)}
		if len(av.SubmittedAnswer) == 0 {
			av.SubmittedAnswer = json.RawMessage("null")
		}
		if showResults {
			correct, points := ans.IsCorrect, ans.PointsEarned
			av.IsCorrect, av.PointsEarned = &correct, &points
		}
		v.Answers = append(v.Answers, av)
	}
	return v
}

// POST /api/quizzes/:id/start
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	quizID, ok := paramUUID(c, "id", "invalid_quiz_id")
	if !ok {
		return
	}
	sess, err := h.attempts.StartAttempt(c.Request.Context(), quizID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// POST /api/quizzes/:id/attempts
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	quizID, ok := paramUUID(c, "id", "invalid_quiz_id")
	if !ok {
		return
	}
	var req submitAttemptRequest
	if !bindJSON(c, &req) {
		return
	}
	answers := make(map[uuid.UUID]grading.AnswerValue, len(req.Answers))
	for k, v := range req.Answers {
		qid, err := uuid.Parse(k)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_question_id", err)
			return
		}
		answers[qid] = v
	}

	attempt, err := h.attempts.SubmitAttempt(c.Request.Context(), services.SubmitAttemptInput{
		QuizID:           quizID,
		Answers:          answers,
		StartedAt:        req.StartedAt,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	notify(c.Request.Context(), h.notifier, h.log, invalidation.QuizPaths(quizID)...)

	showResults := attempt.Quiz == nil || attempt.Quiz.ShowResults
	response.RespondCreated(c, gin.H{"attempt": newAttemptView(attempt, showResults)})
}

// GET /api/quizzes/:id/attempts
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	quizID, ok := paramUUID(c, "id", "invalid_quiz_id")
	if !ok {
		return
	}
	rows, err := h.attempts.ListAttempts(c.Request.Context(), quizID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]attemptView, 0, len(rows))
	for _, a := range rows {
		out = append(out, newAttemptView(a, false))
	}
	response.RespondOK(c, gin.H{"attempts": out})
}

// GET /api/attempts/:id
func (h *QuizHandler) GetAttempt(c *gin.Context) {
	attemptID, ok := paramUUID(c, "id", "invalid_attempt_id")
	if !ok {
		return
	}
	attempt, quiz, err := h.attempts.GetAttempt(c.Request.Context(), attemptID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": newAttemptView(attempt, quiz.ShowResults)})
}

// POST /api/quizzes/:id/publish
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	quizID, ok := paramUUID(c, "id", "invalid_quiz_id")
	if !ok {
		return
	}
	quiz, err := h.attempts.PublishQuiz(c.Request.Context(), quizID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	notify(c.Request.Context(), h.notifier, h.log, invalidation.QuizPaths(quizID)...)
	response.RespondOK(c, gin.H{"quiz": quiz})
}
