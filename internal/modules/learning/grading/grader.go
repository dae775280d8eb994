package grading

import (
	types "github.com/yungbote/coursework-backend/internal/domain"
)

// Question is the grading view of a quiz question.
type Question struct {
	Type    types.QuestionType
	Points  int
	Correct CorrectAnswer
}

// FromModel builds the grading view of a stored question. A correct answer
// that fails to decode leaves the question ungradable, so every submission
// scores zero rather than failing the attempt.
func FromModel(q *types.QuizQuestion) Question {
	if q == nil {
		return Question{}
	}
	correct, err := ParseCorrectAnswer(q.CorrectAnswer)
	if err != nil {
		correct = CorrectAnswer{}
	}
	return Question{Type: q.Type, Points: q.Points, Correct: correct}
}

type Result struct {
	IsCorrect    bool
	PointsEarned int
}

// Grade scores one answer. It is pure and deterministic.
func Grade(q Question, answer AnswerValue) Result {
	if answer.IsMissing() {
		return Result{}
	}
	var ok bool
	switch q.Type {
	case types.QuestionTypeMultipleChoice, types.QuestionTypeTrueFalse:
		ok = matchExact(q.Correct, answer)
	case types.QuestionTypeFillInBlank, types.QuestionTypeShortAnswer:
		ok = matchNormalized(q.Correct, answer)
	default:
		// ESSAY is left for manual review; unknown types never score.
		ok = false
	}
	if !ok {
		return Result{}
	}
	points := q.Points
	if points < 0 {
		points = 0
	}
	return Result{IsCorrect: true, PointsEarned: points}
}

func matchExact(correct CorrectAnswer, answer AnswerValue) bool {
	for _, alt := range correct.Alternatives {
		if alt.Equal(answer) {
			return true
		}
	}
	return false
}

func matchNormalized(correct CorrectAnswer, answer AnswerValue) bool {
	got := answer.Normalized()
	for _, alt := range correct.Alternatives {
		if alt.Normalized() == got {
			return true
		}
	}
	return false
}
