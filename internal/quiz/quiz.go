// Package quiz implements attempt scoring and deadline math for quiz
// modules. Everything here is pure; the attempt service owns persistence.
package quiz

import (
	"strconv"
	"time"

	"github.com/openlms/backend/internal/types"
)

// SubmitGrace absorbs client clock skew and request latency on timed
// submissions.
const SubmitGrace = 5 * time.Second

// Normalize returns a cleaned copy of stored quiz questions: options are
// never nil and out-of-range answer keys are dropped rather than trusted.
func Normalize(questions []types.QuizQuestion) []types.QuizQuestion {
	out := make([]types.QuizQuestion, len(questions))
	for i, q := range questions {
		if q.Options == nil {
			q.Options = []string{}
		}
		if q.CorrectOption != nil && (*q.CorrectOption < 0 || *q.CorrectOption >= len(q.Options)) {
			q.CorrectOption = nil
		}
		out[i] = q
	}
	return out
}

// StripAnswers returns a copy of the questions with the answer keys removed.
// Learner-facing payloads must always go through this.
func StripAnswers(questions []types.QuizQuestion) []types.QuizQuestion {
	out := make([]types.QuizQuestion, len(questions))
	for i, q := range questions {
		q.CorrectOption = nil
		out[i] = q
	}
	return out
}

// Points returns the weight of a question. Unweighted questions count as one
// point.
func Points(q types.QuizQuestion) int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// Score grades a submitted answer map against the question list. Answers are
// keyed by the question's zero-based index rendered as a string. Questions
// without an answer key still contribute to maxScore but can never be earned.
func Score(questions []types.QuizQuestion, answers map[string]int) (score, maxScore int) {
	for i, q := range Normalize(questions) {
		pts := Points(q)
		maxScore += pts
		if q.CorrectOption == nil {
			continue
		}
		if picked, ok := answers[strconv.Itoa(i)]; ok && picked == *q.CorrectOption {
			score += pts
		}
	}
	return score, maxScore
}

// Deadline returns the last instant a submission is accepted for an attempt.
// The second result is false when the module has no time limit.
func Deadline(startedAt time.Time, timeLimitSeconds *int) (time.Time, bool) {
	if timeLimitSeconds == nil || *timeLimitSeconds <= 0 {
		return time.Time{}, false
	}
	return startedAt.Add(time.Duration(*timeLimitSeconds)*time.Second + SubmitGrace), true
}
