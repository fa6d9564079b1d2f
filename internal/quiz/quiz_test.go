package quiz

import (
	"testing"
	"time"

	"github.com/openlms/backend/internal/types"
)

func intp(v int) *int { return &v }

func sampleQuestions() []types.QuizQuestion {
	return []types.QuizQuestion{
		{Prompt: "2+2?", Options: []string{"4", "5"}, CorrectOption: intp(0), Points: 2},
		{Prompt: "capital of France?", Options: []string{"Berlin", "Paris"}, CorrectOption: intp(1), Points: 1},
	}
}

func TestScoreAllCorrect(t *testing.T) {
	score, max := Score(sampleQuestions(), map[string]int{"0": 0, "1": 1})
	if score != 3 || max != 3 {
		t.Fatalf("Score() = %d/%d, want 3/3", score, max)
	}
}

func TestScorePartialAndWrong(t *testing.T) {
	score, max := Score(sampleQuestions(), map[string]int{"0": 1})
	if score != 0 || max != 3 {
		t.Fatalf("Score() = %d/%d, want 0/3", score, max)
	}
	score, max = Score(sampleQuestions(), map[string]int{"1": 1})
	if score != 1 || max != 3 {
		t.Fatalf("Score() = %d/%d, want 1/3", score, max)
	}
}

func TestScoreEmptyAnswers(t *testing.T) {
	score, max := Score(sampleQuestions(), map[string]int{})
	if score != 0 || max != 3 {
		t.Fatalf("Score() = %d/%d, want 0/3", score, max)
	}
}

func TestScoreUnkeyedQuestionCountsTowardMax(t *testing.T) {
	qs := []types.QuizQuestion{
		{Prompt: "survey question", Options: []string{"a", "b"}},
		{Prompt: "graded", Options: []string{"a", "b"}, CorrectOption: intp(0)},
	}
	score, max := Score(qs, map[string]int{"0": 0, "1": 0})
	if score != 1 || max != 2 {
		t.Fatalf("Score() = %d/%d, want 1/2", score, max)
	}
}

func TestScoreDefaultsPointsToOne(t *testing.T) {
	qs := []types.QuizQuestion{
		{Prompt: "q", Options: []string{"a", "b"}, CorrectOption: intp(1)},
	}
	score, max := Score(qs, map[string]int{"0": 1})
	if score != 1 || max != 1 {
		t.Fatalf("Score() = %d/%d, want 1/1", score, max)
	}
}

func TestNormalizeDropsOutOfRangeKeys(t *testing.T) {
	qs := Normalize([]types.QuizQuestion{
		{Prompt: "q", Options: []string{"a", "b"}, CorrectOption: intp(5)},
		{Prompt: "q2", CorrectOption: intp(0)},
	})
	if qs[0].CorrectOption != nil {
		t.Fatalf("out-of-range answer key should be dropped")
	}
	if qs[1].CorrectOption != nil || qs[1].Options == nil {
		t.Fatalf("question without options should have nil key and empty options")
	}
}

func TestStripAnswers(t *testing.T) {
	qs := sampleQuestions()
	stripped := StripAnswers(qs)
	for i, q := range stripped {
		if q.CorrectOption != nil {
			t.Fatalf("question %d still carries an answer key", i)
		}
	}
	if qs[0].CorrectOption == nil {
		t.Fatalf("StripAnswers must not mutate its input")
	}
}

func TestDeadline(t *testing.T) {
	start := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	if _, ok := Deadline(start, nil); ok {
		t.Fatalf("no time limit should yield no deadline")
	}
	if _, ok := Deadline(start, intp(0)); ok {
		t.Fatalf("zero time limit should yield no deadline")
	}
	d, ok := Deadline(start, intp(60))
	if !ok {
		t.Fatalf("expected a deadline")
	}
	want := start.Add(60*time.Second + SubmitGrace)
	if !d.Equal(want) {
		t.Fatalf("Deadline() = %v, want %v", d, want)
	}
}
