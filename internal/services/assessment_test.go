package services

import (
	"context"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestAssessmentAccessGates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	midterm := env.seedAssessment(t, course, instructor)

	// no active grant yet
	if _, err := env.assessments.Get(ctx, alice, midterm.ID); !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	if _, err := env.access.Grant(ctx, instructor, AccessGrant{
		StudentID:    alice.ID,
		AssessmentID: midterm.ID,
	}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := env.assessments.Get(ctx, alice, midterm.ID); err != nil {
		t.Fatalf("get with grant: %v", err)
	}

	// revoking closes the door again
	grant, err := env.accessRepo.GetByStudentAndAssessment(ctx, nil, alice.ID, midterm.ID)
	if err != nil {
		t.Fatalf("load grant: %v", err)
	}
	inactive := types.EdgeInactive
	if _, err := env.access.Update(ctx, instructor, grant.ID, AccessUpdate{Status: &inactive}); err != nil {
		t.Fatalf("deactivate grant: %v", err)
	}
	if _, err := env.assessments.Get(ctx, alice, midterm.ID); !apierr.IsForbidden(err) {
		t.Fatalf("err after revoke = %v, want forbidden", err)
	}
}

func TestAssessmentQuestionsHideAnswersFromLearners(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	midterm := env.seedAssessment(t, course, instructor)

	key := "B"
	if _, err := env.assessments.AddQuestion(ctx, instructor, midterm.ID, AssessmentQuestionCreate{
		Prompt: "Pick one",
		Answer: &key,
	}); err != nil {
		t.Fatalf("add question: %v", err)
	}
	if _, err := env.access.Grant(ctx, instructor, AccessGrant{
		StudentID:    alice.ID,
		AssessmentID: midterm.ID,
	}); err != nil {
		t.Fatalf("grant: %v", err)
	}

	questions, err := env.assessments.ListQuestions(ctx, alice, midterm.ID)
	if err != nil {
		t.Fatalf("learner list: %v", err)
	}
	for i, q := range questions {
		if q.Answer != nil {
			t.Fatalf("question %d leaked answer key to learner", i)
		}
	}

	full, err := env.assessments.ListQuestions(ctx, instructor, midterm.ID)
	if err != nil {
		t.Fatalf("instructor list: %v", err)
	}
	if len(full) != 1 || full[0].Answer == nil {
		t.Fatalf("instructor view missing answer key")
	}
}

func TestAssessmentSubmitAndReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	midterm := env.seedAssessment(t, course, instructor)

	// no grant means no submission
	if _, err := env.assessments.Submit(ctx, alice, midterm.ID, AssessmentSubmit{}); !apierr.IsForbidden(err) {
		t.Fatalf("ungranted submit err = %v, want forbidden", err)
	}

	if _, err := env.access.Grant(ctx, instructor, AccessGrant{
		StudentID:    alice.ID,
		AssessmentID: midterm.ID,
	}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	submission, err := env.assessments.Submit(ctx, alice, midterm.ID, AssessmentSubmit{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.SubmittedAt == nil {
		t.Fatal("submitted_at not stamped")
	}
	if submission.StudentEmail == nil || *submission.StudentEmail != alice.Email {
		t.Fatalf("student_email = %v, want denormalized copy", submission.StudentEmail)
	}

	if _, err := env.assessments.ListSubmissions(ctx, alice, midterm.ID); !apierr.IsForbidden(err) {
		t.Fatalf("learner review err = %v, want forbidden", err)
	}
	rows, err := env.assessments.ListSubmissions(ctx, instructor, midterm.ID)
	if err != nil {
		t.Fatalf("instructor review: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("%d submissions, want 1", len(rows))
	}
}

func TestAssessmentDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	midterm := env.seedAssessment(t, course, instructor)

	if _, err := env.access.Grant(ctx, instructor, AccessGrant{
		StudentID:    alice.ID,
		AssessmentID: midterm.ID,
	}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := env.assessments.Submit(ctx, alice, midterm.ID, AssessmentSubmit{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := env.assessments.Delete(ctx, instructor, midterm.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.assessmentRepo.GetByID(ctx, nil, midterm.ID); err == nil {
		t.Fatal("assessment row still present")
	}
	if _, err := env.accessRepo.GetByStudentAndAssessment(ctx, nil, alice.ID, midterm.ID); err == nil {
		t.Fatal("access grant survived the delete")
	}
}
