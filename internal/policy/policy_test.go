package policy

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/openlms/backend/internal/types"
)

func user(id, role string) *types.User {
	return &types.User{Base: types.Base{ID: id}, Role: role, Status: types.StatusActive}
}

func TestCanViewCourse(t *testing.T) {
	course := CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CourseDraft}

	tests := []struct {
		name  string
		actor *types.User
		c     CourseSnapshot
		want  bool
	}{
		{"admin sees draft", user("a1", types.RoleAdmin), course, true},
		{"owner sees own draft", user("owner", types.RoleInstructor), course, true},
		{"other instructor denied", user("i2", types.RoleInstructor), course, false},
		{"co-instructor allowed", user("i2", types.RoleInstructor), CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CourseDraft, ActiveCoInstructor: true}, true},
		{"student denied draft", user("s1", types.RoleStudent), course, false},
		{"enrolled student sees draft", user("s1", types.RoleStudent), CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CourseDraft, Enrolled: true}, true},
		{"student sees published", user("s1", types.RoleStudent), CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CoursePublished}, true},
		{"guest sees published", user("g1", types.RoleGuest), CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CoursePublished}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanViewCourse(tt.actor, tt.c)
			if got.Allowed != tt.want {
				t.Fatalf("CanViewCourse() = %v (%q), want allowed=%v", got.Allowed, got.Reason, tt.want)
			}
		})
	}
}

func TestCanViewCourseBanned(t *testing.T) {
	s := user("s1", types.RoleStudent)
	s.BannedFrom = datatypes.JSONSlice[string]{"c1"}

	d := CanViewCourse(s, CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CoursePublished, Enrolled: true})
	if d.Allowed {
		t.Fatalf("banned student should be denied even when enrolled in a published course")
	}
	d = CanViewCourse(s, CourseSnapshot{ID: "c2", OwnerID: "owner", Status: types.CoursePublished})
	if !d.Allowed {
		t.Fatalf("ban on c1 should not affect c2: %q", d.Reason)
	}
}

func TestCanUpdateCourse(t *testing.T) {
	c := CourseSnapshot{ID: "c1", OwnerID: "owner", Status: types.CoursePublished}

	if d := CanUpdateCourse(user("a1", types.RoleAdmin), c); !d.Allowed {
		t.Fatalf("admin update denied: %q", d.Reason)
	}
	if d := CanUpdateCourse(user("owner", types.RoleInstructor), c); !d.Allowed {
		t.Fatalf("owner update denied: %q", d.Reason)
	}
	co := c
	co.ActiveCoInstructor = true
	if d := CanUpdateCourse(user("i2", types.RoleInstructor), co); !d.Allowed {
		t.Fatalf("co-instructor update denied: %q", d.Reason)
	}
	if d := CanUpdateCourse(user("i2", types.RoleInstructor), c); d.Allowed {
		t.Fatalf("unrelated instructor should not update")
	}
	// partners never mutate courses, co-instructing or not
	if d := CanUpdateCourse(user("p1", types.RolePartnerInstructor), co); d.Allowed {
		t.Fatalf("partner instructor should not update courses")
	}
	if d := CanUpdateCourse(user("s1", types.RoleStudent), c); d.Allowed {
		t.Fatalf("student should not update courses")
	}
}

func TestCanDeleteCourse(t *testing.T) {
	c := CourseSnapshot{ID: "c1", OwnerID: "owner", ActiveCoInstructor: true}

	if d := CanDeleteCourse(user("owner", types.RoleInstructor), c); !d.Allowed {
		t.Fatalf("owner delete denied: %q", d.Reason)
	}
	// delete is owner-only: a co-instructor who can update still cannot delete
	if d := CanDeleteCourse(user("i2", types.RoleInstructor), c); d.Allowed {
		t.Fatalf("co-instructor should not delete")
	}
	if d := CanDeleteCourse(user("a1", types.RoleAdmin), c); !d.Allowed {
		t.Fatalf("admin delete denied: %q", d.Reason)
	}
}

func TestCanManageCourseContent(t *testing.T) {
	c := CourseSnapshot{ID: "c1", OwnerID: "owner"}

	if d := CanManageCourseContent(user("owner", types.RoleInstructor), c); !d.Allowed {
		t.Fatalf("owner content change denied: %q", d.Reason)
	}
	co := c
	co.ActiveCoInstructor = true
	if d := CanManageCourseContent(user("i2", types.RoleInstructor), co); d.Allowed {
		t.Fatalf("content mutation is owner-only for instructors")
	}
	if d := CanManageCourseContent(user("p1", types.RolePartnerInstructor), CourseSnapshot{ID: "c1", OwnerID: "p1"}); d.Allowed {
		t.Fatalf("partner instructor should not modify content even on own course")
	}
}

func TestCanUpdateSelf(t *testing.T) {
	if d := CanUpdateSelf(UserUpdateFields{Other: true}); !d.Allowed {
		t.Fatalf("profile update denied: %q", d.Reason)
	}
	if d := CanUpdateSelf(UserUpdateFields{Role: true}); d.Allowed {
		t.Fatalf("self role change should be denied")
	}
	if d := CanUpdateSelf(UserUpdateFields{Status: true}); d.Allowed {
		t.Fatalf("self status change should be denied")
	}
}

func TestCanUpdateUser(t *testing.T) {
	admin := user("a1", types.RoleAdmin)
	instr := user("i1", types.RoleInstructor)
	student := user("s1", types.RoleStudent)

	if d := CanUpdateUser(admin, student, UserUpdateFields{Role: true, Other: true}); !d.Allowed {
		t.Fatalf("admin update denied: %q", d.Reason)
	}
	if d := CanUpdateUser(instr, student, UserUpdateFields{BannedFrom: true}); !d.Allowed {
		t.Fatalf("instructor ban update denied: %q", d.Reason)
	}
	if d := CanUpdateUser(instr, student, UserUpdateFields{BannedFrom: true, Other: true}); d.Allowed {
		t.Fatalf("instructor should only touch banned_from")
	}
	if d := CanUpdateUser(instr, user("i2", types.RoleInstructor), UserUpdateFields{BannedFrom: true}); d.Allowed {
		t.Fatalf("instructors can only ban learners")
	}
	if d := CanUpdateUser(student, student, UserUpdateFields{Other: true}); d.Allowed {
		t.Fatalf("students cannot use the admin update path")
	}
}

func TestCanUpdateInvitation(t *testing.T) {
	inviteeID := "s1"
	inv := InvitationSnapshot{InviterID: "i1", InviteeID: &inviteeID, InviteeEmail: "s1@example.com"}

	if d := CanUpdateInvitation(user("i1", types.RoleInstructor), inv, InvitationUpdateFields{Role: true}); !d.Allowed {
		t.Fatalf("inviter update denied: %q", d.Reason)
	}
	accept := InvitationUpdateFields{Status: true, NewStatus: types.InvitationAccepted}
	if d := CanUpdateInvitation(user("s1", types.RoleStudent), inv, accept); !d.Allowed {
		t.Fatalf("invitee accept denied: %q", d.Reason)
	}
	if d := CanUpdateInvitation(user("s1", types.RoleStudent), inv, InvitationUpdateFields{Role: true}); d.Allowed {
		t.Fatalf("invitee should not change role")
	}
	if d := CanUpdateInvitation(user("s1", types.RoleStudent), inv, InvitationUpdateFields{Status: true, NewStatus: types.InvitationPending}); d.Allowed {
		t.Fatalf("invitee can only accept or reject")
	}
	// invitee matched by email when no id is bound yet
	byEmail := InvitationSnapshot{InviterID: "i1", InviteeEmail: "s2@example.com"}
	actor := user("s2", types.RoleStudent)
	actor.Email = "s2@example.com"
	if d := CanUpdateInvitation(actor, byEmail, accept); !d.Allowed {
		t.Fatalf("email-matched invitee accept denied: %q", d.Reason)
	}
	if d := CanUpdateInvitation(user("x1", types.RoleStudent), inv, accept); d.Allowed {
		t.Fatalf("stranger should not touch the invitation")
	}
}

func TestCanModifyAssessmentAccess(t *testing.T) {
	mentor := "p1"
	granter := "p2"
	a := AccessSnapshot{MentorID: &mentor, GrantedBy: &granter}

	if d := CanModifyAssessmentAccess(user("a1", types.RoleAdmin), a); !d.Allowed {
		t.Fatalf("admin denied: %q", d.Reason)
	}
	if d := CanModifyAssessmentAccess(user("p1", types.RolePartnerInstructor), a); !d.Allowed {
		t.Fatalf("mentor partner denied: %q", d.Reason)
	}
	if d := CanModifyAssessmentAccess(user("p2", types.RolePartnerInstructor), a); !d.Allowed {
		t.Fatalf("granting partner denied: %q", d.Reason)
	}
	if d := CanModifyAssessmentAccess(user("p3", types.RolePartnerInstructor), a); d.Allowed {
		t.Fatalf("unrelated partner should be denied")
	}
	if d := CanModifyAssessmentAccess(user("s1", types.RoleStudent), a); d.Allowed {
		t.Fatalf("learner should be denied")
	}
}

func TestCanUpdateMentorAssignment(t *testing.T) {
	if d := CanUpdateMentorAssignment(user("p1", types.RolePartnerInstructor), "p1"); !d.Allowed {
		t.Fatalf("partner mentor should update own assignment: %q", d.Reason)
	}
	if d := CanUpdateMentorAssignment(user("p1", types.RolePartnerInstructor), "p2"); d.Allowed {
		t.Fatalf("partner should not update another mentor's assignment")
	}
	if d := CanUpdateMentorAssignment(user("i1", types.RoleInstructor), "p2"); !d.Allowed {
		t.Fatalf("instructor denied: %q", d.Reason)
	}
}
