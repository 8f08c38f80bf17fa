package models

import "testing"

// TestRenderSubstitutesVariables verifies placeholder substitution in
// title and body.
func TestRenderSubstitutesVariables(t *testing.T) {
	tmpl := NotificationTemplate{
		Title: "Hello {{username}}",
		Body:  "{{opponent}} challenged {{username}} to a duel.",
	}
	title, body := tmpl.Render(map[string]string{
		"username": "ayse",
		"opponent": "mehmet",
	})
	if title != "Hello ayse" {
		t.Fatalf("unexpected title %q", title)
	}
	if body != "mehmet challenged ayse to a duel." {
		t.Fatalf("unexpected body %q", body)
	}
}

// TestRenderLeavesUnmatchedPlaceholders verifies unknown variables stay
// visible rather than vanishing.
func TestRenderLeavesUnmatchedPlaceholders(t *testing.T) {
	tmpl := NotificationTemplate{Title: "Hi {{username}}", Body: "ok"}
	title, _ := tmpl.Render(nil)
	if title != "Hi {{username}}" {
		t.Fatalf("unexpected title %q", title)
	}
}

// TestCategoryOfBuckets spot-checks the partition, including the
// unlisted course subtype fallback.
func TestCategoryOfBuckets(t *testing.T) {
	cases := map[NotificationType]Category{
		TypeStudyReminder:                 CategoryStudy,
		TypeAchievementUnlock:             CategoryStudy,
		TypeDuelInvitation:                CategorySocial,
		TypeFriendActivity:                CategorySocial,
		TypeSystemAnnouncement:            CategorySystem,
		TypeContentUpdate:                 CategorySystem,
		TypeCourseReminder:                CategoryCourse,
		NotificationType("course_custom"): CategoryCourse,
	}
	for typ, want := range cases {
		if got := CategoryOf(typ); got != want {
			t.Fatalf("CategoryOf(%s) = %s, want %s", typ, got, want)
		}
	}
}
