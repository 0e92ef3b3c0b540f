package domain

import (
	"errors"
	"testing"
)

func TestMemberValidation(t *testing.T) {
	cases := []struct {
		name    string
		rec     Record
		wantErr bool
	}{
		{"valid", Record{"name": "Alice", "handle": "@alice", "email": "alice@example.com"}, false},
		{"missingName", Record{"handle": "@alice", "email": "alice@example.com"}, true},
		{"blankName", Record{"name": "   ", "handle": "@alice", "email": "alice@example.com"}, true},
		{"handleWithoutMarker", Record{"name": "Alice", "handle": "alice", "email": "alice@example.com"}, true},
		{"missingEmail", Record{"name": "Alice", "handle": "@alice"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewMember(tc.rec).Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMemberSettersRejectWithoutMutating(t *testing.T) {
	member := NewMember(Record{"name": "Alice", "handle": "@alice", "email": "alice@example.com"})

	if err := member.SetName(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid got %v", err)
	}
	if member.Name() != "Alice" {
		t.Fatalf("name mutated on failed set: %q", member.Name())
	}

	if err := member.SetHandle("bob"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid got %v", err)
	}
	if member.Handle() != "@alice" {
		t.Fatalf("handle mutated on failed set: %q", member.Handle())
	}

	if err := member.SetName("Alicia"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if member.Name() != "Alicia" {
		t.Fatalf("expected updated name got %q", member.Name())
	}
}

func TestMemberDefaults(t *testing.T) {
	member := NewMember(Record{"name": "Alice", "handle": "@alice", "email": "alice@example.com"})

	if member.ID() == "" {
		t.Fatal("expected generated id")
	}
	if member.Avatar() != defaultAvatar {
		t.Fatalf("expected default avatar got %q", member.Avatar())
	}
	if member.Online() {
		t.Fatal("expected offline by default")
	}
	if member.CreatedAt().IsZero() || member.UpdatedAt().IsZero() {
		t.Fatal("expected timestamps to be assigned")
	}
}

func TestUserTypeLabels(t *testing.T) {
	rec := Record{"name": "Sam", "handle": "@sam", "email": "sam@example.com"}

	cases := []struct {
		user        User
		wantType    string
		wantDisplay string
	}{
		{NewMember(rec), RoleRegular, "Sam"},
		{NewDeafMember(rec), RoleDeafMember, "Sam"},
		{NewInstructor(rec), RoleInstructor, "Sam (Instructor)"},
	}

	for _, tc := range cases {
		if got := tc.user.UserType(); got != tc.wantType {
			t.Fatalf("expected type %q got %q", tc.wantType, got)
		}
		if got := tc.user.DisplayName(); got != tc.wantDisplay {
			t.Fatalf("expected display name %q got %q", tc.wantDisplay, got)
		}
	}
}

func TestDeafMemberSettingsMerge(t *testing.T) {
	member := NewDeafMember(Record{"name": "Maya", "handle": "@maya", "email": "maya@example.com"})

	settings := member.Settings()
	if !settings.CaptionsEnabled || !settings.VibrationAlerts || !settings.VisualNotifications {
		t.Fatalf("expected all flags enabled by default: %+v", settings)
	}
	if member.PreferredSignLanguage() != "ASL" {
		t.Fatalf("expected ASL default got %q", member.PreferredSignLanguage())
	}

	off := false
	member.UpdateSettings(AccessibilityUpdate{VibrationAlerts: &off})

	settings = member.Settings()
	if settings.VibrationAlerts {
		t.Fatal("expected vibration alerts disabled")
	}
	if !settings.CaptionsEnabled || !settings.VisualNotifications {
		t.Fatalf("unspecified flags were discarded: %+v", settings)
	}
}

func TestInstructorLists(t *testing.T) {
	instructor := NewInstructor(Record{"name": "Rae", "handle": "@rae", "email": "rae@example.com"})

	instructor.AddCertification("RID NIC")
	instructor.AddSpecialization("ASL grammar")

	certs := instructor.Certifications()
	if len(certs) != 1 || certs[0] != "RID NIC" {
		t.Fatalf("unexpected certifications: %v", certs)
	}

	// Mutating the returned copy must not affect the instructor.
	certs[0] = "changed"
	if instructor.Certifications()[0] != "RID NIC" {
		t.Fatal("certifications copy leaked internal state")
	}

	if got := instructor.Specializations(); len(got) != 1 || got[0] != "ASL grammar" {
		t.Fatalf("unexpected specializations: %v", got)
	}
}

func TestUserSerializeRoundTrip(t *testing.T) {
	original := NewDeafMember(Record{
		"name":                  "Maya",
		"handle":                "@maya",
		"email":                 "maya@example.com",
		"bio":                   "hello",
		"preferredSignLanguage": "BSL",
	})
	off := false
	original.UpdateSettings(AccessibilityUpdate{CaptionsEnabled: &off})

	rebuilt := NewDeafMember(original.Serialize())

	if rebuilt.ID() != original.ID() {
		t.Fatalf("id changed: %q vs %q", rebuilt.ID(), original.ID())
	}
	if !rebuilt.CreatedAt().Equal(original.CreatedAt()) || !rebuilt.UpdatedAt().Equal(original.UpdatedAt()) {
		t.Fatal("timestamps not preserved")
	}
	if rebuilt.Name() != "Maya" || rebuilt.Handle() != "@maya" || rebuilt.Bio() != "hello" {
		t.Fatalf("stored fields not preserved: %+v", rebuilt.Serialize())
	}
	if rebuilt.PreferredSignLanguage() != "BSL" {
		t.Fatalf("sign language not preserved: %q", rebuilt.PreferredSignLanguage())
	}
	if rebuilt.Settings().CaptionsEnabled {
		t.Fatal("accessibility settings not preserved")
	}
}

func TestUserSerializeIncludesRole(t *testing.T) {
	rec := NewInstructor(Record{"name": "Rae", "handle": "@rae", "email": "rae@example.com"}).Serialize()
	if rec["userType"] != RoleInstructor {
		t.Fatalf("expected instructor role in record got %v", rec["userType"])
	}
	if _, ok := rec["yearsOfExperience"]; !ok {
		t.Fatal("expected instructor fields in record")
	}
}
