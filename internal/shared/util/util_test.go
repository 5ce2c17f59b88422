package util

import (
	"strings"
	"testing"
)

func TestNewObjectIDFormat(t *testing.T) {
	id := NewObjectID()
	if !IsObjectID(id) {
		t.Fatalf("expected valid object id, got %q", id)
	}
	if NewObjectID() == id {
		t.Fatalf("expected distinct ids")
	}
}

func TestIsObjectID(t *testing.T) {
	cases := map[string]bool{
		"64b1f0c2e1a2b3c4d5e6f7a8":  true,
		"64B1F0C2E1A2B3C4D5E6F7A8":  true,
		"64b1f0c2e1a2b3c4d5e6f7a":   false,
		"64b1f0c2e1a2b3c4d5e6f7a8a": false,
		"zzb1f0c2e1a2b3c4d5e6f7a8":  false,
		"":                          false,
	}
	for in, want := range cases {
		if got := IsObjectID(in); got != want {
			t.Fatalf("IsObjectID(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestValidateStructObjectIDTag(t *testing.T) {
	type req struct {
		UserID string `validate:"required,objectid"`
		Status string `validate:"oneof=applied screening"`
	}
	if err := ValidateStruct(req{UserID: "64b1f0c2e1a2b3c4d5e6f7a8", Status: "applied"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	err := ValidateStruct(req{UserID: "nope", Status: "ghosted"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "UserID failed objectid") || !strings.Contains(err.Error(), "Status failed oneof") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" cv/final\\resume.pdf ")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "cv_final_resume.pdf" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
	if _, err := SanitizeFileName("../etc/passwd"); err == nil {
		t.Fatalf("expected traversal rejection")
	}
}
