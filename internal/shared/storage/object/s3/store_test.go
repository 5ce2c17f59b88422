package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/abc_resume.pdf", want: "owner/abc_resume.pdf"},
		{name: "simple prefix", prefix: "resumes", key: "owner/abc_resume.pdf", want: "resumes/owner/abc_resume.pdf"},
		{name: "prefix trailing slash", prefix: "resumes/", key: "owner/abc_resume.pdf", want: "resumes/owner/abc_resume.pdf"},
		{name: "prefix and key slashes", prefix: "/resumes/", key: "/owner/abc_resume.pdf", want: "resumes/owner/abc_resume.pdf"},
		{name: "nested prefix", prefix: "careerhub/resumes", key: "owner/abc_resume.pdf", want: "careerhub/resumes/owner/abc_resume.pdf"},
		{name: "empty key", prefix: "resumes", key: "", want: "resumes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := normalizePrefix("  /careerhub/resumes/ "); got != "careerhub/resumes" {
		t.Fatalf("unexpected prefix %q", got)
	}
}
