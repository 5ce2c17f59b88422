package profiles

import (
	"strings"
	"time"
)

// ExtractionStatus tracks the asynchronous text extraction of a resume.
type ExtractionStatus string

const (
	ExtractionPending ExtractionStatus = "pending"
	ExtractionDone    ExtractionStatus = "done"
	ExtractionFailed  ExtractionStatus = "failed"
)

// ScoreResult is a completed ATS analysis. The overall score and the
// category scores always travel together.
type ScoreResult struct {
	OverallScore    int
	CategoryScores  map[string]int
	Feedback        map[string]string
	Recommendations []string
	AnalyzedAt      time.Time
}

// Clone returns a deep copy.
func (s *ScoreResult) Clone() *ScoreResult {
	if s == nil {
		return nil
	}
	out := &ScoreResult{
		OverallScore:    s.OverallScore,
		CategoryScores:  make(map[string]int, len(s.CategoryScores)),
		Feedback:        make(map[string]string, len(s.Feedback)),
		Recommendations: append([]string(nil), s.Recommendations...),
		AnalyzedAt:      s.AnalyzedAt,
	}
	for k, v := range s.CategoryScores {
		out.CategoryScores[k] = v
	}
	for k, v := range s.Feedback {
		out.Feedback[k] = v
	}
	return out
}

// Resume is one uploaded document in a profile's registry.
type Resume struct {
	ID               string
	OwnerID          string
	Name             string
	StorageKey       string
	URL              string
	MimeType         string
	SizeBytes        int64
	UploadedAt       time.Time
	ExtractionStatus ExtractionStatus
	ExtractionError  string
	ExtractedText    string
	Analysis         *ScoreResult
}

// HasText reports whether extraction finished with usable text.
func (r Resume) HasText() bool {
	return r.ExtractionStatus == ExtractionDone && strings.TrimSpace(r.ExtractedText) != ""
}

// NotificationPreferences are independent opt-in flags.
type NotificationPreferences struct {
	Email              bool `json:"email"`
	JobAlerts          bool `json:"jobAlerts"`
	ApplicationUpdates bool `json:"applicationUpdates"`
	NewMatchingJobs    bool `json:"newMatchingJobs"`
}

// DefaultNotificationPreferences enables every channel.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, JobAlerts: true, ApplicationUpdates: true, NewMatchingJobs: true}
}

// Profile is the aggregate that owns a user's resumes.
type Profile struct {
	UserID            string
	FullName          string
	Email             string
	Phone             string
	Skills            string
	Experience        string
	Education         string
	Interests         string
	PreferredLocation string
	JobTitle          string
	Bio               string
	AvatarURL         string
	LinkedInURL       string
	GitHubURL         string
	PortfolioURL      string
	Notifications     NotificationPreferences
	UpdatedAt         time.Time
	Resumes           []Resume
}

// ProfileUpdate replaces the editable contact and bio fields.
type ProfileUpdate struct {
	FullName          string                  `json:"fullName" validate:"max=200"`
	Email             string                  `json:"email" validate:"omitempty,email"`
	Phone             string                  `json:"phone" validate:"max=40"`
	Skills            string                  `json:"skills"`
	Experience        string                  `json:"experience"`
	Education         string                  `json:"education"`
	Interests         string                  `json:"interests"`
	PreferredLocation string                  `json:"preferredLocation"`
	JobTitle          string                  `json:"jobTitle"`
	Bio               string                  `json:"bio" validate:"max=4000"`
	AvatarURL         string                  `json:"avatarUrl" validate:"omitempty,url"`
	LinkedInURL       string                  `json:"linkedinUrl" validate:"omitempty,url"`
	GitHubURL         string                  `json:"githubUrl" validate:"omitempty,url"`
	PortfolioURL      string                  `json:"portfolioUrl" validate:"omitempty,url"`
	Notifications     NotificationPreferences `json:"notificationPreferences"`
}

func (u ProfileUpdate) apply(p Profile) Profile {
	p.FullName = strings.TrimSpace(u.FullName)
	p.Email = strings.ToLower(strings.TrimSpace(u.Email))
	p.Phone = strings.TrimSpace(u.Phone)
	p.Skills = u.Skills
	p.Experience = u.Experience
	p.Education = u.Education
	p.Interests = u.Interests
	p.PreferredLocation = strings.TrimSpace(u.PreferredLocation)
	p.JobTitle = strings.TrimSpace(u.JobTitle)
	p.Bio = u.Bio
	p.AvatarURL = strings.TrimSpace(u.AvatarURL)
	p.LinkedInURL = strings.TrimSpace(u.LinkedInURL)
	p.GitHubURL = strings.TrimSpace(u.GitHubURL)
	p.PortfolioURL = strings.TrimSpace(u.PortfolioURL)
	p.Notifications = u.Notifications
	return p
}
