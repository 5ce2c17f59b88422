package profiles

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	URL              string            `json:"url"`
	UploadDate       time.Time         `json:"uploadDate"`
	MimeType         string            `json:"mimeType,omitempty"`
	SizeBytes        int64             `json:"sizeBytes"`
	ExtractionStatus string            `json:"extractionStatus"`
	ExtractionError  string            `json:"extractionError,omitempty"`
	ExtractedText    *string           `json:"extractedText,omitempty"`
	Score            *int              `json:"score,omitempty"`
	CategoryScores   map[string]int    `json:"categoryScores,omitempty"`
	Feedback         map[string]string `json:"feedback,omitempty"`
	Recommendations  []string          `json:"recommendations,omitempty"`
	AnalyzedAt       *time.Time        `json:"analyzedAt,omitempty"`
	ScoreLoading     bool              `json:"scoreLoading"`
}

// NotificationPreferencesResponse mirrors NotificationPreferences on the wire.
type NotificationPreferencesResponse struct {
	Email              bool `json:"email"`
	JobAlerts          bool `json:"jobAlerts"`
	ApplicationUpdates bool `json:"applicationUpdates"`
	NewMatchingJobs    bool `json:"newMatchingJobs"`
}

// ProfileResponse is the outward-facing representation of a profile.
type ProfileResponse struct {
	UserID                  string                          `json:"userId"`
	FullName                string                          `json:"fullName"`
	Email                   string                          `json:"email"`
	Phone                   string                          `json:"phone"`
	Skills                  string                          `json:"skills"`
	Experience              string                          `json:"experience"`
	Education               string                          `json:"education"`
	Interests               string                          `json:"interests"`
	PreferredLocation       string                          `json:"preferredLocation"`
	JobTitle                string                          `json:"jobTitle"`
	Bio                     string                          `json:"bio"`
	AvatarURL               string                          `json:"avatarUrl"`
	LinkedInURL             string                          `json:"linkedinUrl"`
	GitHubURL               string                          `json:"githubUrl"`
	PortfolioURL            string                          `json:"portfolioUrl"`
	NotificationPreferences NotificationPreferencesResponse `json:"notificationPreferences"`
	UpdatedAt               time.Time                       `json:"updatedAt"`
	Resumes                 []ResumeResponse                `json:"resumes"`
}

// ToResumeResponse converts a resume. loading is the transient in-flight flag.
func ToResumeResponse(r Resume, loading bool) ResumeResponse {
	out := ResumeResponse{
		ID:               r.ID,
		Name:             r.Name,
		URL:              r.URL,
		UploadDate:       r.UploadedAt,
		MimeType:         r.MimeType,
		SizeBytes:        r.SizeBytes,
		ExtractionStatus: string(r.ExtractionStatus),
		ExtractionError:  r.ExtractionError,
		ScoreLoading:     loading,
	}
	if r.HasText() {
		text := r.ExtractedText
		out.ExtractedText = &text
	}
	if a := r.Analysis; a != nil {
		score := a.OverallScore
		out.Score = &score
		out.CategoryScores = a.CategoryScores
		out.Feedback = a.Feedback
		out.Recommendations = a.Recommendations
		if !a.AnalyzedAt.IsZero() {
			at := a.AnalyzedAt
			out.AnalyzedAt = &at
		}
	}
	return out
}

func (h *Handler) toProfileResponse(p Profile) ProfileResponse {
	return ToProfileResponse(p, h.InFlight)
}

// ToProfileResponse renders a profile. inFlight may be nil.
func ToProfileResponse(p Profile, inFlight func(ownerID, resumeID string) bool) ProfileResponse {
	resumes := make([]ResumeResponse, 0, len(p.Resumes))
	for _, r := range p.Resumes {
		resumes = append(resumes, ToResumeResponse(r, inFlight != nil && inFlight(r.OwnerID, r.ID)))
	}
	return ProfileResponse{
		UserID:            p.UserID,
		FullName:          p.FullName,
		Email:             p.Email,
		Phone:             p.Phone,
		Skills:            p.Skills,
		Experience:        p.Experience,
		Education:         p.Education,
		Interests:         p.Interests,
		PreferredLocation: p.PreferredLocation,
		JobTitle:          p.JobTitle,
		Bio:               p.Bio,
		AvatarURL:         p.AvatarURL,
		LinkedInURL:       p.LinkedInURL,
		GitHubURL:         p.GitHubURL,
		PortfolioURL:      p.PortfolioURL,
		NotificationPreferences: NotificationPreferencesResponse{
			Email:              p.Notifications.Email,
			JobAlerts:          p.Notifications.JobAlerts,
			ApplicationUpdates: p.Notifications.ApplicationUpdates,
			NewMatchingJobs:    p.Notifications.NewMatchingJobs,
		},
		UpdatedAt: p.UpdatedAt,
		Resumes:   resumes,
	}
}
