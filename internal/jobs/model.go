package jobs

import "time"

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// Job is a posting students can search, match and apply to.
type Job struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Company             string   `json:"company"`
	Location            string   `json:"location"`
	Description         string   `json:"description"`
	SkillsRequired      string   `json:"skills_required"`
	ExperienceRequired  string   `json:"experience_required"`
	DatePosted          string   `json:"date_posted"`
	URL                 string   `json:"url"`
	Keywords            []string `json:"keywords"`
	ApplicationDeadline string   `json:"application_deadline,omitempty"`
	JobType             string   `json:"job_type"`
	SalaryRange         string   `json:"salary_range"`
	IsBookmarked        bool     `json:"isBookmarked"`

	// Match is set per request against a resume set and never stored.
	*Match
}

// Match annotates a job with its best-fitting resume.
type Match struct {
	Percentage             float64    `json:"match_percentage"`
	BestResume             *ResumeRef `json:"best_resume"`
	ImprovementSuggestions string     `json:"improvement_suggestions,omitempty"`
}

// ResumeRef identifies the resume a job matched best.
type ResumeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clone copies the job without its match annotation.
func (j Job) Clone() Job {
	j.Keywords = append([]string(nil), j.Keywords...)
	j.Match = nil
	return j
}

// Today formats t as a wire date.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
