package jobs

import "strings"

// Filter keeps jobs whose title, description, skills, company or keywords
// contain query and whose location contains location. Matching ignores
// case and an empty term matches everything. Order is preserved.
func Filter(jobs []Job, query, location string) []Job {
	query = strings.ToLower(strings.TrimSpace(query))
	location = strings.ToLower(strings.TrimSpace(location))

	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if matchesQuery(job, query) && strings.Contains(strings.ToLower(job.Location), location) {
			out = append(out, job)
		}
	}
	return out
}

func matchesQuery(job Job, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{job.Title, job.Description, job.SkillsRequired, job.Company} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, kw := range job.Keywords {
		if strings.Contains(strings.ToLower(kw), query) {
			return true
		}
	}
	return false
}
