package matching

import (
	"context"
	"math"
	"strings"
	"unicode"

	"careerhub-backend/internal/jobs"
)

// TFIDFMatcher scores each job description against every resume with
// smoothed TF-IDF vectors and cosine similarity, fitted per job.
type TFIDFMatcher struct{}

func (TFIDFMatcher) Match(ctx context.Context, list []jobs.Job, resumes []ResumeSummary) ([]jobs.Job, error) {
	if len(resumes) == 0 {
		return cloneJobs(list), nil
	}
	resumeTokens := make([][]string, len(resumes))
	for i, r := range resumes {
		resumeTokens[i] = tokenize(r.Text)
	}

	out := make([]jobs.Job, len(list))
	for i, job := range list {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs := append([][]string{tokenize(job.Description)}, resumeTokens...)
		vectors := tfidf(docs)

		match := &jobs.Match{}
		if vectors != nil {
			best, bestSim := 0, -1.0
			for j := 1; j < len(vectors); j++ {
				if sim := dot(vectors[0], vectors[j]); sim > bestSim {
					best, bestSim = j-1, sim
				}
			}
			match.Percentage = math.Round(bestSim*100*100) / 100
			match.BestResume = &jobs.ResumeRef{ID: resumes[best].ID, Name: resumes[best].Name}
		}
		annotated := job.Clone()
		annotated.Match = match
		out[i] = annotated
	}
	return out, nil
}

// tfidf returns L2-normalised vectors, or nil when no document has a term.
func tfidf(docs [][]string) []map[string]float64 {
	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(df) == 0 {
		return nil
	}

	n := float64(len(docs))
	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vec := map[string]float64{}
		for _, term := range doc {
			vec[term]++
		}
		var norm float64
		for term, tf := range vec {
			w := tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}

// tokenize lowercases text and keeps words of two or more letters or
// digits that are not English stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

var stopWords = func() map[string]bool {
	words := strings.Fields(`
a about above after again against all also am an and any are as at be because been before being
below between both but by can could did do does doing down during each either else ever every few
for from further get had has have having he her here hers herself him himself his how however if
in into is it its itself just least less may me might more most much must my myself neither no nor
not now of off often on once only or other otherwise our ours ourselves out over own per perhaps
please rather same she should since so some such than that the their theirs them themselves then
there these they this those though through thus to too under until up upon us very via was we
well were what whatever when where whether which while who whom whose why will with within without
would yet you your yours yourself yourselves`)
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()
