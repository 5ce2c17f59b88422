// Package report renders completed resume analyses as standalone documents.
package report

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"careerhub-backend/internal/profiles"
)

// ErrIncompleteData is returned when the resume has no analysis yet.
var ErrIncompleteData = errors.New("resume has no completed analysis")

//go:embed report.html.tmpl
var htmlTemplate string

var page = template.Must(template.New("report").Parse(htmlTemplate))

type categoryView struct {
	Key      string
	Title    string
	Score    int
	Class    string
	Feedback string
}

type pageView struct {
	Name            string
	GeneratedAt     string
	Overall         int
	OverallClass    string
	Categories      []categoryView
	Recommendations []string
}

// Render produces a self-contained HTML report. Identical input yields
// identical bytes.
func Render(resume profiles.Resume, generatedAt time.Time) ([]byte, error) {
	view, err := buildView(resume, generatedAt)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderText produces a plain-text report for terminals.
func RenderText(resume profiles.Resume, generatedAt time.Time) (string, error) {
	view, err := buildView(resume, generatedAt)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Resume Analysis Report\n%s\nGenerated %s\n\n", view.Name, view.GeneratedAt)
	fmt.Fprintf(&b, "Overall score: %d/100\n\n", view.Overall)
	for _, c := range view.Categories {
		fmt.Fprintf(&b, "%-28s %3d/100\n", c.Title, c.Score)
		if c.Feedback != "" {
			fmt.Fprintf(&b, "  %s\n", c.Feedback)
		}
	}
	if len(view.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		for _, r := range view.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return b.String(), nil
}

// Filename is the download name for a resume's report.
func Filename(resume profiles.Resume) string {
	name := strings.TrimSuffix(resume.Name, filepath.Ext(resume.Name))
	if name == "" {
		name = resume.ID
	}
	return "Resume_Analysis_" + name + ".html"
}

func buildView(resume profiles.Resume, generatedAt time.Time) (pageView, error) {
	a := resume.Analysis
	if a == nil {
		return pageView{}, ErrIncompleteData
	}

	keys := make([]string, 0, len(a.CategoryScores))
	for k := range a.CategoryScores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	categories := make([]categoryView, 0, len(keys))
	for _, k := range keys {
		score := a.CategoryScores[k]
		categories = append(categories, categoryView{
			Key:      k,
			Title:    titleCase(k),
			Score:    score,
			Class:    scoreClass(score),
			Feedback: a.Feedback[k],
		})
	}

	return pageView{
		Name:            resume.Name,
		GeneratedAt:     generatedAt.UTC().Format(time.RFC1123),
		Overall:         a.OverallScore,
		OverallClass:    scoreClass(a.OverallScore),
		Categories:      categories,
		Recommendations: a.Recommendations,
	}, nil
}

func scoreClass(score int) string {
	switch {
	case score >= 80:
		return "success"
	case score >= 60:
		return "warning"
	default:
		return "danger"
	}
}

// titleCase turns keyword_match into Keyword Match.
func titleCase(key string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
