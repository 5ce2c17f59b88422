// Package scoring delegates ATS scoring of extracted resume text to an
// external collaborator and validates what comes back.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrNotConfigured is returned by the placeholder scorer.
	ErrNotConfigured = errors.New("scorer not configured")
	// ErrMalformedResult marks a response that is not a valid score result.
	ErrMalformedResult = errors.New("malformed scorer result")
)

// Scorer produces an ATS score for resume text.
type Scorer interface {
	Score(ctx context.Context, req Request) (Result, error)
}

// Request is the input handed to a scorer.
type Request struct {
	ResumeID string `json:"resume_id"`
	FileName string `json:"file_name"`
	Text     string `json:"resume_text"`
}

// Result is the wire shape shared by every scorer.
type Result struct {
	OverallScore    int               `json:"overall_score"`
	CategoryScores  map[string]int    `json:"category_scores"`
	Feedback        map[string]string `json:"feedback"`
	Recommendations []string          `json:"recommendations"`
}

const resultSchema = `{
  "type": "object",
  "required": ["overall_score", "category_scores", "feedback", "recommendations"],
  "properties": {
    "overall_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "category_scores": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}
    },
    "feedback": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "recommendations": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
	})
	return schema, schemaErr
}

// ParseResult strips markdown fences, validates the payload against the
// result schema and decodes it. A payload carrying only an "error" feedback
// entry is the collaborator reporting its own failure and is rejected.
func ParseResult(raw []byte) (Result, error) {
	body := cleanJSONBlock(string(raw))
	if body == "" {
		return Result{}, fmt.Errorf("%w: empty scorer response", ErrMalformedResult)
	}
	if !json.Valid([]byte(body)) {
		return Result{}, fmt.Errorf("%w: scorer response is not valid JSON", ErrMalformedResult)
	}

	s, err := compiledSchema()
	if err != nil {
		return Result{}, fmt.Errorf("load result schema: %w", err)
	}
	check, err := s.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return Result{}, fmt.Errorf("validate scorer response: %w", err)
	}
	if !check.Valid() {
		msgs := make([]string, 0, len(check.Errors()))
		for _, e := range check.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return Result{}, fmt.Errorf("%w: scorer response failed schema: %s", ErrMalformedResult, strings.Join(msgs, "; "))
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return Result{}, fmt.Errorf("%w: decode scorer response: %v", ErrMalformedResult, err)
	}
	out, err := wire.result()
	if err != nil {
		return Result{}, err
	}
	if msg, ok := out.Feedback["error"]; ok && out.OverallScore == 0 {
		return Result{}, fmt.Errorf("scorer reported failure: %s", msg)
	}
	if out.Feedback == nil {
		out.Feedback = map[string]string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out, nil
}

// wireResult decodes scores as numbers so that whole values written as 82.0
// are accepted alongside 82.
type wireResult struct {
	OverallScore    json.Number            `json:"overall_score"`
	CategoryScores  map[string]json.Number `json:"category_scores"`
	Feedback        map[string]string      `json:"feedback"`
	Recommendations []string               `json:"recommendations"`
}

func (w wireResult) result() (Result, error) {
	overall, err := wholeScore("overall_score", w.OverallScore)
	if err != nil {
		return Result{}, err
	}
	out := Result{
		OverallScore:    overall,
		CategoryScores:  make(map[string]int, len(w.CategoryScores)),
		Feedback:        w.Feedback,
		Recommendations: w.Recommendations,
	}
	for k, v := range w.CategoryScores {
		score, err := wholeScore("category_scores."+k, v)
		if err != nil {
			return Result{}, err
		}
		out.CategoryScores[k] = score
	}
	return out, nil
}

func wholeScore(field string, n json.Number) (int, error) {
	v, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformedResult, field)
	}
	if v != math.Trunc(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %s must be a whole number from 0 to 100, got %s", ErrMalformedResult, field, n)
	}
	return int(v), nil
}

// cleanJSONBlock returns the JSON inside a markdown code fence, or the
// trimmed text when there is none.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
	} else if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+len("```"):]
	} else {
		return text
	}
	if j := strings.Index(text, "```"); j >= 0 {
		text = text[:j]
	}
	return strings.TrimSpace(text)
}

// Placeholder is the scorer used when none is configured.
type Placeholder struct{}

func (Placeholder) Score(ctx context.Context, req Request) (Result, error) {
	return Result{}, ErrNotConfigured
}
