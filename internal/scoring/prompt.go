package scoring

import "strings"

// Categories scored by the prompt-driven scorers.
var Categories = []string{"format", "content", "relevance", "clarity", "impact_statements", "skills_presentation"}

const promptHeader = `Please analyze the following resume and provide:
1. An overall score out of 100.
2. Scores for different categories (format, content, relevance, clarity, impact statements, skills presentation) out of 100.
3. Specific feedback for improvement in each category.
4. Recommendations to achieve a better score.

Return the results as a valid JSON object with the following structure:
{
    "overall_score": 85,
    "category_scores": {
        "format": 80,
        "content": 85,
        "relevance": 90,
        "clarity": 75,
        "impact_statements": 70,
        "skills_presentation": 85
    },
    "feedback": {
        "format": "Feedback on format...",
        "content": "Feedback on content...",
        "relevance": "Feedback on relevance...",
        "clarity": "Feedback on clarity...",
        "impact_statements": "Feedback on impact statements...",
        "skills_presentation": "Feedback on skills presentation..."
    },
    "recommendations": [
        "Recommendation 1",
        "Recommendation 2",
        "Recommendation 3"
    ]
}

All scores must be whole numbers between 0 and 100. Return only the JSON object.

The resume is as follows:

`

// BuildPrompt renders the scoring prompt for resume text.
func BuildPrompt(text string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(text))
	b.WriteString(promptHeader)
	b.WriteString(strings.TrimSpace(text))
	return b.String()
}
