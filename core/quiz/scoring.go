// Package quiz scores quiz submissions. Scoring is derived, never persisted;
// only the final completion flag reaches the progress tracker.
package quiz

import (
	"math"

	"github.com/elimuhub/elimu/core/week"
)

// Result is the outcome of scoring one submission. Total counts MCQ questions
// only; short-answer items are never auto-scored.
type Result struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent is the score rounded to the nearest integer percent.
func (r Result) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Correct) / float64(r.Total) * 100))
}

// Score grades answers against the week's questions. answers maps question
// index to selected option index; an MCQ answer is correct iff the selected
// index equals the question's correct index.
func Score(questions []week.Question, answers map[int]int) Result {
	var res Result
	for i, q := range questions {
		if q.Type != week.TypeMCQ {
			continue
		}
		res.Total++
		if selected, ok := answers[i]; ok && selected == q.CorrectAnswer {
			res.Correct++
		}
	}
	return res
}
