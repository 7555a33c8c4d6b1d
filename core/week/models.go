package week

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimuhub/elimu/core"
)

// Question types
const (
	TypeMCQ         = "mcq"
	TypeShortAnswer = "short_answer"
)

type (
	// ContentItem points to external media. The stored form is always
	// {url, title}; a legacy variant stored bare URL strings and is
	// normalized on read (missing title becomes "").
	ContentItem struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}

	// Question is a practice item attached to a week: an MCQ with exactly one
	// correct option index, or a short-answer item with an optional sample
	// answer. Legacy records carry no type tag and default to "mcq".
	Question struct {
		Type          string   `json:"type"`
		Question      string   `json:"question"`
		Options       []string `json:"options,omitempty"`
		CorrectAnswer int      `json:"correctAnswer"`
		SampleAnswer  string   `json:"sampleAnswer,omitempty"`
	}

	// Week is a content bundle under a subject. WeekNumber is advisory
	// ordering only; duplicates are permitted.
	Week struct {
		ID          string        `json:"id"`
		SubjectID   string        `json:"subjectId"`
		WeekNumber  int           `json:"weekNumber"`
		Title       string        `json:"title"`
		Description string        `json:"description,omitempty"`
		Published   bool          `json:"published"`
		VideoLinks  []ContentItem `json:"videoLinks"`
		AudioLinks  []ContentItem `json:"audioLinks"`
		PDFLinks    []ContentItem `json:"pdfLinks"`
		Questions   []Question    `json:"questions"`
		CreatedAt   time.Time     `json:"createdAt"` // UTC
	}
)

func (ci *ContentItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil { // legacy bare-string form
		ci.URL = s
		ci.Title = ""
		return nil
	}
	type alias ContentItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*ci = ContentItem(a)
	return nil
}

func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Type == "" { // untagged legacy questions are MCQs
		a.Type = TypeMCQ
	}
	*q = Question(a)
	return nil
}

// NewWeek contains information needed to create a new Week.
type NewWeek struct {
	SubjectID   string        `json:"subjectId" validate:"required"`
	WeekNumber  int           `json:"weekNumber" validate:"required,gt=0"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Published   bool          `json:"published"`
	VideoLinks  []ContentItem `json:"videoLinks"`
	AudioLinks  []ContentItem `json:"audioLinks"`
	PDFLinks    []ContentItem `json:"pdfLinks"`
	Questions   []Question    `json:"questions"`
}

func (nw *NewWeek) Validate(validate *validator.Validate) error {
	nw.Title = core.CleanString(nw.Title)
	return validate.Struct(nw)
}

// UpdateWeek defines what information may be provided to modify an existing
// Week. The merge is shallow: a present field fully replaces the stored value,
// an absent field is preserved unchanged.
type UpdateWeek struct {
	WeekNumber  *int           `json:"weekNumber" validate:"omitempty,gt=0"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Published   *bool          `json:"published"`
	VideoLinks  *[]ContentItem `json:"videoLinks"`
	AudioLinks  *[]ContentItem `json:"audioLinks"`
	PDFLinks    *[]ContentItem `json:"pdfLinks"`
	Questions   *[]Question    `json:"questions"`
}

func (uw *UpdateWeek) Validate(validate *validator.Validate) error {
	if uw.Title != nil {
		title := core.CleanString(*uw.Title)
		uw.Title = &title
	}
	return validate.Struct(uw)
}
