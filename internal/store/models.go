package store

import (
	"fmt"
	"time"
)

type User struct {
	ID             string        `json:"id"` // "user_NNN", zero-padded, monotonically increasing
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	Password       string        `json:"password"` // bcrypt hash
	CreatedAt      time.Time     `json:"createdAt"`
	ProfilePicture string        `json:"profilePicture"`
	CrashCourses   []CrashCourse `json:"crashCourses"`
	Summaries      []Summary     `json:"summaries"`
}

// CrashCourse is the structured output of a topic generation, stored as-is.
type CrashCourse struct {
	ID         string    `json:"id"` // "cc_<unix millis>"
	CreatedAt  time.Time `json:"createdAt"`
	Topic      string    `json:"topic"`
	Summary    string    `json:"summary"`
	Overview   string    `json:"overview"`
	MainTopics []Topic   `json:"main_topics"`
	Conclusion string    `json:"conclusion"`
}

type Topic struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subtopics   []Subtopic `json:"subtopics"` // exactly three
}

type Subtopic struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Summary is the structured output of a document summarization.
type Summary struct {
	ID               string    `json:"id"` // "sum_<unix millis>"
	CreatedAt        time.Time `json:"createdAt"`
	FileName         string    `json:"fileName"`
	DocumentTitle    string    `json:"document_title"`
	ExecutiveSummary string    `json:"executive_summary"`
	KeyFindings      []string  `json:"key_findings"`
	SectionSummaries []Section `json:"section_summaries"`
}

// Section covers one page range. PageRange is either a single page ("7")
// or a hyphenated inclusive range ("21-40"); the hyphen is what tells
// grouped output apart from per-page output downstream.
type Section struct {
	PageRange     string   `json:"page_range"`
	SummaryPoints []string `json:"summary_points"`
}

func NewCrashCourseID(now time.Time) string {
	return fmt.Sprintf("cc_%d", now.UnixMilli())
}

func NewSummaryID(now time.Time) string {
	return fmt.Sprintf("sum_%d", now.UnixMilli())
}
