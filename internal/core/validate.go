package core

import "cramdeck.app/backend/internal/store"

// The validators are pure structural checks: no mutation, no errors. A
// violation returns false and the caller decides whether to retry or fail.
// They run on every generation regardless of whether the backend enforced
// the schema, because that enforcement is advisory.

const subtopicsPerTopic = 3

// ValidateCrashCourse reports whether a decoded crash course satisfies the
// output contract: all text fields present, at least one main topic, and
// exactly three well-formed subtopics under every topic.
func ValidateCrashCourse(c *store.CrashCourse) bool {
	if c == nil {
		return false
	}
	if c.Topic == "" || c.Summary == "" || c.Overview == "" || c.Conclusion == "" {
		return false
	}
	if len(c.MainTopics) == 0 {
		return false
	}
	for _, t := range c.MainTopics {
		if t.Title == "" || t.Description == "" {
			return false
		}
		if len(t.Subtopics) != subtopicsPerTopic {
			return false
		}
		for _, st := range t.Subtopics {
			if st.Title == "" || st.Details == "" {
				return false
			}
		}
	}
	return true
}

// ValidateSummary reports whether a decoded document summary satisfies the
// output contract: title and executive summary present, at least one key
// finding, and at least one section each carrying a page range and at least
// one summary point.
func ValidateSummary(s *store.Summary) bool {
	if s == nil {
		return false
	}
	if s.DocumentTitle == "" || s.ExecutiveSummary == "" {
		return false
	}
	if len(s.KeyFindings) == 0 {
		return false
	}
	for _, f := range s.KeyFindings {
		if f == "" {
			return false
		}
	}
	if len(s.SectionSummaries) == 0 {
		return false
	}
	for _, sec := range s.SectionSummaries {
		if sec.PageRange == "" || len(sec.SummaryPoints) == 0 {
			return false
		}
		for _, p := range sec.SummaryPoints {
			if p == "" {
				return false
			}
		}
	}
	return true
}
