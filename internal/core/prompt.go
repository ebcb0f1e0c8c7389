package core

import (
	"fmt"
	"strings"
)

// The prompts are advisory; structural enforcement happens through the
// response schema and the validator. The counts stated here must match
// what the schema and validator require.

const crashCoursePromptTemplate = "Create a crash course on the topic: \"%s\".\n\n" +
	"Requirements:\n" +
	"- A short summary of the topic (50 words maximum).\n" +
	"- An overview explaining what the course covers (80 words maximum).\n" +
	"- 3 to 5 main topics. Each main topic needs a title, a description " +
	"(60 words maximum), and exactly 3 subtopics - no more, no fewer.\n" +
	"- Each subtopic needs a title (10 words maximum) and details (70 words maximum).\n" +
	"- A conclusion wrapping up the course (40 words maximum).\n\n" +
	"Respond strictly in the supplied JSON schema. Do not include any text outside the JSON."

// BuildCrashCoursePrompt renders the instruction text for a topic crash course.
func BuildCrashCoursePrompt(topic string) string {
	return fmt.Sprintf(crashCoursePromptTemplate, topic)
}

// BuildSummaryPrompt renders the instruction text for a document summary.
// It states the global requirements, then one line per planned range with the
// exact bullet-point count, labeled "N" for single pages and "A-B" for groups.
func BuildSummaryPrompt(totalPages int, plan ChunkPlan, extra string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the attached document (%d pages) and produce a structured summary.\n\n", totalPages)
	b.WriteString("Global requirements:\n")
	b.WriteString("- The document title.\n")
	b.WriteString("- An executive summary of the whole document.\n")
	b.WriteString("- Exactly 3 key findings.\n\n")

	if plan.Mode == ModePerPage {
		b.WriteString("Summarize the document page by page. Produce one section per page:\n")
	} else {
		b.WriteString("Summarize the document in page groups. Produce one section per group:\n")
	}
	for _, r := range plan.Ranges {
		fmt.Fprintf(&b, "- Section \"%s\": exactly 3 bullet points covering pages %d to %d.\n", r.Label(), r.Start, r.End)
	}

	b.WriteString("\nUse the section labels above verbatim as page_range values.\n")
	b.WriteString("Respond strictly in the supplied JSON schema. Do not include any text outside the JSON.")

	if extra = strings.TrimSpace(extra); extra != "" {
		b.WriteString("\n\nAdditional instructions from the user:\n")
		b.WriteString(extra)
	}
	return b.String()
}
