package core

import "github.com/google/generative-ai-go/genai"

// Response schemas handed to the backend's structured-output mode. The
// backend treats them as advisory, so the validator re-checks everything
// they promise, including the three-subtopic rule the schema cannot pin
// down by itself.

func crashCourseSchema() *genai.Schema {
	subtopic := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":   {Type: genai.TypeString, Description: "Subtopic title, 10 words maximum"},
			"details": {Type: genai.TypeString, Description: "Subtopic details, 70 words maximum"},
		},
		Required: []string{"title", "details"},
	}

	topic := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString, Description: "60 words maximum"},
			"subtopics": {
				Type:        genai.TypeArray,
				Items:       subtopic,
				Description: "Exactly 3 subtopics",
			},
		},
		Required: []string{"title", "description", "subtopics"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic":       {Type: genai.TypeString},
			"summary":     {Type: genai.TypeString, Description: "50 words maximum"},
			"overview":    {Type: genai.TypeString, Description: "80 words maximum"},
			"main_topics": {Type: genai.TypeArray, Items: topic},
			"conclusion":  {Type: genai.TypeString, Description: "40 words maximum"},
		},
		Required: []string{"topic", "summary", "overview", "main_topics", "conclusion"},
	}
}

func summarySchema() *genai.Schema {
	section := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"page_range": {
				Type:        genai.TypeString,
				Description: `A single page number ("7") or an inclusive range ("21-40")`,
			},
			"summary_points": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Exactly 3 bullet points",
			},
		},
		Required: []string{"page_range", "summary_points"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"document_title":    {Type: genai.TypeString},
			"executive_summary": {Type: genai.TypeString},
			"key_findings": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Exactly 3 key findings",
			},
			"section_summaries": {Type: genai.TypeArray, Items: section},
		},
		Required: []string{"document_title", "executive_summary", "key_findings", "section_summaries"},
	}
}
