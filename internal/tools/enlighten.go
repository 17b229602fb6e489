package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// createEnlightenAssignmentTool mimics the Enlighten.ai publish flow. There
// is no real upstream call; the tool renders a pre-filled assignment builder
// artifact the teacher verifies and publishes by hand.
type createEnlightenAssignmentTool struct{}

func (t *createEnlightenAssignmentTool) Definition() Definition {
	return Definition{
		Name:        "create_enlighten_assignment",
		Description: "Create an assignment in EnlightenAI (mocked for demo). Returns an assignment ID.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"title":      map[string]any{"type": "string", "description": "Assignment title"},
				"gradeLevel": map[string]any{"type": "string", "description": "Grade level (e.g., \"9\")"},
				"prompt":     map[string]any{"type": "string", "description": "The assignment prompt/instructions"},
				"rubric":     map[string]any{"type": "string", "description": "Rubric ID or rubric content"},
				"expectedLength": map[string]any{
					"type":        "string",
					"description": "Expected response length (e.g., \"2-3 paragraphs\", \"500 words\")",
				},
				"courseId":   map[string]any{"type": "string", "description": "Course ID"},
				"courseName": map[string]any{"type": "string", "description": "Human-readable course name for display"},
				"unitTitle":  map[string]any{"type": "string", "description": "Unit title for context chips"},
				"readings": map[string]any{
					"type":        "array",
					"description": "Reference texts or readings students should use",
					"items":       map[string]any{"type": "string"},
				},
				"aiFeedbackLength": map[string]any{
					"type":        "string",
					"description": "Length of AI-generated feedback (e.g., \"One paragraph\")",
				},
				"aiFeedbackStyle": map[string]any{
					"type":        "string",
					"description": "Feedback tone/style (e.g., \"Glows and grows\")",
				},
				"gradingNotes": map[string]any{
					"type":        "string",
					"description": "Specific grading or feedback instructions for the AI",
				},
				"revisionOpportunities": map[string]any{
					"type":        "number",
					"description": "Number of revision opportunities students receive",
				},
				"deliveryMode": map[string]any{
					"type":        "string",
					"description": "How feedback is delivered (e.g., \"I'll grade this assignment later with AI assistance\")",
				},
				"sharingPreference": map[string]any{
					"type":        "string",
					"description": "Who has visibility to the assignment (e.g., \"My classroom use only\")",
				},
				"assignToClasses": map[string]any{
					"type":        "array",
					"description": "Classes or sections the assignment should be published to",
					"items":       map[string]any{"type": "string"},
				},
				"disablePasting": map[string]any{
					"type":        "boolean",
					"description": "Whether to prevent students from pasting text into the response field",
				},
				"aiTrainingExamples": map[string]any{
					"type":        "array",
					"description": "Optional exemplar responses to train the AI grader",
					"items":       map[string]any{"type": "string"},
				},
			},
			Required: []string{"title", "gradeLevel", "prompt", "rubric"},
		},
	}
}

const placeholderRow = "_Teacher can adjust during publish_"

// fieldRow renders one builder line. Empty values become a placeholder the
// teacher fills during publish; lists and multi-line values indent under
// the label.
func fieldRow(label string, value any) string {
	switch v := value.(type) {
	case nil:
		return fmt.Sprintf("- **%s:** %s", label, placeholderRow)
	case []string:
		if len(v) == 0 {
			return fmt.Sprintf("- **%s:** %s", label, placeholderRow)
		}
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = "  - " + item
		}
		return fmt.Sprintf("- **%s:**\n%s", label, strings.Join(items, "\n"))
	default:
		s := fmt.Sprintf("%v", v)
		if s == "" {
			return fmt.Sprintf("- **%s:** %s", label, placeholderRow)
		}
		if strings.Contains(s, "\n") {
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				lines[i] = "  " + line
			}
			return fmt.Sprintf("- **%s:**\n%s", label, strings.Join(lines, "\n"))
		}
		return fmt.Sprintf("- **%s:** %s", label, s)
	}
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (t *createEnlightenAssignmentTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	assignmentID := "assign-" + uuid.NewString()

	title := stringArg(args, "title")
	gradeLevel := stringArg(args, "gradeLevel")
	prompt := stringArg(args, "prompt")
	rubric := stringArg(args, "rubric")
	expectedLength := stringArg(args, "expectedLength")

	readings := stringSliceArg(args, "readings")
	if len(readings) == 0 {
		readings = []string{"Core Binti mentor text excerpts"}
	} else {
		for i, reading := range readings {
			readings[i] = fmt.Sprintf("%q", reading)
		}
	}

	trainingExamples := stringSliceArg(args, "aiTrainingExamples")
	if len(trainingExamples) == 0 {
		trainingExamples = []string{"Example 1: _Teacher can paste an exemplar later_"}
	} else {
		for i, example := range trainingExamples {
			trainingExamples[i] = fmt.Sprintf("Example %d: %s", i+1, example)
		}
	}

	assignToClasses := stringSliceArg(args, "assignToClasses")
	if len(assignToClasses) == 0 {
		assignToClasses = []string{"Grade 9 English I - Period 1"}
	}

	revisions := 1.0
	if n, ok := args["revisionOpportunities"].(float64); ok {
		revisions = n
	}
	pasting := "Disabled"
	if b, ok := args["disablePasting"].(bool); ok && b {
		pasting = "Enabled"
	}

	assignmentDetails := strings.Join([]string{
		fieldRow("Assignment title", title),
		fieldRow("Expected submission length", stringOr(expectedLength, "2-3 paragraphs")),
		fieldRow("Grade level", gradeLevel),
		fieldRow("Rubric", rubric),
		fieldRow("Task description and prompt", prompt),
		fieldRow("Readings or reference text", readings),
	}, "\n")

	aiTraining := strings.Join([]string{
		fieldRow("Expected feedback length", stringOr(stringArg(args, "aiFeedbackLength"), "One paragraph")),
		fieldRow("Style of feedback", stringOr(stringArg(args, "aiFeedbackStyle"), "Glows and grows")),
		fieldRow("Specific grading and feedback instructions", stringOr(stringArg(args, "gradingNotes"), "Reference Novel Partners rubric language.")),
		fieldRow("Train your AI with examples", trainingExamples),
	}, "\n")

	publishSettings := strings.Join([]string{
		fieldRow("Who can access this assignment?", stringOr(stringArg(args, "sharingPreference"), "My classroom use only")),
		fieldRow("How would you like to deliver feedback?", stringOr(stringArg(args, "deliveryMode"), "I'll grade this assignment later with AI assistance")),
		fieldRow("How many revision opportunities?", int(revisions)),
		fieldRow("Assign to classes", assignToClasses),
		fieldRow("Disable pasting for students", pasting),
	}, "\n")

	url := "https://enlighten-ai.com/assignments/" + assignmentID
	content := fmt.Sprintf(`# EnlightenAI Assignment Builder

Use the fields below to mirror the Enlighten.ai publish flow. Everything is pre-filled with Novel Partners curriculum context so the teacher can verify and publish in a few clicks.

## Step 1 · Assignment details
%s

## Step 2 · AI training (optional)
%s

## Step 3 · Publish assignment
%s

---
- Assignment URL (demo): %s
- Next action: Open Enlighten.ai, confirm the pre-filled values, then click **Publish assignment**.`,
		assignmentDetails, aiTraining, publishSettings, url)

	artifact := types.Artifact{
		ID:      "enlighten-" + assignmentID,
		Type:    types.ArtifactAssessment,
		Title:   title + " · EnlightenAI Flow",
		Content: content,
		Metadata: map[string]any{
			"course":     stringArg(args, "courseName"),
			"unit":       stringArg(args, "unitTitle"),
			"gradeLevel": gradeLevel,
		},
	}

	return &Result{
		Payload: map[string]any{
			"assignmentId":   assignmentID,
			"status":         "created",
			"title":          title,
			"gradeLevel":     gradeLevel,
			"courseId":       stringArg(args, "courseId"),
			"prompt":         prompt,
			"rubric":         rubric,
			"expectedLength": expectedLength,
			"url":            url,
			"message":        "Assignment created in EnlightenAI (demo mode)",
			"note":           "This is a mock assignment. In production, this would post to the real EnlightenAI API.",
		},
		Artifacts: []types.Artifact{artifact},
	}, nil
}
