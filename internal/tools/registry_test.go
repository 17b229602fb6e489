package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	store, err := curriculum.NewStore()
	require.NoError(t, err)
	return NewRegistry(log, store, nil)
}

func TestDefinitionsCatalogue(t *testing.T) {
	r := newTestRegistry(t)

	var names []string
	for _, d := range r.Definitions() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"list_files",
		"search_files",
		"open_file",
		"copy_section",
		"create_document",
		"update_document",
		"create_enlighten_assignment",
	}, names)
}

func TestExecuteUnknownToolIsFatal(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Execute(context.Background(), "no_such_tool", nil)
	require.Error(t, err)
	var unknown ErrUnknownTool
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_tool", unknown.Name)
}

func TestExecuteMissingRequiredFieldFailsClosed(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Execute(context.Background(), "search_files", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")

	_, err = r.Execute(context.Background(), "copy_section", map[string]any{"fileId": "resource-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heading")
}

func TestListFilesFilters(t *testing.T) {
	r := newTestRegistry(t)

	all, err := r.Execute(context.Background(), "list_files", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Payload["count"])

	byLesson, err := r.Execute(context.Background(), "list_files", map[string]any{"lessonId": "lesson-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, byLesson.Payload["count"])

	byType, err := r.Execute(context.Background(), "list_files", map[string]any{"fileType": "teacher_guide"})
	require.NoError(t, err)
	assert.Equal(t, 2, byType.Payload["count"])

	none, err := r.Execute(context.Background(), "list_files", map[string]any{"lessonId": "lesson-3"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Payload["count"])
}

func TestSearchFilesExcerptBounds(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "search_files", map[string]any{"query": "Binti"})
	require.NoError(t, err)

	results, ok := res.Payload["results"].([]map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, results)

	for _, entry := range results {
		excerpts, ok := entry["excerpts"].([]string)
		require.True(t, ok)
		assert.LessOrEqual(t, len(excerpts), 3)
		for _, e := range excerpts {
			assert.True(t, strings.HasPrefix(e, "..."))
			assert.True(t, strings.HasSuffix(e, "..."))
			// 150-char window plus the surrounding ellipses.
			assert.LessOrEqual(t, len(e), 150+6)
		}
	}
}

func TestOpenFileEmitsLinkArtifact(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "open_file", map[string]any{"fileId": "resource-1"})
	require.NoError(t, err)

	assert.Equal(t, "Lesson 1 Teacher Guide", res.Payload["title"])
	require.Len(t, res.Artifacts, 1)

	a := res.Artifacts[0]
	assert.Equal(t, "resource-resource-1", a.ID)
	assert.Equal(t, types.ArtifactLessonPlan, a.Type)
	assert.Empty(t, a.Content)
	assert.Contains(t, a.ExternalURL, "docs.google.com/document")
	assert.Contains(t, a.EmbedURL, "/preview")
	assert.Equal(t, "resource-1", a.Metadata["sourceFileId"])
}

func TestOpenFileUnknownIDErrorPayload(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "open_file", map[string]any{"fileId": "resource-999"})
	require.NoError(t, err)
	assert.Equal(t, "File not found", res.Payload["error"])
	assert.Equal(t, "resource-999", res.Payload["fileId"])
	assert.Empty(t, res.Artifacts)
}

func TestOpenFileSectionSlice(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "open_file", map[string]any{
		"fileId":  "resource-1",
		"section": "Learning Objectives",
	})
	require.NoError(t, err)

	content, ok := res.Payload["content"].(string)
	require.True(t, ok)
	assert.Contains(t, content, "Learning Objectives")
	assert.NotContains(t, content, "Materials Needed")
}

func TestCopySectionVerbatim(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "copy_section", map[string]any{
		"fileId":  "resource-1",
		"heading": "Warm-Up Activity",
	})
	require.NoError(t, err)
	content, ok := res.Payload["content"].(string)
	require.True(t, ok)
	assert.Contains(t, content, "Quick Write Prompt")
}

func TestCopySectionUnknownHeadingListsAvailable(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "copy_section", map[string]any{
		"fileId":  "resource-1",
		"heading": "zzz-not-a-heading",
	})
	require.NoError(t, err)
	assert.Equal(t, "Section not found", res.Payload["error"])

	available, ok := res.Payload["availableHeadings"].([]string)
	require.True(t, ok)
	assert.Contains(t, available, "Guided Practice")
}

func TestCreateDocumentMintsIDAndArtifact(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "create_document", map[string]any{
		"title":   "ELL Handout",
		"type":    "handout",
		"content": "# Adapted\nbody",
	})
	require.NoError(t, err)

	docID, ok := res.Payload["documentId"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(docID, "doc-"))

	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, docID, res.Artifacts[0].ID)
	assert.Equal(t, types.ArtifactHandout, res.Artifacts[0].Type)
	assert.Equal(t, "ELL Handout", res.Artifacts[0].Title)
}

func TestUpdateDocumentArtifactKeepsIdentity(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "update_document", map[string]any{
		"documentId": "doc-123",
		"content":    "revised body",
	})
	require.NoError(t, err)

	require.Len(t, res.Artifacts, 1)
	a := res.Artifacts[0]
	assert.Equal(t, "doc-123", a.ID)
	assert.Equal(t, "revised body", a.Content)
	assert.Empty(t, a.Title)
	assert.Empty(t, a.Type)
}

func TestEnlightenAssignmentPlaceholders(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "create_enlighten_assignment", map[string]any{
		"title":      "Binti Literary Analysis",
		"gradeLevel": "9",
		"prompt":     "Analyze how Binti's identity evolves.",
		"rubric":     "rubric-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "created", res.Payload["status"])
	url, ok := res.Payload["url"].(string)
	require.True(t, ok)
	assert.Contains(t, url, "enlighten-ai.com/assignments/assign-")

	require.Len(t, res.Artifacts, 1)
	a := res.Artifacts[0]
	assert.Equal(t, types.ArtifactAssessment, a.Type)
	assert.Equal(t, "Binti Literary Analysis · EnlightenAI Flow", a.Title)

	assert.Contains(t, a.Content, "## Step 1 · Assignment details")
	assert.Contains(t, a.Content, "2-3 paragraphs")
	assert.Contains(t, a.Content, "One paragraph")
	assert.Contains(t, a.Content, "Glows and grows")
	assert.Contains(t, a.Content, "Grade 9 English I - Period 1")
	assert.Contains(t, a.Content, "Core Binti mentor text excerpts")
	assert.Contains(t, a.Content, "_Teacher can paste an exemplar later_")
}

func TestEnlightenAssignmentCustomValues(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Execute(context.Background(), "create_enlighten_assignment", map[string]any{
		"title":          "Essay",
		"gradeLevel":     "9",
		"prompt":         "Write about belonging.",
		"rubric":         "rubric-1",
		"expectedLength": "500 words",
		"readings":       []any{"Binti ch. 1", "Binti ch. 2"},
		"disablePasting": true,
	})
	require.NoError(t, err)

	a := res.Artifacts[0]
	assert.Contains(t, a.Content, "500 words")
	assert.Contains(t, a.Content, `"Binti ch. 1"`)
	assert.Contains(t, a.Content, "Disable pasting for students:** Enabled")
	assert.NotContains(t, a.Content, "2-3 paragraphs")
}
