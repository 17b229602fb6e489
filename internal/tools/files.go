package tools

import (
	"context"
	"strings"

	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

var resourceToArtifactType = map[types.ResourceType]types.ArtifactType{
	types.ResourceTeacherGuide:   types.ArtifactLessonPlan,
	types.ResourceStudentHandout: types.ArtifactHandout,
	types.ResourceAssessment:     types.ArtifactAssessment,
	types.ResourceSlides:         types.ArtifactDocument,
}

type listFilesTool struct {
	store *curriculum.Store
}

func (t *listFilesTool) Definition() Definition {
	return Definition{
		Name:        "list_files",
		Description: "List curriculum files and folders. Can filter by course, unit, lesson, or file type.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"courseId": map[string]any{"type": "string", "description": "Optional: Filter by course ID"},
				"unitId":   map[string]any{"type": "string", "description": "Optional: Filter by unit ID"},
				"lessonId": map[string]any{"type": "string", "description": "Optional: Filter by lesson ID"},
				"fileType": map[string]any{
					"type":        "string",
					"enum":        []string{"teacher_guide", "student_handout", "assessment", "slides"},
					"description": "Optional: Filter by file type",
				},
			},
		},
	}
}

func (t *listFilesTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	var filtered []types.Resource
	switch {
	case stringArg(args, "lessonId") != "":
		filtered = t.store.ResourcesByLesson(stringArg(args, "lessonId"))
	case stringArg(args, "unitId") != "":
		for _, l := range t.store.LessonsByUnit(stringArg(args, "unitId")) {
			filtered = append(filtered, t.store.ResourcesByLesson(l.ID)...)
		}
	case stringArg(args, "courseId") != "":
		for _, u := range t.store.UnitsByCourse(stringArg(args, "courseId")) {
			for _, l := range t.store.LessonsByUnit(u.ID) {
				filtered = append(filtered, t.store.ResourcesByLesson(l.ID)...)
			}
		}
	default:
		filtered = t.store.Resources()
	}

	if ft := stringArg(args, "fileType"); ft != "" {
		var kept []types.Resource
		for _, r := range filtered {
			if string(r.Type) == ft {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	files := make([]map[string]any, 0, len(filtered))
	for i := range filtered {
		r := filtered[i]
		lesson, unit, course := t.store.Lineage(&r)
		entry := map[string]any{
			"id":       r.ID,
			"title":    r.Title,
			"type":     r.Type,
			"path":     r.Path,
			"headings": r.Headings,
		}
		if lesson != nil {
			entry["lesson"] = lesson.Title
		}
		if unit != nil {
			entry["unit"] = unit.Title
		}
		if course != nil {
			entry["course"] = course.Name
		}
		files = append(files, entry)
	}

	return &Result{Payload: map[string]any{
		"files": files,
		"count": len(files),
	}}, nil
}

type searchFilesTool struct {
	store *curriculum.Store
}

func (t *searchFilesTool) Definition() Definition {
	return Definition{
		Name:        "search_files",
		Description: "Search curriculum files by keyword. Searches titles, headings, and content.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{"type": "string", "description": "Search query"},
				"fileType": map[string]any{
					"type":        "string",
					"enum":        []string{"teacher_guide", "student_handout", "assessment", "slides"},
					"description": "Optional: Filter results by file type",
				},
			},
			Required: []string{"query"},
		},
	}
}

const (
	maxExcerpts       = 3
	excerptLeadChars  = 50
	excerptTotalChars = 150
)

func (t *searchFilesTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query")
	matches := t.store.Search(query)

	if ft := stringArg(args, "fileType"); ft != "" {
		var kept []types.Resource
		for _, r := range matches {
			if string(r.Type) == ft {
				kept = append(kept, r)
			}
		}
		matches = kept
	}

	results := make([]map[string]any, 0, len(matches))
	for i := range matches {
		r := matches[i]
		lesson, unit, _ := t.store.Lineage(&r)
		entry := map[string]any{
			"id":        r.ID,
			"title":     r.Title,
			"type":      r.Type,
			"relevance": "high",
			"excerpts":  excerptLines(r.Content, query),
		}
		if lesson != nil {
			entry["lesson"] = lesson.Title
		}
		if unit != nil {
			entry["unit"] = unit.Title
		}
		results = append(results, entry)
	}

	return &Result{Payload: map[string]any{
		"results": results,
		"count":   len(results),
		"query":   query,
	}}, nil
}

// excerptLines returns up to three matching lines, each clipped to a window
// starting 50 characters before the match and 150 characters long.
func excerptLines(content, query string) []string {
	lowerQuery := strings.ToLower(query)
	out := []string{}
	for _, line := range strings.Split(content, "\n") {
		if len(out) == maxExcerpts {
			break
		}
		idx := strings.Index(strings.ToLower(line), lowerQuery)
		if idx < 0 {
			continue
		}
		start := idx - excerptLeadChars
		if start < 0 {
			start = 0
		}
		end := start + excerptTotalChars
		if end > len(line) {
			end = len(line)
		}
		out = append(out, "..."+line[start:end]+"...")
	}
	return out
}

type openFileTool struct {
	store *curriculum.Store
}

func (t *openFileTool) Definition() Definition {
	return Definition{
		Name:        "open_file",
		Description: "Open and read a curriculum file. Returns the full content with headings.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"fileId":  map[string]any{"type": "string", "description": "The ID of the file to open"},
				"section": map[string]any{"type": "string", "description": "Optional: Specific section heading to focus on"},
			},
			Required: []string{"fileId"},
		},
	}
}

func (t *openFileTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	fileID := stringArg(args, "fileId")
	resource, ok := t.store.ResourceByID(fileID)
	if !ok {
		return &Result{Payload: map[string]any{
			"error":  "File not found",
			"fileId": fileID,
		}}, nil
	}

	lesson, unit, course := t.store.Lineage(resource)

	content := resource.Content
	if section := stringArg(args, "section"); section != "" {
		if sliced, found := sliceSection(content, section); found {
			content = sliced
		}
	}

	payload := map[string]any{
		"id":       resource.ID,
		"title":    resource.Title,
		"type":     resource.Type,
		"path":     resource.Path,
		"headings": resource.Headings,
		"content":  content,
	}
	if lesson != nil {
		payload["lesson"] = lesson.Title
	}
	if unit != nil {
		payload["unit"] = unit.Title
	}
	if course != nil {
		payload["course"] = course.Name
	}

	return &Result{
		Payload:   payload,
		Artifacts: []types.Artifact{resourceArtifact(resource, lesson, unit, course)},
	}, nil
}

// resourceArtifact builds the link/embed artifact shown in the side panel
// when a curriculum file is opened. Content stays empty; the panel renders
// the external preview instead.
func resourceArtifact(r *types.Resource, lesson *types.Lesson, unit *types.Unit, course *types.Course) types.Artifact {
	artifactType, ok := resourceToArtifactType[r.Type]
	if !ok {
		artifactType = types.ArtifactDocument
	}

	externalURL := metadataString(r.Metadata, "googleDocUrl")
	if externalURL == "" {
		externalURL = metadataString(r.Metadata, "externalUrl")
	}
	embedURL := metadataString(r.Metadata, "googleDocEmbedUrl")
	if embedURL == "" {
		embedURL = buildEmbedURL(externalURL)
	}
	if externalURL == "" {
		externalURL = r.Path
	}

	metadata := map[string]any{
		"sourceFileId":   r.ID,
		"sourceFileType": string(r.Type),
	}
	if course != nil {
		metadata["course"] = course.Name
	}
	if unit != nil {
		metadata["unit"] = unit.Title
	}
	if lesson != nil {
		metadata["lesson"] = lesson.Title
	}
	for k, v := range r.Metadata {
		metadata[k] = v
	}

	return types.Artifact{
		ID:          "resource-" + r.ID,
		Type:        artifactType,
		Title:       r.Title,
		Content:     "",
		ExternalURL: externalURL,
		EmbedURL:    embedURL,
		Metadata:    metadata,
	}
}

func metadataString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// buildEmbedURL rewrites a Google share link into its embeddable preview
// form. Unknown link shapes pass through unchanged.
func buildEmbedURL(url string) string {
	if url == "" {
		return ""
	}
	switch {
	case strings.Contains(url, "docs.google.com/document"):
		return rewriteSuffix(url, "/preview")
	case strings.Contains(url, "docs.google.com/presentation"):
		return rewriteSuffix(url, "/embed")
	case strings.Contains(url, "drive.google.com"):
		return rewriteSuffix(url, "/preview")
	default:
		return url
	}
}

func rewriteSuffix(url, replacement string) string {
	if strings.Contains(url, "/preview") {
		return url
	}
	for _, marker := range []string{"/edit", "/view"} {
		if idx := strings.Index(url, marker); idx >= 0 {
			return url[:idx] + replacement
		}
	}
	return url
}

type copySectionTool struct {
	store *curriculum.Store
}

func (t *copySectionTool) Definition() Definition {
	return Definition{
		Name:        "copy_section",
		Description: "Copy exact text from a specific section of a curriculum file. Returns verbatim text.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"fileId":  map[string]any{"type": "string", "description": "The ID of the file"},
				"heading": map[string]any{"type": "string", "description": "The heading/section to copy (e.g., \"Guided Practice\", \"Learning Objectives\")"},
			},
			Required: []string{"fileId", "heading"},
		},
	}
}

func (t *copySectionTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	fileID := stringArg(args, "fileId")
	heading := stringArg(args, "heading")

	resource, ok := t.store.ResourceByID(fileID)
	if !ok {
		return &Result{Payload: map[string]any{
			"error":  "File not found",
			"fileId": fileID,
		}}, nil
	}

	section, found := sliceSection(resource.Content, heading)
	if !found {
		return &Result{Payload: map[string]any{
			"error":             "Section not found",
			"heading":           heading,
			"availableHeadings": resource.Headings,
		}}, nil
	}

	return &Result{Payload: map[string]any{
		"fileId":  fileID,
		"heading": heading,
		"content": section,
		"note":    "This is verbatim text from the curriculum file.",
	}}, nil
}
