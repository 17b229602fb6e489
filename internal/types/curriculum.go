package types

// Course is the top level of the curriculum hierarchy.
type Course struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Grade string `json:"grade" yaml:"grade"`
}

type Unit struct {
	ID         string   `json:"id" yaml:"id"`
	CourseID   string   `json:"courseId" yaml:"courseId"`
	Number     int      `json:"number" yaml:"number"`
	Title      string   `json:"title" yaml:"title"`
	Objectives []string `json:"objectives" yaml:"objectives"`
	Standards  []string `json:"standards" yaml:"standards"`
}

type Lesson struct {
	ID     string `json:"id" yaml:"id"`
	UnitID string `json:"unitId" yaml:"unitId"`
	Number int    `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
}

// ResourceType tags a curriculum file.
type ResourceType string

const (
	ResourceTeacherGuide   ResourceType = "teacher_guide"
	ResourceStudentHandout ResourceType = "student_handout"
	ResourceAssessment     ResourceType = "assessment"
	ResourceSlides         ResourceType = "slides"
)

// Resource is a single curriculum file. Content is markdown-ish plain text;
// Headings mirrors the top-level section headings inside Content. Metadata is
// open-ended and may carry external document links (googleDocUrl,
// googleDocEmbedUrl).
type Resource struct {
	ID       string         `json:"id" yaml:"id"`
	LessonID string         `json:"lessonId" yaml:"lessonId"`
	Type     ResourceType   `json:"type" yaml:"type"`
	Title    string         `json:"title" yaml:"title"`
	Path     string         `json:"path" yaml:"path"`
	Content  string         `json:"content" yaml:"content"`
	Headings []string       `json:"headings" yaml:"headings"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type Rubric struct {
	ID       string            `json:"id" yaml:"id"`
	CourseID string            `json:"courseId" yaml:"courseId"`
	Name     string            `json:"name" yaml:"name"`
	Criteria []RubricCriterion `json:"criteria" yaml:"criteria"`
}

type RubricCriterion struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Levels      []RubricLevel `json:"levels" yaml:"levels"`
}

type RubricLevel struct {
	Score       int    `json:"score" yaml:"score"`
	Description string `json:"description" yaml:"description"`
}
