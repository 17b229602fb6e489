package curriculum

import (
	"fmt"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/novelpartners/curriculum-assistant/internal/types"
)

//go:embed seed.yaml
var seedYAML []byte

// Store is the read-only curriculum catalog. It is populated once at process
// start and never mutated afterwards, so concurrent reads need no locking.
type Store struct {
	courses   []types.Course
	units     []types.Unit
	lessons   []types.Lesson
	resources []types.Resource
	rubrics   []types.Rubric

	courseByID   map[string]*types.Course
	unitByID     map[string]*types.Unit
	lessonByID   map[string]*types.Lesson
	resourceByID map[string]*types.Resource
}

type seedFile struct {
	Courses   []types.Course   `yaml:"courses"`
	Units     []types.Unit     `yaml:"units"`
	Lessons   []types.Lesson   `yaml:"lessons"`
	Resources []types.Resource `yaml:"resources"`
	Rubrics   []types.Rubric   `yaml:"rubrics"`
}

// NewStore loads the embedded seed dataset.
func NewStore() (*Store, error) {
	return newStoreFromYAML(seedYAML)
}

func newStoreFromYAML(raw []byte) (*Store, error) {
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode curriculum seed: %w", err)
	}

	s := &Store{
		courses:      seed.Courses,
		units:        seed.Units,
		lessons:      seed.Lessons,
		resources:    seed.Resources,
		rubrics:      seed.Rubrics,
		courseByID:   make(map[string]*types.Course, len(seed.Courses)),
		unitByID:     make(map[string]*types.Unit, len(seed.Units)),
		lessonByID:   make(map[string]*types.Lesson, len(seed.Lessons)),
		resourceByID: make(map[string]*types.Resource, len(seed.Resources)),
	}
	for i := range s.courses {
		s.courseByID[s.courses[i].ID] = &s.courses[i]
	}
	for i := range s.units {
		s.unitByID[s.units[i].ID] = &s.units[i]
	}
	for i := range s.lessons {
		s.lessonByID[s.lessons[i].ID] = &s.lessons[i]
	}
	for i := range s.resources {
		s.resourceByID[s.resources[i].ID] = &s.resources[i]
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// validate enforces the containment invariant: every resource belongs to a
// lesson, every lesson to a unit, every unit to a course.
func (s *Store) validate() error {
	for _, u := range s.units {
		if _, ok := s.courseByID[u.CourseID]; !ok {
			return fmt.Errorf("unit %s references unknown course %s", u.ID, u.CourseID)
		}
	}
	for _, l := range s.lessons {
		if _, ok := s.unitByID[l.UnitID]; !ok {
			return fmt.Errorf("lesson %s references unknown unit %s", l.ID, l.UnitID)
		}
	}
	for _, r := range s.resources {
		if _, ok := s.lessonByID[r.LessonID]; !ok {
			return fmt.Errorf("resource %s references unknown lesson %s", r.ID, r.LessonID)
		}
	}
	for _, rb := range s.rubrics {
		if _, ok := s.courseByID[rb.CourseID]; !ok {
			return fmt.Errorf("rubric %s references unknown course %s", rb.ID, rb.CourseID)
		}
	}
	return nil
}

func (s *Store) Courses() []types.Course     { return s.courses }
func (s *Store) Units() []types.Unit         { return s.units }
func (s *Store) Lessons() []types.Lesson     { return s.lessons }
func (s *Store) Resources() []types.Resource { return s.resources }
func (s *Store) Rubrics() []types.Rubric     { return s.rubrics }

func (s *Store) CourseByID(id string) (*types.Course, bool) {
	c, ok := s.courseByID[id]
	return c, ok
}

func (s *Store) UnitByID(id string) (*types.Unit, bool) {
	u, ok := s.unitByID[id]
	return u, ok
}

func (s *Store) LessonByID(id string) (*types.Lesson, bool) {
	l, ok := s.lessonByID[id]
	return l, ok
}

func (s *Store) ResourceByID(id string) (*types.Resource, bool) {
	r, ok := s.resourceByID[id]
	return r, ok
}

func (s *Store) UnitsByCourse(courseID string) []types.Unit {
	var out []types.Unit
	for _, u := range s.units {
		if u.CourseID == courseID {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) LessonsByUnit(unitID string) []types.Lesson {
	var out []types.Lesson
	for _, l := range s.lessons {
		if l.UnitID == unitID {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) ResourcesByLesson(lessonID string) []types.Resource {
	var out []types.Resource
	for _, r := range s.resources {
		if r.LessonID == lessonID {
			out = append(out, r)
		}
	}
	return out
}

// Lineage resolves the lesson/unit/course chain a resource hangs off.
// Missing links come back nil rather than erroring; the store validated the
// chain at load, so nil only happens for a nil resource.
func (s *Store) Lineage(r *types.Resource) (*types.Lesson, *types.Unit, *types.Course) {
	if r == nil {
		return nil, nil, nil
	}
	lesson := s.lessonByID[r.LessonID]
	var unit *types.Unit
	var course *types.Course
	if lesson != nil {
		unit = s.unitByID[lesson.UnitID]
	}
	if unit != nil {
		course = s.courseByID[unit.CourseID]
	}
	return lesson, unit, course
}

// Search matches the query case-insensitively against resource titles,
// content and headings.
func (s *Store) Search(query string) []types.Resource {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []types.Resource
	for _, r := range s.resources {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Content), q) ||
			headingsMatch(r.Headings, q) {
			out = append(out, r)
		}
	}
	return out
}

func headingsMatch(headings []string, lowerQuery string) bool {
	for _, h := range headings {
		if strings.Contains(strings.ToLower(h), lowerQuery) {
			return true
		}
	}
	return false
}
