// Package session holds the per-viewing-session projection of a course: the
// course -> module -> content tree the UI renders from, patched in place as
// progress events commit instead of refetching the whole course.
package session

import (
	"sort"
	"time"

	"project/backend/models"
)

// LessonState is the progress projection carried on a lesson leaf.
type LessonState struct {
	Status         string     `json:"status"`
	WatchedSeconds int        `json:"watched_seconds"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Content is one leaf of a module: a lesson (with its progress projection), a
// reading, or a quiz pointer.
type Content struct {
	ID       uint        `json:"id"`
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	QuizID   uint        `json:"quiz_id,omitempty"`
	Progress LessonState `json:"progress"`
}

type Module struct {
	ID       uint       `json:"id"`
	Title    string     `json:"title"`
	Contents []*Content `json:"contents"`
}

// Tree is the immutable course projection. Patching produces a new tree that
// shares every node outside the patched path, so consumers can detect change
// with pointer equality.
type Tree struct {
	CourseID uint      `json:"course_id"`
	Title    string    `json:"title"`
	Modules  []*Module `json:"modules"`
}

// LessonPatch is a shallow merge into a lesson's progress projection. Nil
// fields are left as they are.
type LessonPatch struct {
	Status         *string
	WatchedSeconds *int
	CompletedAt    *time.Time
}

// BuildTree projects a loaded course and the user's lesson progress rows into
// a fresh tree. Modules and contents come out in sequence order.
func BuildTree(course *models.Course, progresses []models.LessonProgress) *Tree {
	byLesson := make(map[uint]*models.LessonProgress, len(progresses))
	for i := range progresses {
		byLesson[progresses[i].LessonID] = &progresses[i]
	}

	tree := &Tree{
		CourseID: course.ID,
		Title:    course.Title,
		Modules:  make([]*Module, 0, len(course.Modules)),
	}

	modules := make([]models.CourseModule, len(course.Modules))
	copy(modules, course.Modules)
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].SequenceOrder < modules[j].SequenceOrder
	})

	for _, m := range modules {
		module := &Module{
			ID:       m.ID,
			Title:    m.Title,
			Contents: make([]*Content, 0, len(m.Contents)),
		}

		contents := make([]models.ContentItem, len(m.Contents))
		copy(contents, m.Contents)
		sort.SliceStable(contents, func(i, j int) bool {
			return contents[i].SequenceOrder < contents[j].SequenceOrder
		})

		for _, item := range contents {
			content := &Content{
				ID:     item.ID,
				Type:   item.Type,
				Title:  item.Title,
				QuizID: item.QuizID,
				Progress: LessonState{
					Status: models.StatusNotStarted,
				},
			}
			if item.Type == models.ContentLesson {
				if p, ok := byLesson[item.ID]; ok {
					content.Progress = LessonState{
						Status:         p.Status,
						WatchedSeconds: p.WatchedSeconds,
						CompletedAt:    p.CompletedAt,
					}
				}
			}
			module.Contents = append(module.Contents, content)
		}
		tree.Modules = append(tree.Modules, module)
	}

	return tree
}

// ApplyLessonProgressPatch returns a tree where only the lesson leaf matching
// lessonID carries the merged progress. Siblings and unrelated modules are the
// same nodes as in the input. An unknown lessonID returns the input tree
// unchanged, which covers patches arriving against a stale view.
func ApplyLessonProgressPatch(tree *Tree, lessonID uint, patch LessonPatch) *Tree {
	if tree == nil {
		return nil
	}

	for mi, module := range tree.Modules {
		for ci, content := range module.Contents {
			if content.ID != lessonID || content.Type != models.ContentLesson {
				continue
			}

			patched := *content
			if patch.Status != nil {
				patched.Progress.Status = *patch.Status
			}
			if patch.WatchedSeconds != nil {
				patched.Progress.WatchedSeconds = *patch.WatchedSeconds
			}
			if patch.CompletedAt != nil {
				patched.Progress.CompletedAt = patch.CompletedAt
			}

			newContents := make([]*Content, len(module.Contents))
			copy(newContents, module.Contents)
			newContents[ci] = &patched

			newModule := *module
			newModule.Contents = newContents

			newModules := make([]*Module, len(tree.Modules))
			copy(newModules, tree.Modules)
			newModules[mi] = &newModule

			newTree := *tree
			newTree.Modules = newModules
			return &newTree
		}
	}

	return tree
}

// FindLesson locates the lesson leaf with the given id, or nil.
func (t *Tree) FindLesson(lessonID uint) *Content {
	if t == nil {
		return nil
	}
	for _, module := range t.Modules {
		for _, content := range module.Contents {
			if content.ID == lessonID && content.Type == models.ContentLesson {
				return content
			}
		}
	}
	return nil
}

// FindModule locates a module by id, or nil.
func (t *Tree) FindModule(moduleID uint) *Module {
	if t == nil {
		return nil
	}
	for _, module := range t.Modules {
		if module.ID == moduleID {
			return module
		}
	}
	return nil
}
