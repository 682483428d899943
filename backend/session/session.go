package session

// Session is the explicit state container a view layer owns for the course it
// is currently showing. The tree inside is only ever swapped through the pure
// patch/replace operations, never mutated in place. Sessions belong to a
// single viewer and are not safe for concurrent use.
type Session struct {
	tree *Tree
}

func NewSession(tree *Tree) *Session {
	return &Session{tree: tree}
}

// Tree returns the current projection. Callers compare pointers across calls
// to detect whether anything changed.
func (s *Session) Tree() *Tree {
	return s.tree
}

// Replace swaps in a wholly new projection, used on navigation to another
// course or module.
func (s *Session) Replace(tree *Tree) {
	s.tree = tree
}

// ApplyLessonProgress patches the current tree after a progress write has
// committed. It reports whether the tree actually changed.
func (s *Session) ApplyLessonProgress(lessonID uint, patch LessonPatch) bool {
	next := ApplyLessonProgressPatch(s.tree, lessonID, patch)
	changed := next != s.tree
	s.tree = next
	return changed
}
