package domain

// Task is a single list item.
// ID is an in-memory identifier only; the persisted layout is exactly {text, completed}.
type Task struct {
	ID        string `json:"-"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskList is the ordered collection of tasks. Position is identity.
type TaskList []Task

// Clone returns a deep copy of the list. A nil list clones to an empty, non-nil list.
func (l TaskList) Clone() TaskList {
	out := make(TaskList, len(l))
	copy(out, l)
	return out
}

// Valid reports whether index addresses an element of the list.
func (l TaskList) Valid(index int) bool {
	return index >= 0 && index < len(l)
}

// Equal compares two lists field-for-field on the persisted fields, ignoring IDs.
func (l TaskList) Equal(other TaskList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i].Text != other[i].Text || l[i].Completed != other[i].Completed {
			return false
		}
	}
	return true
}

// EditSession describes the task being edited and its unsaved draft.
type EditSession struct {
	Index int    `json:"index"`
	Draft string `json:"draft"`
}

// View is the read-only snapshot a renderer draws.
type View struct {
	Tasks      TaskList     `json:"tasks"`
	Edit       *EditSession `json:"edit,omitempty"`
	Input      string       `json:"input"`
	AddNotice  string       `json:"add_notice,omitempty"`
	EditNotice string       `json:"edit_notice,omitempty"`
}
