// Package view holds one controller per entity type. A controller owns the
// current list, the active selection, form visibility and mode, and
// sequences the fetch → render → mutate → re-fetch cycles the presentation
// layer drives. Presentation reads controller state and invokes its
// operations; it never talks to the store directly.
package view

import "errors"

// ErrNotEditing is returned by Submit when no form is in progress.
var ErrNotEditing = errors.New("no form in progress")

// ListState is the lifecycle state of a controller's entity list.
type ListState int

const (
	StateIdle ListState = iota
	StateLoading
	StateReady
	StateError
)

func (s ListState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// FormMode distinguishes the create and edit form flows.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Notifier receives user-visible error notifications. Controllers surface
// unrecovered errors through it and leave prior state intact.
type Notifier func(op string, err error)
