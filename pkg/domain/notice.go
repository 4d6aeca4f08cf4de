package domain

import "time"

// NoticeKind identifies an independent transient notice channel.
type NoticeKind string

const (
	NoticeAdd  NoticeKind = "add"
	NoticeEdit NoticeKind = "edit"
)

// DefaultNoticeTTL is how long a notice stays visible without further input.
const DefaultNoticeTTL = 3 * time.Second

// Messages shown for rejected input.
const (
	MsgEmptyAdd  = "Warning: Please enter a valid task before adding."
	MsgEmptyEdit = "Warning: Task cannot be empty."
)

// Message returns the warning text for an empty-input rejection of the given kind.
func (k NoticeKind) Message() string {
	if k == NoticeEdit {
		return MsgEmptyEdit
	}
	return MsgEmptyAdd
}
