/*
Package tasklist implements the State Store: the owner of the in-memory task list and the
pending edit, and the only component that mutates them.

Every mutating operation runs to completion in one call: validate, mutate, persist the whole list
through the injected ports.TaskStore, then notify observers. A successful mutation therefore
results in exactly one write before control returns, and the in-memory and persisted lists are
equal afterwards. If the write fails the mutation is rolled back.

Input is rejected only when it is empty after trimming; accepted text is stored trimmed and
otherwise unchanged. A rejection never mutates the list, never writes, and posts a transient notice of the matching kind ("add" or "edit").

A Store is not safe for concurrent use. Front-ends that serve concurrent callers serialize their
turns through session.Manager.
*/
package tasklist
