/*
Package domain contains the core domain models of the task list.

It defines the entities owned by the State Store and the events it emits. The package is kept
pure and free of I/O or persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Task: A single list item with its text and completion flag.
  - TaskList: The ordered, insertion-order-significant collection of tasks.
  - EditSession: The transient draft of the task currently being edited (at most one).
  - View: A read-only snapshot handed to renderers.
  - NoticeKind: The independent channels of transient validation warnings ("add" and "edit").
*/
package domain
