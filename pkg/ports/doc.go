/*
Package ports defines the driven ports (interfaces) of the task list.

These interfaces decouple the State Store from external implementations, allowing it to work
with various storage backends, clocks and lock providers, and enabling test doubles.

# Key Interfaces

  - Slot: A single named durable key-value slot holding the serialized list (file, Redis, Loam, memory).
  - TaskStore: The Persistence Adapter; loads and saves a whole TaskList.
  - Clock: Schedules the one-shot callbacks that expire transient notices.
  - DistributedLocker: Provides distributed locking when several processes share a slot.
*/
package ports
