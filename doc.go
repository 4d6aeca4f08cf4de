/*
Package onlylist is a single-user, locally persisted task list.

The list is an ordered sequence of tasks, each with a text and a completion flag, addressed by
position. Every successful change is written through to a single storage slot as a JSON array of
{"text", "completed"} objects, and the list is restored from that slot when it is opened.
Empty input is refused with a short-lived warning that clears itself after a few seconds.

# Architecture

The core is split into small packages so front-ends never touch storage directly:

  - pkg/tasklist: the State Store. Owns the list, the single edit session and the add input.
  - pkg/persistence: the Persistence Adapter. Encodes the whole list into one Slot.
  - pkg/notice: per-kind transient notices with cancel-and-reschedule expiry.
  - pkg/adapters: Slot implementations (file, memory, redis, loam) and front-ends (http, mcp).

# Usage

	ctx := context.Background()
	list, err := onlylist.Open(ctx, file.New(".onlylist", "tasks"))
	if err != nil {
		log.Fatal(err)
	}
	defer list.Close()

	if err := list.AddTask(ctx, "Buy milk"); err != nil {
		log.Println(list.Notice(domain.NoticeAdd))
	}
	_ = list.ToggleComplete(ctx, 0)

Renderers observe the Store through LifecycleHooks: OnChange fires after a change has been
persisted, OnNotice whenever a warning appears or expires.
*/
package onlylist
