package onlylist_test

import (
	"context"
	"fmt"

	"github.com/aretw0/onlylist"
	"github.com/aretw0/onlylist/pkg/adapters/memory"
	"github.com/aretw0/onlylist/pkg/domain"
)

func Example() {
	ctx := context.Background()
	slot := memory.NewSlot("tasks")

	list, err := onlylist.Open(ctx, slot)
	if err != nil {
		panic(err)
	}
	defer list.Close()

	_ = list.AddTask(ctx, "Buy milk")
	_ = list.ToggleComplete(ctx, 0)

	if err := list.AddTask(ctx, "   "); err != nil {
		fmt.Println(list.Notice(domain.NoticeAdd))
	}

	data, _ := slot.Get(ctx)
	fmt.Println(string(data))
	// Output:
	// Warning: Please enter a valid task before adding.
	// [{"text":"Buy milk","completed":true}]
}

func Example_reopen() {
	ctx := context.Background()
	slot := memory.NewSlot("tasks")

	first, _ := onlylist.Open(ctx, slot)
	_ = first.AddTask(ctx, "A")
	_ = first.AddTask(ctx, "B")
	_ = first.DeleteTask(ctx, 0)
	first.Close()

	second, _ := onlylist.Open(ctx, slot)
	defer second.Close()
	for i, t := range second.Tasks() {
		fmt.Println(i, t.Text, t.Completed)
	}
	// Output:
	// 0 B false
}
