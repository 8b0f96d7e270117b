package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/example/task-management-app/events"
)

func TestFeed_AppendAndList(t *testing.T) {
	feed := NewFeed(3)

	for i := 1; i <= 5; i++ {
		feed.Append("alice", Entry{TaskID: fmt.Sprintf("t%d", i)})
	}
	feed.Append("bob", Entry{TaskID: "b1"})

	got := feed.List("alice")
	want := []string{"t5", "t4", "t3"}
	if len(got) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].TaskID != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i].TaskID, want[i])
		}
	}

	if len(feed.List("bob")) != 1 {
		t.Errorf("bob's feed should have 1 entry")
	}
	if len(feed.List("carol")) != 0 {
		t.Errorf("unknown owner should have no entries")
	}
	if feed.Owners() != 2 {
		t.Errorf("Owners() = %d, want 2", feed.Owners())
	}
}

func TestActivityModule_EventsAreOwnerScoped(t *testing.T) {
	m := NewModule(10)
	ctx := context.Background()
	now := time.Now()

	if err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{TaskID: "t1", OwnerID: "alice", Title: "buy milk", CreatedAt: now}, nil); err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}
	if err := m.handleTaskStatusChanged(ctx, events.TaskStatusChangedEvent{TaskID: "t1", OwnerID: "alice", Status: "DONE", ChangedAt: now}, nil); err != nil {
		t.Fatalf("handleTaskStatusChanged() error = %v", err)
	}
	if err := m.handleTaskDeleted(ctx, events.TaskDeletedEvent{TaskID: "t9", OwnerID: "bob", DeletedAt: now}, nil); err != nil {
		t.Fatalf("handleTaskDeleted() error = %v", err)
	}

	resp, err := m.listActivity(ctx, ListActivityRequest{OwnerID: "alice"}, nil)
	if err != nil {
		t.Fatalf("listActivity() error = %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2", resp.Total)
	}
	if resp.Entries[0].Kind != "task_status_changed" || resp.Entries[1].Kind != "task_created" {
		t.Errorf("Entries = %+v", resp.Entries)
	}

	if _, err := m.listActivity(ctx, ListActivityRequest{}, nil); err == nil {
		t.Error("listActivity() without owner should fail")
	}
}
