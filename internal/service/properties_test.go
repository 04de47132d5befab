package service_test

import (
	"context"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/service"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"pgregory.net/rapid"
)

var allStatuses = []model.TaskStatus{
	model.StatusPending,
	model.StatusWorking,
	model.StatusReview,
	model.StatusDone,
	model.StatusArchive,
}

// checkAssignments verifies that Task.Assignee and User.Tasks mirror each other.
func checkAssignments(t *rapid.T, store *memStore) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, task := range store.tasks {
		if task.Assignee == nil {
			continue
		}
		if task.IsDeleted {
			t.Fatalf("deleted task %s still has assignee %s", task.ID, *task.Assignee)
		}
		user := store.users[*task.Assignee]
		if !user.HasTask(task.ID) {
			t.Fatalf("task %s assigned to %s but missing from user's tasks %v", task.ID, user.ID, user.Tasks)
		}
	}
	for _, user := range store.users {
		seen := map[string]bool{}
		for _, id := range user.Tasks {
			if seen[id] {
				t.Fatalf("user %s lists task %s twice", user.ID, id)
			}
			seen[id] = true
			task := store.tasks[id]
			if task.AssigneeID() != user.ID {
				t.Fatalf("user %s lists task %s assigned to %q", user.ID, id, task.AssigneeID())
			}
		}
	}
}

func TestTaskService_AssignmentInvariantHolds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := newMemStore()
		logger, _ := logtest.NewNullLogger()
		svc := service.NewTaskService(store.Tasks(), store.Users(), store, logger, nil)
		ctx := context.Background()

		var taskIDs, userIDs []string
		for i := 0; i < 3; i++ {
			userIDs = append(userIDs, store.addUser("user", model.RoleEmployee).ID)
		}
		for i := 0; i < 4; i++ {
			taskIDs = append(taskIDs, store.addTask("task", model.StatusPending).ID)
		}

		t.Repeat(map[string]func(*rapid.T){
			"assign": func(t *rapid.T) {
				taskID := rapid.SampledFrom(taskIDs).Draw(t, "task")
				userID := rapid.SampledFrom(userIDs).Draw(t, "user")
				_, _ = svc.Update(ctx, taskID, service.Payload{"assignee": userID})
			},
			"unassign": func(t *rapid.T) {
				taskID := rapid.SampledFrom(taskIDs).Draw(t, "task")
				_, _ = svc.Update(ctx, taskID, service.Payload{"removeAssignee": "yes"})
			},
			"status": func(t *rapid.T) {
				taskID := rapid.SampledFrom(taskIDs).Draw(t, "task")
				status := rapid.SampledFrom(allStatuses).Draw(t, "status")
				_, _ = svc.Update(ctx, taskID, service.Payload{"status": string(status)})
			},
			"create": func(t *rapid.T) {
				in := service.CreateTaskInput{Name: "new", Description: "new task"}
				if rapid.Bool().Draw(t, "assigned") {
					in.Assignee = rapid.SampledFrom(userIDs).Draw(t, "user")
				}
				if view, err := svc.Create(ctx, in); err == nil {
					taskIDs = append(taskIDs, view.Task.ID)
				}
			},
			"delete": func(t *rapid.T) {
				taskID := rapid.SampledFrom(taskIDs).Draw(t, "task")
				_, _ = svc.Delete(ctx, taskID)
			},
			"": func(t *rapid.T) {
				checkAssignments(t, store)
			},
		})
	})
}

func TestTaskService_StatusMachine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := newMemStore()
		logger, _ := logtest.NewNullLogger()
		svc := service.NewTaskService(store.Tasks(), store.Users(), store, logger, nil)

		from := rapid.SampledFrom(allStatuses).Draw(t, "from")
		to := rapid.SampledFrom(allStatuses).Draw(t, "to")
		task := store.addTask("task", from)

		_, err := svc.Update(context.Background(), task.ID, service.Payload{"status": string(to)})

		allowed := from != to && from != model.StatusArchive && (from != model.StatusDone || to == model.StatusArchive)
		if allowed != (err == nil) {
			t.Fatalf("%s -> %s: allowed=%v err=%v", from, to, allowed, err)
		}
		want := from
		if allowed {
			want = to
		}
		if got := store.task(task.ID).Status; got != want {
			t.Fatalf("%s -> %s: stored status %s, want %s", from, to, got, want)
		}
	})
}

func TestTaskService_PaginationWindow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := newMemStore()
		logger, _ := logtest.NewNullLogger()
		svc := service.NewTaskService(store.Tasks(), store.Users(), store, logger, nil)

		n := rapid.IntRange(1, 30).Draw(t, "tasks")
		var ids []string
		for i := 0; i < n; i++ {
			ids = append(ids, store.addTask("task", model.StatusPending).ID)
		}
		page := rapid.IntRange(1, 8).Draw(t, "page")
		limit := rapid.IntRange(1, 12).Draw(t, "limit")

		result, err := svc.List(context.Background(), service.ListQuery{Page: page, Limit: limit})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if result.Total != int64(n) || result.PageNumber != page || result.PageSize != limit {
			t.Fatalf("meta = %d/%d/%d, want %d/%d/%d", result.Total, result.PageNumber, result.PageSize, n, page, limit)
		}

		start := (page - 1) * limit
		var want []string
		if start < n {
			want = ids[start:min(start+limit, n)]
		}
		if len(result.Items) != len(want) {
			t.Fatalf("got %d items, want %d", len(result.Items), len(want))
		}
		for i, item := range result.Items {
			if item.Task.ID != want[i] {
				t.Fatalf("item %d = %s, want %s", i, item.Task.ID, want[i])
			}
		}
	})
}
