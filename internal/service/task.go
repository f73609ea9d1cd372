package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

type TaskService struct {
	tasks      repo.TaskRepository
	subtasks   repo.SubTaskRepository
	categories repo.CategoryRepository
	pageSize   int
	now        func() time.Time
}

func NewTaskService(tasks repo.TaskRepository, subtasks repo.SubTaskRepository,
	categories repo.CategoryRepository, pageSize int) *TaskService {
	return &TaskService{
		tasks:      tasks,
		subtasks:   subtasks,
		categories: categories,
		pageSize:   pageSize,
		now:        time.Now,
	}
}

// clock returns the current time truncated to what every store keeps.
func (s *TaskService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TaskService) Create(ctx context.Context, caller model.Caller, in TaskInput) (model.Task, error) {
	if !caller.Authenticated() {
		return model.Task{}, ErrUnauthorized
	}
	now := s.clock()

	var ve ValidationError
	checkText(&ve, "title", &in.Title, true, maxTitleLen)
	status, ok := checkStatus(&ve, in.Status)
	if !ok {
		status = model.StatusNew
	}
	deadline := checkDeadline(&ve, in.Deadline, now, true)
	categoryIDs, names, err := s.resolveCategories(ctx, &ve, in.Categories)
	if err != nil {
		return model.Task{}, err
	}
	if err := ve.Err(); err != nil {
		return model.Task{}, err
	}

	// Владелец всегда тот, кто создает
	t := model.Task{
		Title:       in.Title.Value,
		Description: in.Description.Value,
		Status:      status,
		Deadline:    deadline,
		CreatedAt:   now,
		OwnerID:     caller.UserID,
		CategoryIDs: categoryIDs,
		Categories:  names,
	}
	return s.tasks.CreateTask(ctx, t)
}

// Get returns a task with its subtasks. Any authenticated caller may read it.
func (s *TaskService) Get(ctx context.Context, caller model.Caller, id int64) (model.TaskDetail, error) {
	if !caller.Authenticated() {
		return model.TaskDetail{}, ErrUnauthorized
	}
	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return model.TaskDetail{}, err
	}
	subtasks, err := s.subtasks.ListSubTasksOfTask(ctx, id)
	if err != nil {
		return model.TaskDetail{}, err
	}
	return model.TaskDetail{Task: t, SubTasks: subtasks}, nil
}

// List returns one page of the caller's own tasks.
func (s *TaskService) List(ctx context.Context, caller model.Caller, q url.Values) (pagination.Page[model.Task], error) {
	owner, err := ownerScope(caller)
	if err != nil {
		return pagination.Page[model.Task]{}, err
	}
	f, err := ParseTaskQuery(q)
	if err != nil {
		return pagination.Page[model.Task]{}, err
	}
	f.OwnerID = owner
	f.Limit = s.pageSize + 1

	rows, err := s.tasks.ListTasks(ctx, f)
	if err != nil {
		return pagination.Page[model.Task]{}, err
	}
	return pagination.Build(rows, s.pageSize, f.Cursor, taskKey), nil
}

// My returns every task of the caller, newest first, without paging.
func (s *TaskService) My(ctx context.Context, caller model.Caller) ([]model.Task, error) {
	owner, err := ownerScope(caller)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListTasks(ctx, model.TaskFilter{OwnerID: owner})
}

// Update applies a full (PUT) or partial (PATCH) update. Only the owner may do it.
func (s *TaskService) Update(ctx context.Context, caller model.Caller, id int64, in TaskInput, partial bool) (model.Task, error) {
	method := http.MethodPut
	if partial {
		method = http.MethodPatch
	}
	current, err := s.authorize(ctx, caller, id, method)
	if err != nil {
		return model.Task{}, err
	}

	var ve ValidationError
	checkText(&ve, "title", &in.Title, !partial, maxTitleLen)
	status, statusOK := checkStatus(&ve, in.Status)
	deadline := checkDeadline(&ve, in.Deadline, s.clock(), false)
	categoryIDs, names, err := s.resolveCategories(ctx, &ve, in.Categories)
	if err != nil {
		return model.Task{}, err
	}
	if err := ve.Err(); err != nil {
		return model.Task{}, err
	}

	t := current
	t.OwnerID = caller.UserID
	t.CategoryIDs = nil
	if in.Title.Set {
		t.Title = in.Title.Value
	}
	if in.Description.Set {
		t.Description = in.Description.Value
	}
	if statusOK {
		t.Status = status
	}
	if in.Deadline.Set {
		t.Deadline = deadline
	}
	if in.Categories.Set {
		t.CategoryIDs, t.Categories = categoryIDs, names
	}
	return s.tasks.UpdateTask(ctx, t)
}

// Delete removes the task together with its subtasks.
func (s *TaskService) Delete(ctx context.Context, caller model.Caller, id int64) error {
	if _, err := s.authorize(ctx, caller, id, http.MethodDelete); err != nil {
		return err
	}
	return s.tasks.DeleteTask(ctx, id, caller.UserID)
}

// Stats aggregates the caller's tasks.
func (s *TaskService) Stats(ctx context.Context, caller model.Caller) (model.TaskStats, error) {
	owner, err := ownerScope(caller)
	if err != nil {
		return model.TaskStats{}, err
	}
	return s.tasks.TaskStats(ctx, owner, s.clock())
}

// authorize loads the current owner and checks it against the caller, so a
// missing task is reported as not found and a foreign one as forbidden.
func (s *TaskService) authorize(ctx context.Context, caller model.Caller, id int64, method string) (model.Task, error) {
	if !caller.Authenticated() {
		return model.Task{}, ErrUnauthorized
	}
	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !CanMutate(t.OwnerID, caller, method) {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

// resolveCategories maps names to active categories. Unknown or deleted
// names are reported on the categories field.
func (s *TaskService) resolveCategories(ctx context.Context, ve *ValidationError, f Field[[]string]) ([]int64, []string, error) {
	if !f.Set {
		return nil, nil, nil
	}
	if f.Null {
		ve.Add("categories", nullMsg)
		return nil, nil, nil
	}
	ids := make([]int64, 0, len(f.Value))
	names := make([]string, 0, len(f.Value))
	if len(f.Value) == 0 {
		return ids, names, nil
	}

	found, err := s.categories.FindActiveByNames(ctx, f.Value)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve categories: %w", err)
	}
	byName := make(map[string]model.Category, len(found))
	for _, c := range found {
		byName[c.Name] = c
	}
	seen := make(map[int64]bool)
	for _, name := range f.Value {
		c, ok := byName[name]
		if !ok {
			ve.Add("categories", fmt.Sprintf("Object with name=%s does not exist.", name))
			continue
		}
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
			names = append(names, c.Name)
		}
	}
	return ids, names, nil
}

func taskKey(t model.Task) (time.Time, int64) { return t.CreatedAt, t.ID }

func subTaskKey(st model.SubTask) (time.Time, int64) { return st.CreatedAt, st.ID }

func isNotFound(err error) bool { return errors.Is(err, repo.ErrorNotFound) }
