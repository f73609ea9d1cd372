package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

type SubTaskService struct {
	subtasks repo.SubTaskRepository
	tasks    repo.TaskRepository
	pageSize int
	now      func() time.Time
}

func NewSubTaskService(subtasks repo.SubTaskRepository, tasks repo.TaskRepository, pageSize int) *SubTaskService {
	return &SubTaskService{
		subtasks: subtasks,
		tasks:    tasks,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (s *SubTaskService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *SubTaskService) Create(ctx context.Context, caller model.Caller, in SubTaskInput) (model.SubTask, error) {
	if !caller.Authenticated() {
		return model.SubTask{}, ErrUnauthorized
	}
	now := s.clock()

	var ve ValidationError
	checkText(&ve, "title", &in.Title, true, maxTitleLen)
	status, ok := checkStatus(&ve, in.Status)
	if !ok {
		status = model.StatusNew
	}
	deadline := checkDeadline(&ve, in.Deadline, now, true)
	if err := s.checkParent(ctx, &ve, in.Task, true); err != nil {
		return model.SubTask{}, err
	}
	if err := ve.Err(); err != nil {
		return model.SubTask{}, err
	}

	st := model.SubTask{
		Title:       in.Title.Value,
		Description: in.Description.Value,
		TaskID:      in.Task.Value,
		Status:      status,
		Deadline:    deadline,
		CreatedAt:   now,
		OwnerID:     caller.UserID,
	}
	st, err := s.subtasks.CreateSubTask(ctx, st)
	if isNotFound(err) { // parent deleted between the check and the insert
		return st, fieldError("task", invalidPKMsg(in.Task.Value))
	}
	return st, err
}

func (s *SubTaskService) Get(ctx context.Context, caller model.Caller, id int64) (model.SubTask, error) {
	if !caller.Authenticated() {
		return model.SubTask{}, ErrUnauthorized
	}
	return s.subtasks.GetSubTask(ctx, id)
}

func (s *SubTaskService) List(ctx context.Context, caller model.Caller, q url.Values) (pagination.Page[model.SubTask], error) {
	owner, err := ownerScope(caller)
	if err != nil {
		return pagination.Page[model.SubTask]{}, err
	}
	f, err := ParseSubTaskQuery(q)
	if err != nil {
		return pagination.Page[model.SubTask]{}, err
	}
	f.OwnerID = owner
	f.Limit = s.pageSize + 1

	rows, err := s.subtasks.ListSubTasks(ctx, f)
	if err != nil {
		return pagination.Page[model.SubTask]{}, err
	}
	return pagination.Build(rows, s.pageSize, f.Cursor, subTaskKey), nil
}

func (s *SubTaskService) Update(ctx context.Context, caller model.Caller, id int64, in SubTaskInput, partial bool) (model.SubTask, error) {
	method := http.MethodPut
	if partial {
		method = http.MethodPatch
	}
	current, err := s.authorize(ctx, caller, id, method)
	if err != nil {
		return model.SubTask{}, err
	}

	var ve ValidationError
	checkText(&ve, "title", &in.Title, !partial, maxTitleLen)
	status, statusOK := checkStatus(&ve, in.Status)
	deadline := checkDeadline(&ve, in.Deadline, s.clock(), false)
	if err := s.checkParent(ctx, &ve, in.Task, !partial); err != nil {
		return model.SubTask{}, err
	}
	if err := ve.Err(); err != nil {
		return model.SubTask{}, err
	}

	st := current
	st.OwnerID = caller.UserID
	if in.Title.Set {
		st.Title = in.Title.Value
	}
	if in.Description.Set {
		st.Description = in.Description.Value
	}
	if in.Task.Present() {
		st.TaskID = in.Task.Value
	}
	if statusOK {
		st.Status = status
	}
	if in.Deadline.Set {
		st.Deadline = deadline
	}
	return s.subtasks.UpdateSubTask(ctx, st)
}

func (s *SubTaskService) Delete(ctx context.Context, caller model.Caller, id int64) error {
	if _, err := s.authorize(ctx, caller, id, http.MethodDelete); err != nil {
		return err
	}
	return s.subtasks.DeleteSubTask(ctx, id, caller.UserID)
}

func (s *SubTaskService) authorize(ctx context.Context, caller model.Caller, id int64, method string) (model.SubTask, error) {
	if !caller.Authenticated() {
		return model.SubTask{}, ErrUnauthorized
	}
	st, err := s.subtasks.GetSubTask(ctx, id)
	if err != nil {
		return model.SubTask{}, err
	}
	if !CanMutate(st.OwnerID, caller, method) {
		return model.SubTask{}, ErrForbidden
	}
	return st, nil
}

// checkParent verifies the task reference points at an existing task.
func (s *SubTaskService) checkParent(ctx context.Context, ve *ValidationError, f Field[int64], required bool) error {
	switch {
	case !f.Set:
		if required {
			ve.Add("task", requiredMsg)
		}
		return nil
	case f.Null:
		ve.Add("task", nullMsg)
		return nil
	}
	_, err := s.tasks.GetTask(ctx, f.Value)
	if isNotFound(err) {
		ve.Add("task", invalidPKMsg(f.Value))
		return nil
	}
	return err
}

func invalidPKMsg(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}
