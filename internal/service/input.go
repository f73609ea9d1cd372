package service

import (
	"bytes"
	"encoding/json"
	"time"
)

// Field is a JSON value that remembers whether the key was present and
// whether it was an explicit null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(b, []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Present reports a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

type TaskInput struct {
	Title       Field[string]    `json:"title"`
	Description Field[string]    `json:"description"`
	Status      Field[string]    `json:"status"`
	Deadline    Field[time.Time] `json:"deadline"`
	Categories  Field[[]string]  `json:"categories"`
}

type SubTaskInput struct {
	Title       Field[string]    `json:"title"`
	Description Field[string]    `json:"description"`
	Task        Field[int64]     `json:"task"`
	Status      Field[string]    `json:"status"`
	Deadline    Field[time.Time] `json:"deadline"`
}

type CategoryInput struct {
	Name Field[string] `json:"name"`
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshInput struct {
	Refresh string `json:"refresh"`
}
