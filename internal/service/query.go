package service

import (
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
)

// Query parameter names understood by list endpoints.
const (
	ParamStatus    = "status"
	ParamDeadline  = "deadline"
	ParamDay       = "day"
	ParamTaskTitle = "task_title"
	ParamSearch    = "search"
	ParamOrdering  = "ordering"
	ParamCursor    = "cursor"
)

const (
	invalidStatusMsg = "Invalid status. Use: New, In progress, Pending, Blocked, Done"
	invalidDayMsg    = "Invalid day. Use: Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday"
	invalidDateMsg   = "Enter a valid date/time."
	invalidCursorMsg = "Invalid cursor"
)

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseTaskQuery turns task list query parameters into a filter.
// Owner scope and limit are left to the caller.
func ParseTaskQuery(q url.Values) (model.TaskFilter, error) {
	var (
		f  model.TaskFilter
		ve ValidationError
	)
	f.Status = parseStatusParam(q, &ve)
	f.Deadline = parseDeadlineParam(q, &ve)
	if day := strings.TrimSpace(q.Get(ParamDay)); day != "" {
		wd, ok := weekdays[capitalize(day)]
		if ok {
			f.Weekday = &wd
		} else {
			ve.Add(ParamDay, invalidDayMsg)
		}
	}
	f.Search = strings.TrimSpace(q.Get(ParamSearch))
	f.Ascending = parseAscending(q)
	f.Cursor = parseCursorParam(q, &ve)
	return f, ve.Err()
}

func ParseSubTaskQuery(q url.Values) (model.SubTaskFilter, error) {
	var (
		f  model.SubTaskFilter
		ve ValidationError
	)
	f.Status = parseStatusParam(q, &ve)
	f.Deadline = parseDeadlineParam(q, &ve)
	f.TaskTitle = strings.TrimSpace(q.Get(ParamTaskTitle))
	f.Search = strings.TrimSpace(q.Get(ParamSearch))
	f.Ascending = parseAscending(q)
	f.Cursor = parseCursorParam(q, &ve)
	return f, ve.Err()
}

func parseStatusParam(q url.Values, ve *ValidationError) *model.Status {
	raw := q.Get(ParamStatus)
	if raw == "" {
		return nil
	}
	st, ok := model.ParseStatus(raw)
	if !ok {
		ve.Add(ParamStatus, invalidStatusMsg)
		return nil
	}
	return &st
}

func parseDeadlineParam(q url.Values, ve *ValidationError) *time.Time {
	raw := strings.TrimSpace(q.Get(ParamDeadline))
	if raw == "" {
		return nil
	}
	if len(raw) > 19 && raw[19] == ' ' { // unescaped "+hh:mm" arrives as a space
		raw = raw[:19] + "+" + raw[20:]
	}
	t, ok := parseTime(raw)
	if !ok {
		ve.Add(ParamDeadline, invalidDateMsg)
		return nil
	}
	return &t
}

func parseCursorParam(q url.Values, ve *ValidationError) *pagination.Cursor {
	raw := q.Get(ParamCursor)
	if raw == "" {
		return nil
	}
	c, err := pagination.Decode(raw)
	if err != nil {
		ve.Add(ParamCursor, invalidCursorMsg)
		return nil
	}
	return c
}

// parseAscending reads ordering=created_at; anything else keeps newest first.
func parseAscending(q url.Values) bool {
	return strings.TrimSpace(q.Get(ParamOrdering)) == "created_at"
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and a few zone-less forms, which are taken as UTC.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}
