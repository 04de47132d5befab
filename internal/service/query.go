package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQuery carries the raw filter parameters and the requested page.
type ListQuery struct {
	Filter map[string]string
	Page   int
	Limit  int
}

// Page is one slice of a filtered listing. Total counts every match.
type Page[T any] struct {
	Total      int64
	PageSize   int
	PageNumber int
	Items      []T
}

// ParsePaging reads page and limit query values, defaulting empty ones.
func ParsePaging(pageRaw, limitRaw string) (page, limit int, err error) {
	page, err = positiveInt("page", pageRaw, DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err = positiveInt("limit", limitRaw, DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if limit > MaxPageSize {
		return 0, 0, apperror.Validation("query limit must not exceed %d", MaxPageSize)
	}
	return page, limit, nil
}

func positiveInt(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperror.Validation("query %s must be a positive integer", name)
	}
	return n, nil
}

func pageWindow(page, limit int) (repository.Page, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if page < 0 || limit < 0 {
		return repository.Page{}, apperror.Validation("page and limit must be positive")
	}
	if limit > MaxPageSize {
		return repository.Page{}, apperror.Validation("limit must not exceed %d", MaxPageSize)
	}
	if page-1 > math.MaxInt/limit {
		return repository.Page{}, apperror.Validation("page %d is out of range", page)
	}
	return repository.Page{Offset: limit * (page - 1), Limit: limit}, nil
}

// acceptedFilter rejects keys outside the allow-list and drops empty values.
func acceptedFilter(raw map[string]string, schema model.Schema) (map[string]string, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, key := range keys {
		if !schema.AllowsFilter(key) {
			return nil, apperror.Validation("query %s is not accepted", key)
		}
		if v := strings.TrimSpace(raw[key]); v != "" {
			out[key] = v
		}
	}
	return out, nil
}

func taskFilter(raw map[string]string) (repository.TaskFilter, error) {
	accepted, err := acceptedFilter(raw, model.TaskSchema)
	if err != nil {
		return repository.TaskFilter{}, err
	}
	filter := repository.TaskFilter{
		Name:   accepted["name"],
		Status: accepted["status"],
	}
	if v, ok := accepted["createdAt"]; ok {
		if filter.CreatedAt, err = parseTimeRange("createdAt", v); err != nil {
			return repository.TaskFilter{}, err
		}
	}
	if v, ok := accepted["updatedAt"]; ok {
		if filter.UpdatedAt, err = parseTimeRange("updatedAt", v); err != nil {
			return repository.TaskFilter{}, err
		}
	}
	return filter, nil
}

func userFilter(raw map[string]string) (repository.UserFilter, error) {
	accepted, err := acceptedFilter(raw, model.UserSchema)
	if err != nil {
		return repository.UserFilter{}, err
	}
	return repository.UserFilter{Name: accepted["name"], Role: accepted["role"]}, nil
}

// parseTimeRange accepts a calendar day (the whole UTC day matches) or an
// RFC3339 instant (the containing second matches).
func parseTimeRange(key, v string) (*repository.TimeRange, error) {
	if day, err := time.Parse(time.DateOnly, v); err == nil {
		return &repository.TimeRange{From: day, To: day.AddDate(0, 0, 1)}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, apperror.Validation("query %s must be a date (YYYY-MM-DD) or an RFC3339 timestamp", key)
	}
	from := ts.UTC().Truncate(time.Second)
	return &repository.TimeRange{From: from, To: from.Add(time.Second)}, nil
}
