package repo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
)

// ListParams selects a page of rows. StartRow rows are skipped, then at most
// EndRow rows are returned; zero or negative values disable either step.
type ListParams struct {
	StartRow int            `json:"startRow"`
	EndRow   int            `json:"endRow"`
	Filters  map[string]any `json:"filters"`
}

func checkParams(p *ListParams) error {
	if p == nil {
		return fmt.Errorf("list parameters: %w", apperr.ErrArgumentNull)
	}
	return nil
}

// Filter looks a filter up ignoring key case.
func (p *ListParams) Filter(key string) (any, bool) {
	for k, v := range p.Filters {
		if strings.EqualFold(k, key) && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (p *ListParams) StringFilter(key string) (string, bool) {
	v, ok := p.Filter(key)
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

func (p *ListParams) Int64Filter(key string) (int64, bool) {
	v, ok := p.Filter(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func (p *ListParams) paginate(q *gorm.DB) *gorm.DB {
	if p.StartRow > 0 {
		q = q.Offset(p.StartRow)
	}
	if p.EndRow > 0 {
		q = q.Limit(p.EndRow)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFold adds a case-insensitive substring match on column.
func containsFold(q *gorm.DB, column, value string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	return q.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
}

func notFound(entity string, id int64) error {
	return apperr.NotFound(entity, id)
}
