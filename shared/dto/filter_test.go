package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    Filter{Field: "id", Value: "abc", Operator: FilterOperatorEq, Table: "rooms"},
			wantWhere: "rooms.id = :id",
			wantArgs:  map[string]any{"id": "abc"},
		},
		{
			name:      "eq with custom arg name",
			filter:    Filter{ArgName: "room_id", Field: "id", Value: "abc", Operator: FilterOperatorEq},
			wantWhere: "id = :room_id",
			wantArgs:  map[string]any{"room_id": "abc"},
		},
		{
			name:      "less",
			filter:    Filter{Field: "check_in", Value: "2026-09-05", Operator: FilterOperatorLess},
			wantWhere: "check_in < :check_in",
			wantArgs:  map[string]any{"check_in": "2026-09-05"},
		},
		{
			name:      "greater",
			filter:    Filter{Field: "check_out", Value: "2026-09-01", Operator: FilterOperatorGreater},
			wantWhere: "check_out > :check_out",
			wantArgs:  map[string]any{"check_out": "2026-09-01"},
		},
		{
			name:      "in with slice",
			filter:    Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1) ",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "is null",
			filter:    Filter{Field: "deleted_at", Operator: FilterIsNull},
			wantWhere: "deleted_at IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    Filter{Field: "id", Value: "abc", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := FilterGroup{
		Operator: FilterGroupOperatorAnd,
		Filters: []any{
			Filter{Field: "room_id", Value: "r1", Operator: FilterOperatorEq},
			FilterGroup{
				Operator: FilterGroupOperatorOr,
				Filters: []any{
					Filter{Field: "status", Value: "pending", Operator: FilterOperatorEq, ArgName: "status_pending"},
					Filter{Field: "status", Value: "confirmed", Operator: FilterOperatorEq, ArgName: "status_confirmed"},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :status_pending OR status = :status_confirmed))", where)
	assert.Equal(t, map[string]any{
		"room_id":          "r1",
		"status_pending":   "pending",
		"status_confirmed": "confirmed",
	}, args)
}

func TestFilterGroup_GetWhereClause_Empty(t *testing.T) {
	group := FilterGroup{}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilterGroup_GetWhereClause_DefaultsToAnd(t *testing.T) {
	group := FilterGroup{
		Filters: []any{
			Filter{Field: "a", Value: 1, Operator: FilterOperatorEq},
			Filter{Field: "b", Value: 2, Operator: FilterOperatorEq},
		},
	}

	where, _ := group.GetWhereClause()

	assert.Equal(t, "(a = :a AND b = :b)", where)
}
