package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/shared/constant"
	"lodge/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *bool
	}{
		{name: "empty string", value: "", want: nil},
		{name: "true", value: "true", want: boolPtr(true)},
		{name: "false", value: "false", want: boolPtr(false)},
		{name: "numeric true", value: "1", want: boolPtr(true)},
		{name: "invalid", value: "yes please", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertStringToBool(tt.value)

			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "zero total", total: 0, limit: 10, want: 1},
		{name: "zero limit", total: 25, limit: 0, want: 1},
		{name: "exact division", total: 20, limit: 10, want: 2},
		{name: "rounds up", total: 21, limit: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Number string  `db:"number"`
		Price  float64 `db:"price_per_night"`
		Note   string
	}

	got := TransformFields(update{Number: "101", Price: 150}, "admin@lodge.dev")

	assert.Equal(t, "101", got["number"])
	assert.InDelta(t, 150.0, got["price_per_night"], 0.001)
	assert.Equal(t, "admin@lodge.dev", got[constant.FieldModifiedBy])
	assert.Contains(t, got, constant.FieldModifiedAt)
	assert.NotContains(t, got, "Note")
}

func TestTransformFields_SkipsZeroValues(t *testing.T) {
	type update struct {
		Number string `db:"number"`
		Floor  int    `db:"floor"`
	}

	got := TransformFields(update{Number: "202"}, "admin@lodge.dev")

	assert.Contains(t, got, "number")
	assert.NotContains(t, got, "floor")
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "room", BuildCacheKey("room"))
	assert.Equal(t, "room:abc:def", BuildCacheKey("room", "abc", "def"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "created_at", SortDir: "desc"}
	filter := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
		},
	}

	first := BuildCacheKeyWithQuery("booking", params, filter)
	second := BuildCacheKeyWithQuery("booking", params, filter)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "booking:2:10:created_at:desc")

	params.Page = 3
	assert.NotEqual(t, first, BuildCacheKeyWithQuery("booking", params, filter))
}

func boolPtr(v bool) *bool {
	return &v
}
