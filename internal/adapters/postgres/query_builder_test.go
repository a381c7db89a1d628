package postgres

import (
	"testing"

	"listings-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	two, one := 2, 1
	minArea, maxArea := 100.0, 150.0

	tests := []struct {
		name      string
		query     domain.ListingQuery
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "no constraints",
			query:     domain.ListingQuery{},
			wantWhere: "",
			wantArgs:  []interface{}{},
		},
		{
			name:      "search matches title or description",
			query:     domain.ListingQuery{Search: "loft"},
			wantWhere: "WHERE (pl.title ILIKE $1 OR pl.description ILIKE $1)",
			wantArgs:  []interface{}{"%loft%"},
		},
		{
			name: "all constraints",
			query: domain.ListingQuery{
				Search:        "50%_off",
				PropertyTypes: []string{"apartment", "loft"},
				MinBedrooms:   &two,
				MinBathrooms:  &one,
				MinArea:       &minArea,
				MaxArea:       &maxArea,
			},
			wantWhere: "WHERE (pl.title ILIKE $1 OR pl.description ILIKE $1) AND pl.property_type = ANY($2) " +
				"AND pl.bedrooms >= $3 AND pl.bathrooms >= $4 AND pl.total_area >= $5 AND pl.total_area <= $6",
			wantArgs: []interface{}{`%50\%\_off%`, []string{"apartment", "loft"}, 2, 1, 100.0, 150.0},
		},
		{
			name:      "only upper area bound",
			query:     domain.ListingQuery{MaxArea: &maxArea},
			wantWhere: "WHERE pl.total_area <= $1",
			wantArgs:  []interface{}{150.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := applyFilters(tt.query)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
