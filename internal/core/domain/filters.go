package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Границы слайдера площади по умолчанию: такие значения означают "без ограничения"
const (
	DefaultMinArea = 0.0
	DefaultMaxArea = 300.0
)

// FilterField - имя фильтра, оно же имя query-параметра
type FilterField string

const (
	FieldSearch         FilterField = "search"
	FieldPropertyType   FilterField = "propertyType"
	FieldBedrooms       FilterField = "bedrooms"
	FieldBathrooms      FilterField = "bathrooms"
	FieldMinArea        FilterField = "minArea"
	FieldMaxArea        FilterField = "maxArea"
	FieldAmenities      FilterField = "amenities"
	FieldInfrastructure FilterField = "infrastructure"
)

// FilterSet - набор ограничений поиска. Пустое поле (пустая строка, nil) = без ограничения.
// Множества неупорядочены и без дублей, пустое множество не хранится.
type FilterSet struct {
	Search         string
	PropertyTypes  []string
	Bedrooms       []int
	Bathrooms      []int
	MinArea        *float64
	MaxArea        *float64
	Amenities      []string
	Infrastructure []string
}

// ListingQuery - часть фильтров, которую умеет выполнить сама база
type ListingQuery struct {
	Search        string
	PropertyTypes []string
	MinBedrooms   *int
	MinBathrooms  *int
	MinArea       *float64
	MaxArea       *float64
}

// Clone - глубокая копия, чтобы контроллер и резолвер не делили срезы
func (f FilterSet) Clone() FilterSet {
	out := FilterSet{
		Search:         f.Search,
		PropertyTypes:  slices.Clone(f.PropertyTypes),
		Bedrooms:       slices.Clone(f.Bedrooms),
		Bathrooms:      slices.Clone(f.Bathrooms),
		Amenities:      slices.Clone(f.Amenities),
		Infrastructure: slices.Clone(f.Infrastructure),
	}
	if f.MinArea != nil {
		v := *f.MinArea
		out.MinArea = &v
	}
	if f.MaxArea != nil {
		v := *f.MaxArea
		out.MaxArea = &v
	}
	return out
}

// Normalize приводит набор к каноническому виду: множества отсортированы и без дублей,
// пустые множества и границы площади по умолчанию сброшены в nil.
func (f FilterSet) Normalize() FilterSet {
	out := FilterSet{
		Search:         strings.TrimSpace(f.Search),
		PropertyTypes:  normalizeStrings(f.PropertyTypes),
		Bedrooms:       normalizeInts(f.Bedrooms),
		Bathrooms:      normalizeInts(f.Bathrooms),
		Amenities:      normalizeStrings(f.Amenities),
		Infrastructure: normalizeStrings(f.Infrastructure),
	}
	if f.MinArea != nil && *f.MinArea != DefaultMinArea {
		v := *f.MinArea
		out.MinArea = &v
	}
	if f.MaxArea != nil && *f.MaxArea != DefaultMaxArea {
		v := *f.MaxArea
		out.MaxArea = &v
	}
	return out
}

func normalizeStrings(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func normalizeInts(values []int) []int {
	var out []int
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// IsEmpty - ни одного ограничения
func (f FilterSet) IsEmpty() bool {
	return f.ActiveCount() == 0
}

// ActiveCount - количество заполненных фильтров (счетчик на кнопке "Filters")
func (f FilterSet) ActiveCount() int {
	count := 0
	if f.Search != "" {
		count++
	}
	for _, n := range []int{len(f.PropertyTypes), len(f.Bedrooms), len(f.Bathrooms), len(f.Amenities), len(f.Infrastructure)} {
		if n > 0 {
			count++
		}
	}
	if f.MinArea != nil {
		count++
	}
	if f.MaxArea != nil {
		count++
	}
	return count
}

// Validate проверяет имена флагов и границы площади. Любая ошибка оборачивает ErrInvalidFilter.
func (f FilterSet) Validate() error {
	if err := FlagKindAmenities.Validate(f.Amenities); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if err := FlagKindInfrastructure.Validate(f.Infrastructure); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if f.MinArea != nil && f.MaxArea != nil && *f.MinArea > *f.MaxArea {
		return fmt.Errorf("%w: minArea is greater than maxArea", ErrInvalidFilter)
	}
	return nil
}

// ListingQuery выделяет ограничения для базы. Для комнат берется минимум из выбранных
// порогов: выбор {2,4} означает "не меньше 2".
func (f FilterSet) ListingQuery() ListingQuery {
	return ListingQuery{
		Search:        f.Search,
		PropertyTypes: slices.Clone(f.PropertyTypes),
		MinBedrooms:   minOf(f.Bedrooms),
		MinBathrooms:  minOf(f.Bathrooms),
		MinArea:       f.MinArea,
		MaxArea:       f.MaxArea,
	}
}

func minOf(values []int) *int {
	if len(values) == 0 {
		return nil
	}
	m := slices.Min(values)
	return &m
}

// HasFlagConstraints - есть ли ограничения, которые проверяются только в памяти
func (f FilterSet) HasFlagConstraints() bool {
	return len(f.Amenities) > 0 || len(f.Infrastructure) > 0
}

// MatchesFlags - объявление проходит все ограничения по удобствам и инфраструктуре
func (f FilterSet) MatchesFlags(l *Listing) bool {
	return l.Amenities.HasAll(f.Amenities) && l.Infrastructure.HasAll(f.Infrastructure)
}

// ListingSearchResult - итог поиска: отфильтрованные объявления и их количество
type ListingSearchResult struct {
	Listings []Listing
	Count    int
	Filters  FilterSet
}
