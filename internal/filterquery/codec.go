// Package filterquery переводит набор фильтров в query-строку адреса и обратно.
// Одни и те же функции используют контроллер фильтров и HTTP-обработчик.
package filterquery

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"listings-service/internal/core/domain"
)

const listSeparator = ","

// Encode сериализует набор: каждое множество - один параметр со значениями через запятую,
// границы площади только если они отличаются от значений по умолчанию.
// Пустые поля в результат не попадают.
func Encode(filters domain.FilterSet) url.Values {
	f := filters.Normalize()
	values := url.Values{}

	if f.Search != "" {
		values.Set(string(domain.FieldSearch), f.Search)
	}
	setList(values, domain.FieldPropertyType, f.PropertyTypes)
	setList(values, domain.FieldBedrooms, intsToStrings(f.Bedrooms))
	setList(values, domain.FieldBathrooms, intsToStrings(f.Bathrooms))
	if f.MinArea != nil {
		values.Set(string(domain.FieldMinArea), formatNumber(*f.MinArea))
	}
	if f.MaxArea != nil {
		values.Set(string(domain.FieldMaxArea), formatNumber(*f.MaxArea))
	}
	setList(values, domain.FieldAmenities, f.Amenities)
	setList(values, domain.FieldInfrastructure, f.Infrastructure)

	return values
}

// QueryString - Encode в виде строки без ведущего '?'. Ключи отсортированы.
func QueryString(filters domain.FilterSet) string {
	return Encode(filters).Encode()
}

// Parse восстанавливает набор из query-параметров. Незнакомые параметры игнорируются,
// пустые элементы списков отбрасываются. Некорректные числа и неизвестные флаги
// возвращают domain.ErrInvalidFilter.
func Parse(values url.Values) (domain.FilterSet, error) {
	var f domain.FilterSet
	var err error

	f.Search = strings.TrimSpace(values.Get(string(domain.FieldSearch)))
	f.PropertyTypes = listParam(values, domain.FieldPropertyType)
	f.Amenities = listParam(values, domain.FieldAmenities)
	f.Infrastructure = listParam(values, domain.FieldInfrastructure)

	if f.Bedrooms, err = parseInts(domain.FieldBedrooms, values); err != nil {
		return domain.FilterSet{}, err
	}
	if f.Bathrooms, err = parseInts(domain.FieldBathrooms, values); err != nil {
		return domain.FilterSet{}, err
	}
	if f.MinArea, err = parseNumber(domain.FieldMinArea, values); err != nil {
		return domain.FilterSet{}, err
	}
	if f.MaxArea, err = parseNumber(domain.FieldMaxArea, values); err != nil {
		return domain.FilterSet{}, err
	}

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return domain.FilterSet{}, err
	}
	return f, nil
}

// ParseQuery - Parse для сырой строки запроса
func ParseQuery(rawQuery string) (domain.FilterSet, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return domain.FilterSet{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}
	return Parse(values)
}

func setList(values url.Values, field domain.FilterField, items []string) {
	if len(items) == 0 {
		return
	}
	values.Set(string(field), strings.Join(items, listSeparator))
}

// listParam собирает список из всех повторов параметра: "a=1&a=2" равно "a=1,2"
func listParam(values url.Values, field domain.FilterField) []string {
	return splitList(strings.Join(values[string(field)], listSeparator))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, listSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseInts(field domain.FilterField, values url.Values) ([]int, error) {
	items := listParam(values, field)
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a list of integers, got %q", domain.ErrInvalidFilter, field, item)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseNumber(field domain.FilterField, values url.Values) (*float64, error) {
	raw := strings.TrimSpace(values.Get(string(field)))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidFilter, field, raw)
	}
	return &n, nil
}

func intsToStrings(values []int) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
