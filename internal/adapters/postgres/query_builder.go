package postgres

import (
	"fmt"
	"strings"

	"listings-service/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddIntFilter(fieldName string, min *int, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// AddSearch - подстрока в заголовке или описании, без учета регистра.
// Один аргумент используется в обоих условиях.
func (qb *queryBuilder) AddSearch(term string, fields ...string) {
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", field, qb.argId)
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(parts, " OR ")+")")
	qb.args = append(qb.args, "%"+escapeLike(term)+"%")
	qb.argId++
}

// build возвращает WHERE-часть запроса и аргументы
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, '\' - экранирующий символ по умолчанию в PostgreSQL
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// applyFilters переводит ограничения поиска в условия по property_listings
func applyFilters(q domain.ListingQuery) (string, []interface{}) {
	qb := newQueryBuilder()

	if q.Search != "" {
		qb.AddSearch(q.Search, "pl.title", "pl.description")
	}
	if len(q.PropertyTypes) > 0 {
		qb.addCondition("%s = ANY($%d)", "pl.property_type", q.PropertyTypes)
	}

	// Несколько выбранных порогов комнат означают "не меньше минимального"
	qb.AddIntFilter("pl.bedrooms", q.MinBedrooms, nil)
	qb.AddIntFilter("pl.bathrooms", q.MinBathrooms, nil)
	qb.AddFloatFilter("pl.total_area", q.MinArea, q.MaxArea)

	return qb.build()
}
