package peripheral

import (
	"github.com/Masterminds/squirrel"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// normalize applies defaults and clamps pagination values.
func normalize(f domain.PeripheralFilter) domain.PeripheralFilter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	return f
}

// conditions builds the WHERE clauses shared by the list and count queries.
func conditions(f domain.PeripheralFilter, sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.PCID != nil {
		sb = sb.Where(squirrel.Eq{"p.pc_id": *f.PCID})
	}
	if f.LabID != nil {
		sb = sb.Where(squirrel.Eq{"pcs.lab_id": *f.LabID})
	}
	if f.Status != nil {
		sb = sb.Where(squirrel.Eq{"p.status": string(*f.Status)})
	}
	if f.Kind != nil {
		sb = sb.Where(squirrel.Eq{"p.kind": string(*f.Kind)})
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		sb = sb.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.unique_id": pattern},
		})
	}
	return sb
}

// fromClause attaches FROM, joining pcs only when the lab filter needs it.
func fromClause(f domain.PeripheralFilter, sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	sb = sb.From("peripherals p")
	if f.LabID != nil {
		sb = sb.Join("pcs ON p.pc_id = pcs.id")
	}
	return sb
}

// listQuery builds the page query, newest first.
func listQuery(f domain.PeripheralFilter) squirrel.SelectBuilder {
	sb := qb.Select(
		"p.id", "p.pc_id", "p.unique_id", "p.name", "p.kind", "p.status",
		"p.status_updated_by", "p.status_updated_at", "p.status_reason", "p.remark",
		"p.created_at", "p.updated_at",
	)
	sb = conditions(f, fromClause(f, sb))
	return sb.
		OrderBy("p.created_at DESC", "p.id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
}

// countQuery builds the total match count query.
func countQuery(f domain.PeripheralFilter) squirrel.SelectBuilder {
	return conditions(f, fromClause(f, qb.Select("count(*)")))
}
