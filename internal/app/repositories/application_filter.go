package repositories

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// StatusAll is the status filter sentinel that disables status filtering.
const StatusAll = "all"

// ApplicationFilter holds the optional listing/export filter parameters.
// The zero value matches every application.
type ApplicationFilter struct {
	// Status filters by review status; empty or StatusAll matches all.
	Status string
	// CommitteeID keeps only applications that picked the committee,
	// in any choice position. Zero disables the filter.
	CommitteeID int64
	// Search matches the applicant name or email, case-insensitively.
	Search string
	// SortBy must be one of the allow-listed sort fields; anything
	// else falls back to the submission time.
	SortBy string
	// SortOrder is "asc" or "desc"; anything else means "desc".
	SortOrder string
}

// applicationSortColumns is the allow-list of sortable columns. Sorting
// goes through this map so request parameters never reach the SQL text.
var applicationSortColumns = map[string]string{
	"submitted_at":  "a.submitted_at",
	"full_name":     "a.full_name",
	"email":         "a.email",
	"status":        "a.status",
	"academic_year": "a.academic_year",
	"university":    "a.university",
}

// conditions translates the filter into a squirrel conjunction shared by
// the listing, count and export queries.
func (f ApplicationFilter) conditions() squirrel.And {
	where := squirrel.And{}

	if f.Status != "" && f.Status != StatusAll {
		where = append(where, squirrel.Eq{"a.status": f.Status})
	}
	if f.CommitteeID > 0 {
		where = append(where, squirrel.Expr(
			"EXISTS (SELECT 1 FROM application_committees ac WHERE ac.application_id = a.id AND ac.committee_id = ?)",
			f.CommitteeID,
		))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"a.full_name": pattern},
			squirrel.ILike{"a.email": pattern},
		})
	}

	return where
}

// orderClause resolves the sort parameters against the allow-list.
func (f ApplicationFilter) orderClause() string {
	column, ok := applicationSortColumns[f.SortBy]
	if !ok {
		column = "a.submitted_at"
	}
	order := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		order = "ASC"
	}
	return fmt.Sprintf("%s %s", column, order)
}
