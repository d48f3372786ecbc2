package repositories

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
)

func buildWhere(t *testing.T, f ApplicationFilter) (string, []interface{}) {
	t.Helper()
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := sb.Select("a.id").From("applications a")
	if where := f.conditions(); len(where) > 0 {
		builder = builder.Where(where)
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	return sql, args
}

func TestFilterConditions(t *testing.T) {
	tests := []struct {
		name         string
		filter       ApplicationFilter
		wantContains []string
		wantAbsent   []string
		wantArgs     int
	}{
		{
			name:       "zero value matches everything",
			filter:     ApplicationFilter{},
			wantAbsent: []string{"WHERE"},
		},
		{
			name:       "status all disables status filter",
			filter:     ApplicationFilter{Status: StatusAll},
			wantAbsent: []string{"WHERE"},
		},
		{
			name:         "status filter",
			filter:       ApplicationFilter{Status: "pending"},
			wantContains: []string{"a.status = $1"},
			wantArgs:     1,
		},
		{
			name:         "committee filter uses join-table subquery",
			filter:       ApplicationFilter{CommitteeID: 7},
			wantContains: []string{"EXISTS (SELECT 1 FROM application_committees ac WHERE ac.application_id = a.id AND ac.committee_id = $1)"},
			wantArgs:     1,
		},
		{
			name:         "search matches name or email",
			filter:       ApplicationFilter{Search: "jane"},
			wantContains: []string{"a.full_name ILIKE $1", "a.email ILIKE $2", " OR "},
			wantArgs:     2,
		},
		{
			name:       "whitespace-only search ignored",
			filter:     ApplicationFilter{Search: "   "},
			wantAbsent: []string{"WHERE"},
		},
		{
			name: "combined filters joined with AND",
			filter: ApplicationFilter{
				Status:      "accepted",
				CommitteeID: 3,
				Search:      "doe",
			},
			wantContains: []string{"a.status = $1", "ac.committee_id = $2", "a.full_name ILIKE $3", " AND "},
			wantArgs:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildWhere(t, tt.filter)
			for _, want := range tt.wantContains {
				if !strings.Contains(sql, want) {
					t.Errorf("sql %q missing %q", sql, want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(sql, absent) {
					t.Errorf("sql %q should not contain %q", sql, absent)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d values", args, tt.wantArgs)
			}
		})
	}
}

func TestFilterSearchArgsAreEscapedPatterns(t *testing.T) {
	_, args := buildWhere(t, ApplicationFilter{Search: "jane"})
	for _, arg := range args {
		if arg != "%jane%" {
			t.Fatalf("arg = %v, want %%jane%%", arg)
		}
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name   string
		filter ApplicationFilter
		want   string
	}{
		{"default", ApplicationFilter{}, "a.submitted_at DESC"},
		{"explicit ascending", ApplicationFilter{SortBy: "full_name", SortOrder: "asc"}, "a.full_name ASC"},
		{"uppercase order accepted", ApplicationFilter{SortBy: "email", SortOrder: "ASC"}, "a.email ASC"},
		{"unknown column falls back", ApplicationFilter{SortBy: "password_hash", SortOrder: "asc"}, "a.submitted_at ASC"},
		{"injection attempt falls back", ApplicationFilter{SortBy: "id; DROP TABLE applications"}, "a.submitted_at DESC"},
		{"unknown order means descending", ApplicationFilter{SortBy: "status", SortOrder: "sideways"}, "a.status DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.orderClause(); got != tt.want {
				t.Errorf("orderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}
