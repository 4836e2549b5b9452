package projections

import (
	"context"
	"strconv"

	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/domain/member"
)

// MembersForList defines the roster port needed by the member list projection.
type MembersForList interface {
	List(ctx context.Context, token string) ([]member.Member, error)
}

// GetMemberListQuery carries query parameters for the member panel.
type GetMemberListQuery struct {
	BearerToken     string
	Params          listutil.ListParams
	IncludeArchived bool
}

// MemberRow is one rendered roster row, with the printable QR payload.
type MemberRow struct {
	ID     string
	Name   string
	Status string
	NFCID  string
	Code   string
}

// GetMemberListResult carries the member panel data.
type GetMemberListResult struct {
	Members  []MemberRow
	PageInfo listutil.PageInfo
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	Members MembersForList
}

// MemberSortColumns are the sortable columns of the member panel.
var MemberSortColumns = []string{"id", "name", "status"}

// QueryGetMemberList fetches the roster and applies search, status filter,
// sort and paging for rendering.
// POST: Archived members are excluded unless IncludeArchived is set
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	roster, err := deps.Members.List(ctx, query.BearerToken)
	if err != nil {
		return GetMemberListResult{}, err
	}

	status := query.Params.Filters["status"]
	var filtered []member.Member
	for _, m := range roster {
		if m.IsArchived() && !query.IncludeArchived && status != member.StatusArchiviert {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		if !listutil.MatchesSearch(query.Params.Search, m.Name, m.ID, m.Code()) {
			continue
		}
		filtered = append(filtered, m)
	}

	switch query.Params.Sort {
	case "id":
		listutil.SortBy(filtered, query.Params.Dir, func(a, b member.Member) bool {
			return lessNumericThenLexical(a.ID, b.ID)
		})
	case "status":
		listutil.SortBy(filtered, query.Params.Dir, func(a, b member.Member) bool { return a.Status < b.Status })
	default:
		listutil.SortBy(filtered, query.Params.Dir, func(a, b member.Member) bool { return a.Name < b.Name })
	}

	page, info := listutil.Paginate(filtered, query.Params.PageParams)
	rows := make([]MemberRow, 0, len(page))
	for _, m := range page {
		rows = append(rows, MemberRow{
			ID:     m.ID,
			Name:   m.Name,
			Status: m.Status,
			NFCID:  m.NFCID,
			Code:   m.Code(),
		})
	}
	return GetMemberListResult{Members: rows, PageInfo: info}, nil
}

// MemberOption is one pickable roster entry for select lists and the
// tap-to-select identification view.
type MemberOption struct {
	ID   string
	Name string
}

// QueryGetMemberOptions returns the whole non-archived roster sorted by
// name, without paging. Used wherever a member has to be picked rather than
// browsed, so no member is hidden behind a page boundary.
// POST: Contains every non-archived member exactly once
func QueryGetMemberOptions(ctx context.Context, token string, deps GetMemberListDeps) ([]MemberOption, error) {
	roster, err := deps.Members.List(ctx, token)
	if err != nil {
		return nil, err
	}
	options := make([]MemberOption, 0, len(roster))
	for _, m := range roster {
		if m.IsArchived() {
			continue
		}
		options = append(options, MemberOption{ID: m.ID, Name: m.Name})
	}
	listutil.SortBy(options, "asc", func(a, b MemberOption) bool { return a.Name < b.Name })
	return options, nil
}

// lessNumericThenLexical orders numeric ids numerically, mixed ids fall back
// to string order.
func lessNumericThenLexical(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
