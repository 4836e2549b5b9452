package projections

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/domain/member"
)

// mockMembers implements MembersForList.
type mockMembers struct {
	members []member.Member
	err     error
}

func (m *mockMembers) List(_ context.Context, _ string) ([]member.Member, error) {
	return m.members, m.err
}

func testMembers() *mockMembers {
	return &mockMembers{members: []member.Member{
		{ID: "2", Name: "Bernd Lauch", Status: member.StatusAktiv},
		{ID: "10", Name: "Anna Acker", Status: member.StatusPassiv, NFCID: "04:AA"},
		{ID: "3", Name: "Claus Alt", Status: member.StatusArchiviert},
	}}
}

func listParams(t *testing.T, rawQuery string) listutil.ListParams {
	t.Helper()
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("bad query %q: %v", rawQuery, err)
	}
	return listutil.ParseListParams(q, MemberSortColumns, []string{"status"})
}

func memberIDs(rows []MemberRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryGetMemberList_ExcludesArchivedByDefault(t *testing.T) {
	res, err := QueryGetMemberList(context.Background(), GetMemberListQuery{
		BearerToken: "bearer-abc",
		Params:      listParams(t, ""),
	}, GetMemberListDeps{Members: testMembers()})
	if err != nil {
		t.Fatalf("QueryGetMemberList failed: %v", err)
	}
	// Default sort is by name ascending.
	if got := memberIDs(res.Members); !equalIDs(got, []string{"10", "2"}) {
		t.Errorf("members = %v, want Anna then Bernd without the archived entry", got)
	}
}

func TestQueryGetMemberList_StatusFilterReachesArchived(t *testing.T) {
	res, err := QueryGetMemberList(context.Background(), GetMemberListQuery{
		BearerToken: "bearer-abc",
		Params:      listParams(t, "status=archiviert"),
	}, GetMemberListDeps{Members: testMembers()})
	if err != nil {
		t.Fatalf("QueryGetMemberList failed: %v", err)
	}
	if got := memberIDs(res.Members); !equalIDs(got, []string{"3"}) {
		t.Errorf("members = %v, want only the archived entry", got)
	}
}

func TestQueryGetMemberList_SearchMatchesCode(t *testing.T) {
	res, err := QueryGetMemberList(context.Background(), GetMemberListQuery{
		BearerToken: "bearer-abc",
		Params:      listParams(t, "q=RHEINZEL-10"),
	}, GetMemberListDeps{Members: testMembers()})
	if err != nil {
		t.Fatalf("QueryGetMemberList failed: %v", err)
	}
	if got := memberIDs(res.Members); !equalIDs(got, []string{"10"}) {
		t.Errorf("members = %v, want the member whose code matches", got)
	}
	if res.Members[0].Code != "RHEINZEL-10" {
		t.Errorf("Code = %q, want RHEINZEL-10", res.Members[0].Code)
	}
}

func TestQueryGetMemberList_NumericIDSort(t *testing.T) {
	res, err := QueryGetMemberList(context.Background(), GetMemberListQuery{
		BearerToken: "bearer-abc",
		Params:      listParams(t, "sort=id&dir=asc"),
	}, GetMemberListDeps{Members: testMembers()})
	if err != nil {
		t.Fatalf("QueryGetMemberList failed: %v", err)
	}
	// "2" sorts before "10" numerically, not lexically.
	if got := memberIDs(res.Members); !equalIDs(got, []string{"2", "10"}) {
		t.Errorf("members = %v, want numeric id order", got)
	}
}

func TestQueryGetMemberList_BackendError(t *testing.T) {
	_, err := QueryGetMemberList(context.Background(), GetMemberListQuery{
		BearerToken: "bearer-abc",
		Params:      listParams(t, ""),
	}, GetMemberListDeps{Members: &mockMembers{err: errors.New("backend down")}})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestQueryGetMemberOptions(t *testing.T) {
	mock := testMembers()
	// Grow the roster past any page size to prove options are never paged.
	for i := 100; i < 230; i++ {
		mock.members = append(mock.members, member.Member{
			ID:     strconv.Itoa(i),
			Name:   fmt.Sprintf("Zusatz %03d", i),
			Status: member.StatusAktiv,
		})
	}

	options, err := QueryGetMemberOptions(context.Background(), "bearer-abc",
		GetMemberListDeps{Members: mock})
	if err != nil {
		t.Fatalf("QueryGetMemberOptions failed: %v", err)
	}

	// 2 active/passive base members + 130 extra; the archived one is out.
	if len(options) != 132 {
		t.Fatalf("len = %d, want 132", len(options))
	}
	if options[0].Name != "Anna Acker" || options[1].Name != "Bernd Lauch" {
		t.Errorf("expected name order, got %q, %q", options[0].Name, options[1].Name)
	}
	for _, o := range options {
		if o.Name == "Claus Alt" {
			t.Error("archived member must not be pickable")
		}
	}
}

func TestQueryGetMemberOptions_PropagatesError(t *testing.T) {
	_, err := QueryGetMemberOptions(context.Background(), "bearer-abc",
		GetMemberListDeps{Members: &mockMembers{err: errors.New("backend down")}})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}
