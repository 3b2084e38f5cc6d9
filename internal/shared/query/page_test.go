package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	req := PageRequest{}.Normalize()
	require.Equal(t, 1, req.Page)
	require.Equal(t, DefaultPageSize, req.PageSize)
	require.Equal(t, 0, req.Offset())
}

func TestNormalize_ClampsPageSize(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 500}.Normalize()
	require.Equal(t, MaxPageSize, req.PageSize)
	require.Equal(t, 2*MaxPageSize, req.Offset())
}

func TestNormalize_DropsUnknownSortOrder(t *testing.T) {
	req := PageRequest{SortOrder: "sideways"}.Normalize()
	require.Empty(t, req.SortOrder)
}

func TestSortColumn_AllowList(t *testing.T) {
	allowed := map[string]string{"created_at": "created_at", "total_amount": "total_amount"}
	require.Equal(t, "total_amount", PageRequest{SortBy: "total_amount"}.SortColumn(allowed))
	require.Empty(t, PageRequest{SortBy: "password"}.SortColumn(allowed))
	require.Empty(t, PageRequest{}.SortColumn(allowed))
}

func TestPaginate_LastPageRemainder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	req := PageRequest{Page: 3, PageSize: 3}.Normalize()

	result := Paginate(items, req)
	require.Equal(t, []int{7}, result.Data)
	require.EqualValues(t, 7, result.Total)
	require.Equal(t, 3, result.TotalPages)
}

func TestPaginate_FullLastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	req := PageRequest{Page: 2, PageSize: 3}.Normalize()

	result := Paginate(items, req)
	require.Equal(t, []int{4, 5, 6}, result.Data)
	require.Equal(t, 2, result.TotalPages)
}

func TestPaginate_BeyondLastPage(t *testing.T) {
	items := []int{1, 2, 3}
	req := PageRequest{Page: 9, PageSize: 2}.Normalize()

	result := Paginate(items, req)
	require.Empty(t, result.Data)
	require.EqualValues(t, 3, result.Total)
	require.Equal(t, 2, result.TotalPages)
}

func TestMatchesSearch_CaseInsensitive(t *testing.T) {
	require.True(t, MatchesSearch("ABC", "xAbCy"))
	require.True(t, MatchesSearch("abc", "xAbCy"))
	require.False(t, MatchesSearch("abc", "xyz", ""))
	require.True(t, MatchesSearch("", "anything"))
}

func TestSortStable_Directions(t *testing.T) {
	asc := []int{3, 1, 2}
	SortStable(asc, false, func(a, b int) bool { return a < b })
	require.Equal(t, []int{1, 2, 3}, asc)

	desc := []int{3, 1, 2}
	SortStable(desc, true, func(a, b int) bool { return a < b })
	require.Equal(t, []int{3, 2, 1}, desc)
}
