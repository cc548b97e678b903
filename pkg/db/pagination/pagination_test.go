package pagination_test

import (
	"testing"

	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
)

func TestNormalizeDefaults(t *testing.T) {
	p := pagination.Pagination{}.Normalize()
	if p.Page != 1 || p.PageSize != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", p.Page, p.PageSize)
	}

	p = pagination.Pagination{Page: -3, PageSize: 9000}.Normalize()
	if p.Page != 1 || p.PageSize != 250 {
		t.Fatalf("expected clamped 1/250, got %d/%d", p.Page, p.PageSize)
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := pagination.Pagination{Page: 3, PageSize: 25}
	if p.Offset() != 50 {
		t.Fatalf("expected offset 50, got %d", p.Offset())
	}
	if p.Limit() != 25 {
		t.Fatalf("expected limit 25, got %d", p.Limit())
	}
}

func TestBuildPageInfoHasMore(t *testing.T) {
	info := pagination.BuildPageInfo(pagination.Pagination{Page: 1, PageSize: 10}, 25)
	if !info.HasMore {
		t.Fatalf("expected more pages for total 25")
	}

	info = pagination.BuildPageInfo(pagination.Pagination{Page: 3, PageSize: 10}, 25)
	if info.HasMore {
		t.Fatalf("expected last page for total 25")
	}
	if info.TotalCount != 25 {
		t.Fatalf("expected total 25, got %d", info.TotalCount)
	}
}
