package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/pkg/testsupport"
)

func TestRunningCache_Window(t *testing.T) {
	items := testsupport.Discussions(25)
	c := newRunningCache()
	c.reset(25, 1)
	c.splice(20, items[20:])

	if _, ok := c.window(0, 10); ok {
		t.Error("expected a window over unfetched offsets to miss")
	}

	got, ok := c.window(20, 10)
	if !ok {
		t.Fatal("expected the last window to be served")
	}
	if diff := cmp.Diff([]string{"21", "22", "23", "24", "25"}, forum.IDs(got)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}

	c.splice(0, items[:10])
	if _, ok := c.window(0, 10); !ok {
		t.Error("expected a filled window to be served")
	}
	if _, ok := c.window(10, 10); ok {
		t.Error("expected a window with holes to miss")
	}
}

func TestRunningCache_ShortWindowAfterRemoval(t *testing.T) {
	items := testsupport.Discussions(5)
	c := newRunningCache()
	c.reset(5, 1)
	c.splice(0, items)

	c.removeAt(c.indexOf("2"))
	if _, ok := c.window(0, 5); ok {
		t.Error("expected a window shorter than the total to miss")
	}

	c.total--
	got, ok := c.window(0, 5)
	if !ok {
		t.Fatal("expected window once the total matches")
	}
	if diff := cmp.Diff([]string{"1", "3", "4", "5"}, forum.IDs(got)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestRunningCache_Generation(t *testing.T) {
	c := newRunningCache()
	a := generationOf(forum.BuildRequestParams(forum.Params{}))
	b := generationOf(forum.BuildRequestParams(forum.Params{Sort: "top"}))
	if a == b {
		t.Fatal("expected different parameter sets to differ")
	}

	if c.matches(a) {
		t.Error("an empty cache matches nothing")
	}
	c.adopt(a)
	c.adopt(b)
	if !c.matches(a) || c.matches(b) {
		t.Error("expected the first adopted generation to stick")
	}

	c.reset(10, b)
	if !c.matches(b) || len(c.loaded) != 0 || c.total != 10 {
		t.Errorf("unexpected cache after reset %+v", c)
	}
}

func TestInsertPage_OrderedWithoutDuplicates(t *testing.T) {
	var pages []*Page
	for _, n := range []int{3, 1, 2, 3} {
		pages, _ = insertPage(pages, &Page{Number: n})
	}
	var got []int
	for _, p := range pages {
		got = append(got, p.Number)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}
