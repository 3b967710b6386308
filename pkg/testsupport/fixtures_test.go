package testsupport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/forum"
)

func TestLoadDiscussions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "discussions.json")
	content := `[{"id":"7","title":"Hello","slug":"7-hello","commentCount":3,"isSticky":true}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}

	got := LoadDiscussions(t, path)
	want := []*forum.Discussion{{ID: "7", Title: "Hello", Slug: "7-hello", CommentCount: 3, IsSticky: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadDiscussions() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareWithGolden_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "out.json")

	CompareWithGolden(t, path, []byte(`{"ok":true}`))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected golden file to be written: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected golden content %q", data)
	}

	CompareWithGolden(t, path, []byte(`{"ok":true}`))
}

func TestPaths(t *testing.T) {
	if got := FixturePath("a.json"); got != filepath.Join("testdata", "a.json") {
		t.Errorf("FixturePath() = %s", got)
	}
	if got := GoldenPath("a.json"); got != filepath.Join("testdata", "golden", "a.json") {
		t.Errorf("GoldenPath() = %s", got)
	}
}

func TestDiscussions(t *testing.T) {
	items := Discussions(3)
	if diff := cmp.Diff([]string{"1", "2", "3"}, forum.IDs(items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if !items[0].LastPostedAt.After(items[1].LastPostedAt) {
		t.Error("expected newest activity first")
	}
}

func TestFakeStore_FindWindowAndSort(t *testing.T) {
	store := NewFakeStore(Discussions(45))

	res, err := store.Find(context.Background(), forum.RequestParams{Offset: 40, Limit: 20})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if diff := cmp.Diff([]string{"41", "42", "43", "44", "45"}, forum.IDs(res.Items)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
	if res.Total != 45 || res.HasNext || !res.HasPrev {
		t.Errorf("unexpected envelope %+v", res)
	}

	res, _ = store.Find(context.Background(), forum.RequestParams{Sort: "createdAt", Limit: 2})
	if diff := cmp.Diff([]string{"1", "2"}, forum.IDs(res.Items)); diff != "" {
		t.Errorf("createdAt sort mismatch (-want +got):\n%s", diff)
	}

	res, _ = store.Find(context.Background(), forum.RequestParams{
		Filter: map[string]any{"q": "discussion 4"},
		Limit:  20,
	})
	if diff := cmp.Diff([]string{"4", "40", "41", "42", "43", "44", "45"}, forum.IDs(res.Items)); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	if store.CallCount() != 3 {
		t.Errorf("expected 3 recorded calls, got %d", store.CallCount())
	}
}

func TestFakeStore_IdentityMap(t *testing.T) {
	store := NewFakeStore(Discussions(5))
	if _, ok := store.GetByID("1"); ok {
		t.Fatal("expected unfetched record to be unknown")
	}

	_, _ = store.Find(context.Background(), forum.RequestParams{Limit: 2})
	if d, ok := store.GetByID("2"); !ok || d.ID != "2" {
		t.Errorf("GetByID(2) = %v, %v", d, ok)
	}

	store.Forget()
	if _, ok := store.GetByID("2"); ok {
		t.Error("expected Forget to drop records")
	}
}

func TestFakeStore_PreloadAndFailure(t *testing.T) {
	store := NewFakeStore(nil)
	store.Preload(&forum.Results{Total: 1, Items: Discussions(1)})

	if _, ok := store.PreloadedDocument(); !ok {
		t.Fatal("expected preloaded document")
	}
	if _, ok := store.PreloadedDocument(); ok {
		t.Error("expected preloaded document to be handed out once")
	}

	boom := errors.New("boom")
	store.FailNext(boom)
	if _, err := store.Find(context.Background(), forum.RequestParams{}); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if _, err := store.Find(context.Background(), forum.RequestParams{}); err != nil {
		t.Errorf("expected failure to be one-shot, got %v", err)
	}
}

func TestMemoryStorage_Quota(t *testing.T) {
	storage := NewMemoryStorage(2)
	if err := storage.SetItem("b", "1"); err != nil {
		t.Fatal(err)
	}
	if err := storage.SetItem("a", "2"); err != nil {
		t.Fatal(err)
	}
	if err := storage.SetItem("c", "3"); !errors.Is(err, cache.ErrQuotaExceeded) {
		t.Errorf("SetItem beyond the limit error = %v, want ErrQuotaExceeded", err)
	}
	if err := storage.SetItem("a", "overwrite"); err != nil {
		t.Errorf("overwriting an existing key should not hit the quota: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, storage.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	storage.RemoveItem("a")
	if storage.Len() != 1 {
		t.Errorf("Len() = %d, want 1", storage.Len())
	}
}
