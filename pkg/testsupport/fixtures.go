package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-discussion-pager/forum"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadDiscussions loads a JSON array of discussions.
func LoadDiscussions(t testing.TB, path string) []*forum.Discussion {
	t.Helper()

	var out []*forum.Discussion
	LoadFixtureJSON(t, path, &out)
	return out
}

// WriteGolden writes test output to a golden file.
// This should typically only be called when updating golden files.
func WriteGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual data with expected data from a golden file.
// If the golden file doesn't exist, it creates one with the actual data.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Logf("Golden file %s does not exist, creating it", path)
			WriteGolden(t, path, actual)
			return
		}
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}

// Epoch is the activity time of the newest generated discussion.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Discussions generates n discussions with ids "1".."n", ordered newest
// activity first. Creation order is the reverse and comment counts cycle,
// so every sort key yields a different order.
func Discussions(n int) []*forum.Discussion {
	out := make([]*forum.Discussion, n)
	for i := range out {
		id := i + 1
		out[i] = &forum.Discussion{
			ID:           fmt.Sprint(id),
			Title:        fmt.Sprintf("Discussion %d", id),
			Slug:         fmt.Sprintf("%d-discussion-%d", id, id),
			CommentCount: (n - i) % 7,
			CreatedAt:    Epoch.Add(time.Duration(i) * time.Hour),
			LastPostedAt: Epoch.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}
