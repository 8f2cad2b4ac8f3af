package search

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"mediadepot/internal/depot"
	"mediadepot/internal/media"
)

func newTestEngine(t *testing.T) (*Engine, *media.Store) {
	t.Helper()
	store, err := media.Open(context.Background(), filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	resolver, err := depot.NewResolver("/srv/depot")
	if err != nil {
		t.Fatal(err)
	}
	return New(store, resolver), store
}

func seed(t *testing.T, store *media.Store, n int, fields func(i int) map[string]string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		row := map[string]string{
			"file_id":   fmt.Sprintf("seed%04d", i),
			"file_name": fmt.Sprintf("file_%d.png", i),
			"file_path": fmt.Sprintf("$DEPOT_ALL/images/file_%d.png", i),
			"file_type": "png",
		}
		if fields != nil {
			for k, v := range fields(i) {
				row[k] = v
			}
		}
		if _, err := store.Insert(ctx, media.TableProject, row); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}
}

func TestUnfilteredPagination(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 25, nil)
	ctx := context.Background()

	page3, err := engine.Search(ctx, Params{Table: media.TableProject, Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Rows) != 5 {
		t.Fatalf("page 3 has %d rows, want 5", len(page3.Rows))
	}
	if page3.TotalPages != 3 || page3.TotalCount != 25 {
		t.Fatalf("pages=%d count=%d", page3.TotalPages, page3.TotalCount)
	}

	_, err = engine.Search(ctx, Params{Table: media.TableProject, Page: 4, PageSize: 10})
	if !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("page 4 err = %v, want ErrPageNotFound", err)
	}
}

func TestNonPositivePageIsRejected(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 25, nil)
	ctx := context.Background()

	for _, page := range []int{0, -2} {
		_, err := engine.Search(ctx, Params{Table: media.TableProject, Page: page, PageSize: 10})
		if !errors.Is(err, ErrPageNotFound) {
			t.Fatalf("page %d err = %v, want ErrPageNotFound", page, err)
		}
	}
}

func TestPagesConcatenateWithoutGapsOrDuplicates(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 23, nil)
	ctx := context.Background()

	seen := make(map[string]int)
	var order []string
	for page := 1; page <= 3; page++ {
		result, err := engine.Search(ctx, Params{Table: media.TableProject, Page: page, PageSize: 10})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(result.Rows) > 10 {
			t.Fatalf("page %d has %d rows, exceeds page size", page, len(result.Rows))
		}
		for _, row := range result.Rows {
			seen[row.FileID]++
			order = append(order, row.FileID)
		}
	}

	if len(seen) != 23 {
		t.Fatalf("concatenated pages hold %d distinct ids, want 23", len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("id %q appeared %d times", id, count)
		}
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("ordering broke at %d: %q >= %q", i, order[i-1], order[i])
		}
	}
}

func TestExactFiltersCombineWithAnd(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 10, func(i int) map[string]string {
		fields := map[string]string{"genre": "urban"}
		if i < 4 {
			fields["file_type"] = "mp4"
		}
		return fields
	})
	ctx := context.Background()

	result, err := engine.Search(ctx, Params{
		Table: media.TableProject, FileType: "mp4", Genre: "urban",
		Page: 1, PageSize: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 4 {
		t.Fatalf("count = %d, want 4", result.TotalCount)
	}
}

func TestSingleFieldLike(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 6, func(i int) map[string]string {
		if i%2 == 0 {
			return map[string]string{"subject": "city skyline"}
		}
		return map[string]string{"subject": "forest"}
	})

	result, err := engine.Search(context.Background(), Params{
		Table: media.TableProject, Query: "sky", Field: "subject",
		Page: 1, PageSize: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 3 {
		t.Fatalf("count = %d, want 3", result.TotalCount)
	}
}

func TestSearchAllModeOrsDescriptiveFields(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 4, func(i int) map[string]string {
		switch i {
		case 0:
			return map[string]string{"genre": "neon"}
		case 1:
			return map[string]string{"tags": "neon,night"}
		case 2:
			return map[string]string{"subject": "daylight"}
		default:
			return nil
		}
	})

	result, err := engine.Search(context.Background(), Params{
		Table: media.TableProject, Query: "neon",
		Page: 1, PageSize: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 2 {
		t.Fatalf("count = %d, want 2", result.TotalCount)
	}
}

func TestSearchRejectsUnknownField(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Search(context.Background(), Params{
		Table: media.TableProject, Query: "x", Field: "file_path",
		Page: 1, PageSize: 10,
	})
	if !errors.Is(err, media.ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestCaptionWholeWordMatch(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 1, func(i int) map[string]string {
		return map[string]string{"captions": "A red car. A blue truck."}
	})
	ctx := context.Background()

	result, err := engine.Search(ctx, Params{
		Table: media.TableProject, Query: "red", Field: "captions",
		Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 1 {
		t.Fatalf("whole word 'red' count = %d, want 1", result.TotalCount)
	}

	result, err = engine.Search(ctx, Params{
		Table: media.TableProject, Query: "ed", Field: "captions",
		Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 0 {
		t.Fatalf("substring 'ed' count = %d, want 0", result.TotalCount)
	}
}

func TestCaptionSearchIsCaseInsensitive(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 1, func(i int) map[string]string {
		return map[string]string{"captions": "Sunset over the Harbor."}
	})

	result, err := engine.Search(context.Background(), Params{
		Table: media.TableProject, Query: "harbor", Field: "captions",
		Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 1 {
		t.Fatalf("count = %d, want 1", result.TotalCount)
	}
}

func TestCaptionSearchPaginatesInMemory(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 12, func(i int) map[string]string {
		if i < 7 {
			return map[string]string{"captions": "A dog runs. Fast motion."}
		}
		return map[string]string{"captions": "A cat sleeps."}
	})
	ctx := context.Background()

	page2, err := engine.Search(ctx, Params{
		Table: media.TableProject, Query: "dog", Field: "captions",
		Page: 2, PageSize: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if page2.TotalCount != 7 || page2.TotalPages != 2 {
		t.Fatalf("count=%d pages=%d", page2.TotalCount, page2.TotalPages)
	}
	if len(page2.Rows) != 2 {
		t.Fatalf("page 2 has %d rows, want 2", len(page2.Rows))
	}

	_, err = engine.Search(ctx, Params{
		Table: media.TableProject, Query: "dog", Field: "captions",
		Page: 3, PageSize: 5,
	})
	if !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("err = %v, want ErrPageNotFound", err)
	}
}

func TestEmptyResultSkipsPageCheck(t *testing.T) {
	engine, _ := newTestEngine(t)
	result, err := engine.Search(context.Background(), Params{
		Table: media.TableProject, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 0 || len(result.Rows) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRowsAreDecorated(t *testing.T) {
	engine, store := newTestEngine(t)
	seed(t, store, 1, nil)

	result, err := engine.Search(context.Background(), Params{
		Table: media.TableProject, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	row := result.Rows[0]
	if row.AbsolutePath != "/srv/depot/images/file_0.png" {
		t.Fatalf("absolute path = %q", row.AbsolutePath)
	}
	if !row.Viewable {
		t.Fatal("png row should be viewable")
	}
}
