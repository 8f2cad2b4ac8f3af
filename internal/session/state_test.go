package session

import (
	"errors"
	"testing"
)

func TestCartLazyInitAndDedup(t *testing.T) {
	state := NewState()

	if got := state.CartCount("media_proj"); got != 0 {
		t.Fatalf("fresh cart count = %d, want 0", got)
	}

	state.CartAdd("media_proj", []string{"bb", "aa", "bb", ""})
	ids := state.CartGet("media_proj")
	if len(ids) != 2 || ids[0] != "aa" || ids[1] != "bb" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestCartsAreIndependentPerTable(t *testing.T) {
	state := NewState()
	state.CartAdd("media_proj", []string{"aa"})
	state.CartAdd("media_arch", []string{"bb"})

	state.CartClear("media_proj")
	if state.CartCount("media_proj") != 0 {
		t.Fatal("proj cart should be empty after clear")
	}
	if state.CartCount("media_arch") != 1 {
		t.Fatal("arch cart should be untouched")
	}
}

func TestCartRemoveDropsFromAllTables(t *testing.T) {
	state := NewState()
	state.CartAdd("media_proj", []string{"aa", "bb"})
	state.CartAdd("media_arch", []string{"aa"})

	state.CartRemove("aa")
	if state.CartCount("media_proj") != 1 || state.CartCount("media_arch") != 0 {
		t.Fatalf("counts = %d/%d", state.CartCount("media_proj"), state.CartCount("media_arch"))
	}
}

func TestMemoryStoreCreatesLazily(t *testing.T) {
	store := NewMemoryStore()
	id := NewID()

	first := store.Get(id)
	first.CartAdd("media_proj", []string{"aa"})

	second := store.Get(id)
	if second.CartCount("media_proj") != 1 {
		t.Fatal("state not shared across Get calls")
	}

	store.Drop(id)
	if store.Get(id).CartCount("media_proj") != 0 {
		t.Fatal("dropped session should start fresh")
	}
}

func TestCopyProgressLifecycle(t *testing.T) {
	state := NewState()
	id := state.StartCopy()

	state.UpdateCopy(id, 50, 200)
	p, ok := state.CopyProgress(id)
	if !ok {
		t.Fatal("progress missing")
	}
	if p.Percent != 25 {
		t.Fatalf("percent = %v, want 25", p.Percent)
	}

	state.FinishCopy(id, nil)
	p, _ = state.CopyProgress(id)
	if !p.Done || p.Percent != 100 || p.Error != "" {
		t.Fatalf("final progress = %+v", p)
	}
}

func TestCopyProgressRecordsFailure(t *testing.T) {
	state := NewState()
	id := state.StartCopy()
	state.FinishCopy(id, errors.New("disk full"))

	p, _ := state.CopyProgress(id)
	if !p.Done || p.Error != "disk full" {
		t.Fatalf("progress = %+v", p)
	}
}

func TestArchiveCursor(t *testing.T) {
	state := NewState()
	state.SetArchiveCursor(4)
	if state.ArchiveCursor() != 4 {
		t.Fatalf("cursor = %d", state.ArchiveCursor())
	}
}
