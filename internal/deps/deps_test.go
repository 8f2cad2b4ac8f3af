package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "probe", Command: "definitely-not-a-real-binary-xyz"},
	})
	if len(statuses) != 1 {
		t.Fatalf("statuses = %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected unavailable")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
}

func TestCheckBinariesFlagsUnconfigured(t *testing.T) {
	statuses := CheckBinaries([]Requirement{{Name: "probe", Command: "  "}})
	if statuses[0].Available || statuses[0].Detail != "command not configured" {
		t.Fatalf("status = %+v", statuses[0])
	}
}

func TestCheckBinariesResolvesFromPath(t *testing.T) {
	binDir := t.TempDir()
	target := filepath.Join(binDir, "fakeprobe")
	if err := os.WriteFile(target, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	statuses := CheckBinaries(Requirements("fakeprobe", "fakempeg"))
	if !statuses[0].Available {
		t.Fatalf("ffprobe status = %+v", statuses[0])
	}
	if statuses[0].Command != target {
		t.Fatalf("resolved = %q", statuses[0].Command)
	}
	if statuses[1].Available {
		t.Fatalf("ffmpeg status = %+v", statuses[1])
	}
	if !statuses[1].Optional {
		t.Fatal("ffmpeg should be optional")
	}
}
