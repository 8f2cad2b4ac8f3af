package jobs

import "testing"

func TestValidateBaseName(t *testing.T) {
	reject := []string{
		"",
		"ab",
		"thisistoolong1",
		"Abcde",
		"1abcde",
		"abcde1",
		"ab__cd",
		"abc-d",
	}
	for _, base := range reject {
		if ok, reason := ValidateBaseName(base); ok {
			t.Errorf("ValidateBaseName(%q) accepted, want rejection", base)
		} else if reason == "" {
			t.Errorf("ValidateBaseName(%q) gave no reason", base)
		}
	}

	accept := []string{"logoa", "product_sp", "ab_cd", "a1b2c"}
	for _, base := range accept {
		if ok, reason := ValidateBaseName(base); !ok {
			t.Errorf("ValidateBaseName(%q) rejected: %s", base, reason)
		}
	}
}

func TestNextRevision(t *testing.T) {
	cases := map[string]string{
		"":   "a",
		"a":  "b",
		"y":  "z",
		"z":  "a1",
		"a1": "b1",
		"z1": "a2",
		"z9": "a10",
	}
	for current, want := range cases {
		if got := NextRevision(current); got != want {
			t.Errorf("NextRevision(%q) = %q, want %q", current, got, want)
		}
	}
}

func TestMaxRevision(t *testing.T) {
	cases := []struct {
		revisions []string
		want      string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "c", "b"}, "c"},
		{[]string{"z", "a1"}, "a1"},
		{[]string{"b2", "z1"}, "b2"},
		{[]string{"??", "b"}, "b"},
	}
	for _, tc := range cases {
		if got := MaxRevision(tc.revisions); got != tc.want {
			t.Errorf("MaxRevision(%v) = %q, want %q", tc.revisions, got, tc.want)
		}
	}
}

func TestComposeName(t *testing.T) {
	name, alias, err := ComposeName("logoa", "b", 2025)
	if err != nil {
		t.Fatal(err)
	}
	if name != "25_logoa_b" {
		t.Fatalf("name = %q", name)
	}
	if alias != "logoa25" {
		t.Fatalf("alias = %q", alias)
	}

	if _, _, err := ComposeName("X", "a", 2025); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDedupTags(t *testing.T) {
	got := DedupTags("Logo, branding, logo, BRANDING , motion,")
	if got != "Logo, branding, motion" {
		t.Fatalf("DedupTags = %q", got)
	}
	if DedupTags("  ,  ,") != "" {
		t.Fatal("empty-only input should produce empty string")
	}
}

func TestAppHelpers(t *testing.T) {
	if len(SubdirsForApp("adobe")) == 0 {
		t.Fatal("adobe should have subdirs")
	}
	if len(SubdirsForApp("unknown")) != 0 {
		t.Fatal("unknown app should have no subdirs")
	}

	serialized := SerializeApps([]string{"Adobe", " houdini ", ""})
	if serialized != "adobe,houdini" {
		t.Fatalf("SerializeApps = %q", serialized)
	}
	apps := ParseApps(serialized)
	if len(apps) != 2 || apps[0] != "adobe" || apps[1] != "houdini" {
		t.Fatalf("ParseApps = %v", apps)
	}
}
