package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediadepot/internal/config"
	"mediadepot/internal/depot"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	base := t.TempDir()

	store, err := Open(context.Background(), filepath.Join(base, "jobs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	resolver, err := depot.NewResolver(filepath.Join(base, "depot"))
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Jobs{
		ProjectsNetworkDir: filepath.Join(base, "depot", "projects"),
		RenderNetworkDir:   filepath.Join(base, "depot", "render"),
		NavFilePath:        filepath.Join(base, "nav", "jobs.nav"),
	}

	registry := NewRegistry(store, cfg, resolver, nil)
	registry.now = func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	return registry, base
}

func TestCreateFirstRevision(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	result, err := registry.Create(ctx, CreateParams{
		Base:    "logoa",
		Creator: "sam",
		Apps:    []string{"adobe"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Job.JobName != "25_logoa_a" {
		t.Fatalf("job_name = %q", result.Job.JobName)
	}
	if result.Job.JobAlias != "logoa25" {
		t.Fatalf("alias = %q", result.Job.JobAlias)
	}
	if len(result.Job.JobID) != jobIDLength {
		t.Fatalf("job_id = %q", result.Job.JobID)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v", result.Warnings)
	}
}

func TestCreateAdvancesRevisionPastExisting(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	if _, err := registry.Create(ctx, CreateParams{Base: "logoa", Creator: "sam"}); err != nil {
		t.Fatal(err)
	}

	result, err := registry.Create(ctx, CreateParams{Base: "logoa", Creator: "sam"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Job.JobName != "25_logoa_b" {
		t.Fatalf("job_name = %q, want 25_logoa_b", result.Job.JobName)
	}
}

func TestCreateRejectsInvalidBase(t *testing.T) {
	registry, _ := newTestRegistry(t)
	_, err := registry.Create(context.Background(), CreateParams{Base: "X"})
	if !errors.Is(err, ErrInvalidBaseName) {
		t.Fatalf("err = %v, want ErrInvalidBaseName", err)
	}
}

func TestCreateScaffoldsDirectories(t *testing.T) {
	registry, base := newTestRegistry(t)

	result, err := registry.Create(context.Background(), CreateParams{
		Base: "spota", Creator: "sam", Apps: []string{"adobe", "maya"},
	})
	if err != nil {
		t.Fatal(err)
	}

	jobDir := filepath.Join(base, "depot", "projects", result.Job.JobName)
	for _, sub := range []string{"adobe/aep", "maya/scenes"} {
		if _, err := os.Stat(filepath.Join(jobDir, sub)); err != nil {
			t.Fatalf("missing scaffold dir %s: %v", sub, err)
		}
	}
	renderDir := filepath.Join(base, "depot", "render", result.Job.JobName)
	if _, err := os.Stat(renderDir); err != nil {
		t.Fatalf("missing render dir: %v", err)
	}
}

func TestCreateStoresSymbolicPaths(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, err := registry.Create(context.Background(), CreateParams{Base: "spotb", Creator: "sam"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Job.PathJob, depot.Token) {
		t.Fatalf("path_job = %q, want symbolic", result.Job.PathJob)
	}
}

func TestCreateWritesNavFile(t *testing.T) {
	registry, base := newTestRegistry(t)

	if _, err := registry.Create(context.Background(), CreateParams{Base: "spotc", Creator: "sam"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(base, "nav", "jobs.nav"))
	if err != nil {
		t.Fatalf("nav file: %v", err)
	}
	if !strings.Contains(string(data), "spotc25=") {
		t.Fatalf("nav content = %q", data)
	}
}

func TestCreateEnvStepFailureIsWarningNotError(t *testing.T) {
	registry, base := newTestRegistry(t)
	registry.cfg.EnvTemplatePath = filepath.Join(base, "missing-template.env")

	result, err := registry.Create(context.Background(), CreateParams{Base: "spotd", Creator: "sam"})
	if err != nil {
		t.Fatalf("create should succeed despite env step failure: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the failed env step")
	}

	// The insert stuck despite the warning.
	if _, err := registry.store.GetByName(context.Background(), result.Job.JobName); err != nil {
		t.Fatalf("job row missing: %v", err)
	}
}

func TestCreateEnvFileSubstitution(t *testing.T) {
	registry, base := newTestRegistry(t)
	templatePath := filepath.Join(base, "template.env")
	template := "JOB={JOB_NAME}\nROOT={JOB_PATH}\nYEAR={JOB_YEAR}\n"
	if err := os.WriteFile(templatePath, []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}
	registry.cfg.EnvTemplatePath = templatePath

	result, err := registry.Create(context.Background(), CreateParams{Base: "spote", Creator: "sam"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v", result.Warnings)
	}

	envPath := filepath.Join(base, "depot", "projects", result.Job.JobName, "job.env")
	data, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "JOB="+result.Job.JobName) {
		t.Fatalf("env content = %q", content)
	}
	if !strings.Contains(content, "YEAR=25") {
		t.Fatalf("env content = %q", content)
	}
}

func TestNameExists(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	seed := &Job{JobID: "aaaaaa", JobName: "25_spotf_a", JobAlias: "spotf25", JobState: "active", JobYear: "25"}
	if err := registry.store.Insert(ctx, seed); err != nil {
		t.Fatal(err)
	}

	exists, err := registry.store.NameExists(ctx, "25_spotf_a")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("seeded name should exist")
	}
	exists, err = registry.store.NameExists(ctx, "25_spotf_b")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("unseeded name should not exist")
	}
}

func TestRevisionsForPrefixIgnoresWildcardMatches(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	// "25_logoxa" and "25_logos_a" both satisfy LIKE '25_logo_%' because
	// the underscore is a single-character wildcard; neither carries the
	// "25_logo_" prefix.
	for i, name := range []string{"25_logo_a", "25_logoxa", "25_logos_a"} {
		seed := &Job{
			JobID: strings.Repeat(string(rune('a'+i)), jobIDLength),
			JobName: name, JobState: "active", JobYear: "25",
		}
		if err := registry.store.Insert(ctx, seed); err != nil {
			t.Fatal(err)
		}
	}

	revisions, err := registry.store.RevisionsForPrefix(ctx, "25_logo")
	if err != nil {
		t.Fatal(err)
	}
	if len(revisions) != 1 || revisions[0] != "a" {
		t.Fatalf("revisions = %v, want [a]", revisions)
	}
}

func TestCascadingLookups(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	result, err := registry.Create(ctx, CreateParams{
		Base: "spotg", Creator: "sam", Apps: []string{"adobe", "houdini"},
	})
	if err != nil {
		t.Fatal(err)
	}

	years, err := registry.Years(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(years) != 1 || years[0] != "25" {
		t.Fatalf("years = %v", years)
	}

	projects, err := registry.ProjectsForYear(ctx, "25")
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Name != result.Job.JobName {
		t.Fatalf("projects = %+v", projects)
	}
	if strings.HasPrefix(projects[0].Path, depot.Token) {
		t.Fatalf("project path should be expanded, got %q", projects[0].Path)
	}

	apps, err := registry.AppsForProject(ctx, result.Job.JobName)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 || apps[0] != "adobe" {
		t.Fatalf("apps = %v", apps)
	}

	if dirs := SubdirsForApp("houdini"); len(dirs) == 0 {
		t.Fatal("houdini subdirs missing")
	}
}

func TestUpdateAllowListAndStamps(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	result, err := registry.Create(ctx, CreateParams{Base: "spoth", Creator: "sam"})
	if err != nil {
		t.Fatal(err)
	}

	err = registry.store.Update(ctx, result.Job.JobID, "alex", map[string]string{
		"job_notes": "updated notes",
		"job_tags":  "a, A, b",
		"job_name":  "hacked",
		"job_state": "bogus",
	})
	if err != nil {
		t.Fatal(err)
	}

	job, err := registry.store.Get(ctx, result.Job.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Notes != "updated notes" {
		t.Fatalf("notes = %q", job.Notes)
	}
	if job.Tags != "a, b" {
		t.Fatalf("tags = %q", job.Tags)
	}
	if job.JobName != result.Job.JobName {
		t.Fatal("job_name must not be editable")
	}
	if job.JobState != string(StateActive) {
		t.Fatalf("invalid state was accepted: %q", job.JobState)
	}
	if job.Editor != "alex" {
		t.Fatalf("editor = %q", job.Editor)
	}
	if job.DateEdited == result.Job.DateEdited {
		t.Fatal("edit time not stamped")
	}
}

func TestUpdateMissingJob(t *testing.T) {
	registry, _ := newTestRegistry(t)
	err := registry.store.Update(context.Background(), "zzzzzz", "alex", map[string]string{"job_notes": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
