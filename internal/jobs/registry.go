package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"mediadepot/internal/config"
	"mediadepot/internal/depot"
	"mediadepot/internal/logging"
)

// StepResult reports one best-effort post-insert step.
type StepResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// CreateResult is the outcome of a job creation. Warnings lists the steps
// that failed; the insert itself always succeeded when a result is
// returned.
type CreateResult struct {
	Job      *Job         `json:"job"`
	Steps    []StepResult `json:"steps"`
	Warnings []string     `json:"warnings,omitempty"`
}

// CreateParams describes a new job.
type CreateParams struct {
	Base        string
	Creator     string
	DateDue     string
	ChargeMain  string
	ChargeExtra string
	ChargeRnd   string
	Tags        string
	Notes       string
	Apps        []string
}

// Registry drives job creation and the cascading lookup chain.
type Registry struct {
	store    *Store
	cfg      config.Jobs
	resolver *depot.Resolver
	logger   *slog.Logger
	now      func() time.Time
}

// NewRegistry builds a Registry.
func NewRegistry(store *Store, cfg config.Jobs, resolver *depot.Resolver, logger *slog.Logger) *Registry {
	return &Registry{
		store:    store,
		cfg:      cfg,
		resolver: resolver,
		logger:   logging.WithComponent(logger, "jobs"),
		now:      time.Now,
	}
}

// Store exposes the underlying job store for read paths.
func (r *Registry) Store() *Store {
	return r.store
}

// NextName computes the next job name and alias for a base: the revision
// scan finds the highest existing revision for this year's prefix and
// advances it.
func (r *Registry) NextName(ctx context.Context, base string) (string, string, error) {
	if ok, reason := ValidateBaseName(base); !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidBaseName, reason)
	}
	year := YearShort(r.now())
	prefix := fmt.Sprintf("%02d_%s", year, base)
	revisions, err := r.store.RevisionsForPrefix(ctx, prefix)
	if err != nil {
		return "", "", err
	}
	next := NextRevision(MaxRevision(revisions))
	return ComposeName(base, next, year)
}

// Create inserts a new job and runs the three best-effort post steps:
// directory scaffolding, env file, nav file. A step failure becomes a
// warning on the result, never a rollback; only the insert itself can
// fail the operation.
func (r *Registry) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	name, alias, err := r.NextName(ctx, params.Base)
	if err != nil {
		return nil, err
	}

	exists, err := r.store.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrNameConflict, name)
	}

	jobID, err := r.store.GenerateUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	pathJob := filepath.Join(r.cfg.ProjectsNetworkDir, name)
	pathRnd := ""
	if r.cfg.RenderNetworkDir != "" {
		pathRnd = filepath.Join(r.cfg.RenderNetworkDir, name)
	}

	job := &Job{
		JobID:       jobID,
		JobName:     name,
		JobAlias:    alias,
		JobState:    string(StateActive),
		JobYear:     strconv.Itoa(YearShort(now)),
		Creator:     params.Creator,
		Editor:      params.Creator,
		DateCreated: now.Format(time.RFC3339),
		DateEdited:  now.Format(time.RFC3339),
		DateDue:     params.DateDue,
		ChargeMain:  params.ChargeMain,
		ChargeExtra: params.ChargeExtra,
		ChargeRnd:   params.ChargeRnd,
		Tags:        DedupTags(params.Tags),
		Notes:       params.Notes,
		PathJob:     r.resolver.Symbolic(pathJob),
		PathRnd:     r.resolver.Symbolic(pathRnd),
		Apps:        SerializeApps(params.Apps),
	}
	if err := r.store.Insert(ctx, job); err != nil {
		return nil, err
	}

	result := &CreateResult{Job: job}
	result.addStep(r.stepDirectories(pathJob, pathRnd, params.Apps))
	result.addStep(r.stepEnvFile(name, pathJob, pathRnd, job.JobYear))
	result.addStep(r.stepNavFile(ctx))

	r.logger.Info("job created",
		logging.String("job_id", jobID),
		logging.String("job_name", name),
		logging.Int("warnings", len(result.Warnings)))
	return result, nil
}

func (c *CreateResult) addStep(step StepResult) {
	c.Steps = append(c.Steps, step)
	if !step.OK {
		c.Warnings = append(c.Warnings, step.Name+": "+step.Detail)
	}
}

func (r *Registry) stepDirectories(pathJob, pathRnd string, apps []string) StepResult {
	step := StepResult{Name: "directories", OK: true}
	if err := ScaffoldDirs(pathJob, pathRnd, apps); err != nil {
		step.OK = false
		step.Detail = err.Error()
	}
	return step
}

func (r *Registry) stepEnvFile(name, pathJob, pathRnd, year string) StepResult {
	step := StepResult{Name: "env_file", OK: true}
	if r.cfg.EnvTemplatePath == "" {
		step.Detail = "not configured"
		return step
	}
	if err := WriteEnvFile(r.cfg.EnvTemplatePath, name, pathJob, pathRnd, year); err != nil {
		step.OK = false
		step.Detail = err.Error()
	}
	return step
}

func (r *Registry) stepNavFile(ctx context.Context) StepResult {
	step := StepResult{Name: "nav_file", OK: true}
	if r.cfg.NavFilePath == "" {
		step.Detail = "not configured"
		return step
	}
	jobList, err := r.store.List(ctx)
	if err != nil {
		step.OK = false
		step.Detail = err.Error()
		return step
	}
	for i := range jobList {
		jobList[i].PathJob = r.resolver.Expand(jobList[i].PathJob)
	}
	if err := WriteNavFile(r.cfg.NavFilePath, jobList); err != nil {
		step.OK = false
		step.Detail = err.Error()
	}
	return step
}

// Years is the first stage of the cascading lookup chain.
func (r *Registry) Years(ctx context.Context) ([]string, error) {
	return r.store.Years(ctx)
}

// ProjectsForYear lists the year's projects with expanded paths.
func (r *Registry) ProjectsForYear(ctx context.Context, year string) ([]ProjectRef, error) {
	refs, err := r.store.ProjectsForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	for i := range refs {
		refs[i].Path = r.resolver.Expand(refs[i].Path)
	}
	return refs, nil
}

// AppsForProject lists the applications recorded on a job.
func (r *Registry) AppsForProject(ctx context.Context, name string) ([]string, error) {
	job, err := r.store.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return ParseApps(job.Apps), nil
}
