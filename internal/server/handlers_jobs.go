package server

import (
	"net/http"

	"mediadepot/internal/jobs"
)

func (s *Server) handleJobList(w http.ResponseWriter, r *http.Request) {
	list, err := s.jobs.Store().List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"jobs": list})
}

func (s *Server) handleJobYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.jobs.Years(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"years": years})
}

func (s *Server) handleJobProjects(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if year == "" {
		writeError(w, badRequest("year is required"))
		return
	}
	projects, err := s.jobs.ProjectsForYear(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"projects": projects})
}

func (s *Server) handleJobApps(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("project")
	if name == "" {
		writeSuccess(w, envelope{"apps": jobs.KnownApps()})
		return
	}
	apps, err := s.jobs.AppsForProject(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"apps": apps})
}

func (s *Server) handleJobSubdirs(w http.ResponseWriter, r *http.Request) {
	app := r.URL.Query().Get("app")
	if app == "" {
		writeError(w, badRequest("app is required"))
		return
	}
	subdirs := jobs.SubdirsForApp(app)
	if len(subdirs) == 0 {
		writeError(w, badRequest("unknown app: "+app))
		return
	}
	writeSuccess(w, envelope{"subdirs": subdirs})
}

// handleJobValidate checks a base name and, when valid, previews the
// name and alias the next creation would assign.
func (s *Server) handleJobValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base string `json:"base"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if ok, reason := jobs.ValidateBaseName(req.Base); !ok {
		writeSuccess(w, envelope{"valid": false, "reason": reason})
		return
	}
	name, alias, err := s.jobs.NextName(r.Context(), req.Base)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"valid": true, "name": name, "alias": alias})
}

func (s *Server) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base        string   `json:"base"`
		Creator     string   `json:"creator"`
		DateDue     string   `json:"date_due"`
		ChargeMain  string   `json:"charge_main"`
		ChargeExtra string   `json:"charge_extra"`
		ChargeRnd   string   `json:"charge_rnd"`
		Tags        string   `json:"tags"`
		Notes       string   `json:"notes"`
		Apps        []string `json:"apps"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.jobs.Create(r.Context(), jobs.CreateParams{
		Base:        req.Base,
		Creator:     req.Creator,
		DateDue:     req.DateDue,
		ChargeMain:  req.ChargeMain,
		ChargeExtra: req.ChargeExtra,
		ChargeRnd:   req.ChargeRnd,
		Tags:        req.Tags,
		Notes:       req.Notes,
		Apps:        req.Apps,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	payload := envelope{
		"success": true,
		"job":     result.Job,
		"steps":   result.Steps,
	}
	if len(result.Warnings) > 0 {
		payload["warnings"] = result.Warnings
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleJobUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID  string            `json:"job_id"`
		Editor string            `json:"editor"`
		Fields map[string]string `json:"fields"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.JobID == "" {
		writeError(w, badRequest("job_id is required"))
		return
	}
	if err := s.jobs.Store().Update(r.Context(), req.JobID, req.Editor, req.Fields); err != nil {
		writeError(w, err)
		return
	}
	job, err := s.jobs.Store().Get(r.Context(), req.JobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"job": job})
}
