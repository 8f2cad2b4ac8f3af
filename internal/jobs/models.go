package jobs

// State is a job's lifecycle stage.
type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
	StateDeleted  State = "deleted"
)

// Valid reports whether the state is a known value.
func (s State) Valid() bool {
	switch s {
	case StateActive, StateArchived, StateDeleted:
		return true
	}
	return false
}

// Job is one row of the project registry.
type Job struct {
	JobID       string `db:"job_id" json:"job_id"`
	JobName     string `db:"job_name" json:"job_name"`
	JobAlias    string `db:"job_alias" json:"job_alias"`
	JobState    string `db:"job_state" json:"job_state"`
	JobYear     string `db:"job_year" json:"job_year"`
	Creator     string `db:"job_creator" json:"job_creator"`
	Editor      string `db:"job_editor" json:"job_editor"`
	DateCreated string `db:"job_date_created" json:"job_date_created"`
	DateEdited  string `db:"job_date_edited" json:"job_date_edited"`
	DateDue     string `db:"job_date_due" json:"job_date_due"`
	ChargeMain  string `db:"job_charge_main" json:"job_charge_main"`
	ChargeExtra string `db:"job_charge_extra" json:"job_charge_extra"`
	ChargeRnd   string `db:"job_charge_rnd" json:"job_charge_rnd"`
	Tags        string `db:"job_tags" json:"job_tags"`
	Notes       string `db:"job_notes" json:"job_notes"`
	PathJob     string `db:"job_path_job" json:"job_path_job"`
	PathRnd     string `db:"job_path_rnd" json:"job_path_rnd"`
	Apps        string `db:"job_apps" json:"job_apps"`
}

// ProjectRef is one entry of the year -> project lookup chain.
type ProjectRef struct {
	Name string `db:"job_name" json:"name"`
	Path string `db:"job_path_job" json:"path"`
}
