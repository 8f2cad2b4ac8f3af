package ingest

import (
	"path/filepath"

	"mediadepot/internal/media"
)

// templateFields are the columns a category template may carry. The
// technical columns (path, type, resolution, duration) describe one file
// and never belong in a reusable default.
var templateFields = map[string]bool{
	media.FieldSubject.String():  true,
	media.FieldGenre.String():    true,
	media.FieldSetting.String():  true,
	media.FieldCaptions.String(): true,
	media.FieldTags.String():     true,
	media.FieldLighting.String(): true,
	media.FieldCategory.String(): true,
	media.FieldShotSize.String(): true,
	media.FieldShotType.String(): true,
	media.FieldSource.String():   true,
}

// Templates holds per-category default field sets, refreshed after every
// successful submit. Staleness is the operator's to notice.
type Templates struct {
	path   string
	values map[string]map[string]string
}

// LoadTemplates reads the template file from the state dir, starting empty
// when none exists.
func LoadTemplates(stateDir string) (*Templates, error) {
	t := &Templates{
		path:   filepath.Join(stateDir, templatesFileName),
		values: make(map[string]map[string]string),
	}
	if _, err := readLocked(t.path, &t.values); err != nil {
		return nil, err
	}
	if t.values == nil {
		t.values = make(map[string]map[string]string)
	}
	return t, nil
}

// Get returns a copy of the stored template for a category.
func (t *Templates) Get(category string) map[string]string {
	stored, ok := t.values[category]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(stored))
	for key, value := range stored {
		out[key] = value
	}
	return out
}

// Save records the template-eligible subset of fields as the new default
// for a category and persists the file.
func (t *Templates) Save(category string, fields map[string]string) error {
	filtered := make(map[string]string)
	for key, value := range fields {
		if templateFields[key] && value != "" && value != media.Unknown {
			filtered[key] = value
		}
	}
	t.values[category] = filtered
	return writeLocked(t.path, t.values)
}
