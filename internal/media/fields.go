package media

import "fmt"

// Field names a column of the asset tables. Only values of this type are
// ever interpolated into generated SQL; raw request strings must pass
// through one of the Parse helpers first.
type Field string

const (
	FieldFileID         Field = "file_id"
	FieldFileName       Field = "file_name"
	FieldFilePath       Field = "file_path"
	FieldFileType       Field = "file_type"
	FieldFileFormat     Field = "file_format"
	FieldFileResolution Field = "file_resolution"
	FieldFileDuration   Field = "file_duration"
	FieldShotSize       Field = "shot_size"
	FieldShotType       Field = "shot_type"
	FieldSource         Field = "source"
	FieldSourceID       Field = "source_id"
	FieldGenre          Field = "genre"
	FieldSubject        Field = "subject"
	FieldCategory       Field = "category"
	FieldLighting       Field = "lighting"
	FieldSetting        Field = "setting"
	FieldTags           Field = "tags"
	FieldCaptions       Field = "captions"
)

// allColumns is the full insert template in schema order.
var allColumns = []Field{
	FieldFileID, FieldFileName, FieldFilePath, FieldFileType,
	FieldFileFormat, FieldFileResolution, FieldFileDuration,
	FieldShotSize, FieldShotType, FieldSource, FieldSourceID,
	FieldGenre, FieldSubject, FieldCategory, FieldLighting,
	FieldSetting, FieldTags, FieldCaptions,
}

// editableFields is the mutation allow-list. Edits naming any other column
// are dropped without error; the field name is interpolated into SQL, so
// the list is the security boundary.
var editableFields = map[Field]bool{
	FieldSubject:  true,
	FieldGenre:    true,
	FieldSetting:  true,
	FieldCaptions: true,
	FieldTags:     true,
	FieldLighting: true,
	FieldCategory: true,
}

// countableFields extends the editable set with file_type for the
// frequency counts behind the word-cloud view.
var countableFields = map[Field]bool{
	FieldFileType: true,
	FieldSubject:  true,
	FieldGenre:    true,
	FieldSetting:  true,
	FieldCaptions: true,
	FieldTags:     true,
	FieldLighting: true,
	FieldCategory: true,
}

// searchableFields are the single-field targets the query builder accepts.
var searchableFields = map[Field]bool{
	FieldSubject:  true,
	FieldCaptions: true,
	FieldSetting:  true,
	FieldLighting: true,
	FieldFileType: true,
	FieldGenre:    true,
	FieldCategory: true,
}

// ParseEditableField validates a field name against the mutation allow-list.
func ParseEditableField(name string) (Field, bool) {
	f := Field(name)
	return f, editableFields[f]
}

// ParseCountableField validates a field name for frequency counting.
func ParseCountableField(name string) (Field, error) {
	f := Field(name)
	if !countableFields[f] {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return f, nil
}

// ParseSearchableField validates a single-field search target.
func ParseSearchableField(name string) (Field, error) {
	f := Field(name)
	if !searchableFields[f] {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return f, nil
}

func (f Field) String() string {
	return string(f)
}
