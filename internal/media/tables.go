package media

import "fmt"

// Table identifies one of the two asset tables. The set is closed: a Table
// value is the only thing ever interpolated into SQL as a table name.
type Table string

const (
	// TableProject holds active production assets.
	TableProject Table = "media_proj"
	// TableArchive holds archived assets.
	TableArchive Table = "media_arch"
)

var allTables = []Table{TableProject, TableArchive}

// Tables returns both asset tables in a fixed order.
func Tables() []Table {
	return append([]Table(nil), allTables...)
}

// ParseTable validates an externally supplied table name.
func ParseTable(name string) (Table, error) {
	for _, t := range allTables {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTable, name)
}

// Other returns the opposite asset table, used by cross-table sync.
func (t Table) Other() Table {
	if t == TableProject {
		return TableArchive
	}
	return TableProject
}

func (t Table) String() string {
	return string(t)
}
