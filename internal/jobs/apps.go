package jobs

import "strings"

// appSubdirs is the static application -> subdirectory layout used for
// scaffolding and the cascading lookup chain. It is configuration, not
// database state.
var appSubdirs = map[string][]string{
	"adobe":     {"aep", "prproj", "psd", "ai", "exports"},
	"houdini":   {"hip", "geo", "sim", "render"},
	"maya":      {"scenes", "sourceimages", "cache", "images"},
	"microsoft": {"docs", "sheets", "decks"},
}

// KnownApps returns the application names with a static layout, sorted by
// the fixed display order.
func KnownApps() []string {
	return []string{"adobe", "houdini", "maya", "microsoft"}
}

// SubdirsForApp returns the static subdirectory list for an application.
// Unknown applications get no subdirectories.
func SubdirsForApp(app string) []string {
	dirs := appSubdirs[strings.ToLower(strings.TrimSpace(app))]
	return append([]string(nil), dirs...)
}

// ParseApps splits a job's serialized comma-list of application names.
func ParseApps(serialized string) []string {
	var apps []string
	for _, app := range strings.Split(serialized, ",") {
		app = strings.TrimSpace(app)
		if app != "" {
			apps = append(apps, app)
		}
	}
	return apps
}

// SerializeApps joins application names into the stored comma-list form.
func SerializeApps(apps []string) string {
	var kept []string
	for _, app := range apps {
		app = strings.ToLower(strings.TrimSpace(app))
		if app != "" {
			kept = append(kept, app)
		}
	}
	return strings.Join(kept, ",")
}
