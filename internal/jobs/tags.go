package jobs

import "strings"

// DedupTags normalizes a comma-separated tag list: entries are trimmed,
// empties dropped, and duplicates collapse case-insensitively while the
// first-seen casing and order win.
func DedupTags(tags string) string {
	seen := make(map[string]bool)
	var kept []string
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, tag)
	}
	return strings.Join(kept, ", ")
}
