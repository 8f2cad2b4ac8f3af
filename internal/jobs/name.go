package jobs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	baseNameMinLen = 4
	baseNameMaxLen = 10
)

// ValidateBaseName checks a job base name: 4-10 characters, lowercase
// letters, digits, and underscores only, starting and ending with a
// letter, with no consecutive underscores. Returns ok plus a reason
// usable directly in a response payload.
func ValidateBaseName(base string) (bool, string) {
	if len(base) < baseNameMinLen {
		return false, fmt.Sprintf("base name must be at least %d characters", baseNameMinLen)
	}
	if len(base) > baseNameMaxLen {
		return false, fmt.Sprintf("base name must be at most %d characters", baseNameMaxLen)
	}
	for _, r := range base {
		if !isLower(r) && !isDigit(r) && r != '_' {
			return false, "base name may only contain lowercase letters, digits, and underscores"
		}
	}
	if !isLower(rune(base[0])) {
		return false, "base name must start with a letter"
	}
	if !isLower(rune(base[len(base)-1])) {
		return false, "base name must end with a letter"
	}
	if strings.Contains(base, "__") {
		return false, "base name must not contain consecutive underscores"
	}
	return true, ""
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// NextRevision advances a revision token: '' -> a, a -> b, z -> a1,
// z1 -> a2. The single pass through z before the numeric suffix is the
// registry's historical scheme.
func NextRevision(current string) string {
	if current == "" {
		return "a"
	}
	letter := current[0]
	suffix := current[1:]
	if letter != 'z' {
		return string(letter+1) + suffix
	}
	n := 0
	if suffix != "" {
		parsed, err := strconv.Atoi(suffix)
		if err != nil {
			return "a"
		}
		n = parsed
	}
	return "a" + strconv.Itoa(n+1)
}

// revisionRank orders revision tokens: the numeric suffix dominates, the
// letter breaks ties. Unparseable tokens rank lowest.
func revisionRank(revision string) (int, bool) {
	if revision == "" {
		return -1, false
	}
	letter := revision[0]
	if !isLower(rune(letter)) {
		return -1, false
	}
	n := 0
	if suffix := revision[1:]; suffix != "" {
		parsed, err := strconv.Atoi(suffix)
		if err != nil {
			return -1, false
		}
		n = parsed
	}
	return n*26 + int(letter-'a'), true
}

// MaxRevision returns the highest-ranked revision token in the list, or
// "" when none parses.
func MaxRevision(revisions []string) string {
	best := ""
	bestRank := -1
	for _, revision := range revisions {
		rank, ok := revisionRank(revision)
		if ok && rank > bestRank {
			best = revision
			bestRank = rank
		}
	}
	return best
}

// ComposeName builds the job name and alias for a validated base. The
// year is its two-digit short form.
func ComposeName(base, revision string, year int) (string, string, error) {
	if ok, reason := ValidateBaseName(base); !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidBaseName, reason)
	}
	short := year % 100
	name := fmt.Sprintf("%02d_%s_%s", short, base, revision)
	alias := fmt.Sprintf("%s%02d", base, short)
	return name, alias, nil
}

// YearShort returns the current two-digit year, the default for new jobs.
func YearShort(now time.Time) int {
	return now.Year() % 100
}
