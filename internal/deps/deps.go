package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool mediadepot shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external tools the given probe binaries map to.
// ffprobe drives metadata extraction during ingestion; ffmpeg is only
// needed for archive transcodes and thumbnail capture.
func Requirements(ffprobeBin, ffmpegBin string) []Requirement {
	return []Requirement{
		{
			Name:        "ffprobe",
			Command:     ffprobeBin,
			Description: "Reads resolution, duration, and format during ingestion",
		},
		{
			Name:        "ffmpeg",
			Command:     ffmpegBin,
			Description: "Transcodes archive videos and captures thumbnails",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
		} else {
			status.Command = resolved
			status.Available = true
			results = append(results, status)
		}
	}
	return results
}
