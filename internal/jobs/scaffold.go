package jobs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScaffoldDirs creates the job's directory tree: the job path with one
// subtree per selected application (from the static layout) and the
// render path.
func ScaffoldDirs(pathJob, pathRnd string, apps []string) error {
	if err := os.MkdirAll(pathJob, 0o755); err != nil {
		return fmt.Errorf("create job directory: %w", err)
	}
	for _, app := range apps {
		for _, subdir := range SubdirsForApp(app) {
			dir := filepath.Join(pathJob, strings.ToLower(app), subdir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
	}
	if pathRnd != "" {
		if err := os.MkdirAll(pathRnd, 0o755); err != nil {
			return fmt.Errorf("create render directory: %w", err)
		}
	}
	return nil
}

// envTokens are the placeholders substituted line by line in the env
// template.
func envTokens(jobName, pathJob, pathRnd, jobYear string) map[string]string {
	return map[string]string{
		"{JOB_NAME}": jobName,
		"{JOB_PATH}": pathJob,
		"{RND_PATH}": pathRnd,
		"{JOB_YEAR}": jobYear,
	}
}

// WriteEnvFile runs a token-substitution pass over the template and
// writes the result as job.env inside the job directory.
func WriteEnvFile(templatePath, jobName, pathJob, pathRnd, jobYear string) error {
	template, err := os.Open(templatePath)
	if err != nil {
		return fmt.Errorf("open env template: %w", err)
	}
	defer template.Close()

	tokens := envTokens(jobName, pathJob, pathRnd, jobYear)
	var out strings.Builder
	scanner := bufio.NewScanner(template)
	for scanner.Scan() {
		line := scanner.Text()
		for token, value := range tokens {
			line = strings.ReplaceAll(line, token, value)
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read env template: %w", err)
	}

	dest := filepath.Join(pathJob, "job.env")
	if err := os.WriteFile(dest, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

// WriteNavFile regenerates the shared alias file enumerating every known
// job as "alias=path" lines, sorted by alias.
func WriteNavFile(navPath string, jobList []Job) error {
	entries := make([]string, 0, len(jobList))
	for _, job := range jobList {
		if job.JobAlias == "" || job.JobState == string(StateDeleted) {
			continue
		}
		entries = append(entries, job.JobAlias+"="+job.PathJob)
	}
	sort.Strings(entries)

	if err := os.MkdirAll(filepath.Dir(navPath), 0o755); err != nil {
		return fmt.Errorf("create nav directory: %w", err)
	}
	content := strings.Join(entries, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(navPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write nav file: %w", err)
	}
	return nil
}
