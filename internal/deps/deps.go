// Package deps reports whether the external programs and files subalign
// relies on are present.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency.
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
	Resolved    string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries looks every requirement up on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := newStatus(req)
		switch resolved, err := exec.LookPath(status.Command); {
		case status.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		default:
			status.Available = true
			status.Resolved = resolved
		}
		results = append(results, status)
	}
	return results
}

// CheckFile treats req.Command as a path to a regular, readable file.
func CheckFile(req Requirement) Status {
	status := newStatus(req)
	if status.Command == "" {
		status.Detail = "path not configured"
		return status
	}
	info, err := os.Stat(status.Command)
	switch {
	case err != nil && os.IsNotExist(err):
		status.Detail = "file does not exist"
	case err != nil:
		status.Detail = fmt.Sprintf("stat: %v", err)
	case !info.Mode().IsRegular():
		status.Detail = "not a regular file"
	default:
		f, err := os.Open(status.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("open: %v", err)
			break
		}
		_ = f.Close()
		status.Available = true
		status.Resolved = status.Command
	}
	return status
}

func newStatus(req Requirement) Status {
	return Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
}
