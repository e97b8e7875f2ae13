package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"subalign/internal/config"
	"subalign/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll evaluates tools, the voice model and the cache directory.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}
	results = append(results, fromStatus(deps.CheckFile(deps.Requirement{
		Name:        "Silero VAD model",
		Command:     cfg.VAD.ModelPath,
		Description: "Required when the reference is a media file",
	})))
	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Cache.Dir, true))
	}
	return results
}

// CheckSystemDeps looks up the external programs used to decode media.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.VAD.FFmpegBinary,
			Description: "Decodes audio of media references",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.VAD.FFprobeBinary,
			Description: "Reports media duration for progress",
			Optional:    true,
		},
	})
}

// CheckDirectoryAccess verifies that the directory exists and can be
// written. Optional results do not fail a run.
func CheckDirectoryAccess(name, path string, optional bool) Result {
	result := Result{Name: name, Optional: optional}
	info, err := os.Stat(path)
	switch {
	case err != nil && os.IsNotExist(err):
		result.Detail = fmt.Sprintf("%s (error: does not exist)", path)
	case err != nil:
		result.Detail = fmt.Sprintf("%s (error: stat: %v)", path, err)
	case !info.IsDir():
		result.Detail = fmt.Sprintf("%s (error: is not a directory)", path)
	default:
		if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
			result.Detail = fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)
			break
		}
		result.Passed = true
		result.Detail = fmt.Sprintf("%s (write ok)", path)
	}
	return result
}

// CheckOutputPath verifies that the output file can be created in its
// directory.
func CheckOutputPath(path string) Result {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Name: "Output directory", Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return CheckDirectoryAccess("Output directory", filepath.Dir(abs), false)
}

// Failed returns the required results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Resolved
	}
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Optional: status.Optional,
		Detail:   detail,
	}
}
