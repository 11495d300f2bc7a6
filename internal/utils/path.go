package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// ConfigDirCandidates lists where app may keep its config, most preferred first:
// the platform config dir (XDG_CONFIG_HOME / APPDATA / os.UserConfigDir), then
// ~/.config/<app>, then the executable's directory.
func ConfigDirCandidates(app string) []string {
	var dirs []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		for _, d := range dirs {
			if d == dir {
				return
			}
		}
		dirs = append(dirs, dir)
	}

	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			add(filepath.Join(xdg, app))
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			add(filepath.Join(appData, app))
		}
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		add(filepath.Join(userDir, app))
	}
	if home, err := os.UserHomeDir(); err == nil {
		add(filepath.Join(home, ".config", app))
	} else {
		log.Warnf("Could not determine home directory: %v", err)
	}
	if execDir, err := ExecutableDir(); err == nil {
		add(execDir)
	}
	return dirs
}

// ResolveConfigDir returns the first candidate directory that is writable.
func ResolveConfigDir(app string) (string, error) {
	candidates := ConfigDirCandidates(app)
	for _, dir := range candidates {
		if CheckDirStatus(dir).Writable {
			log.Debugf("Using config dir %s", dir)
			return dir, nil
		}
	}
	if len(candidates) == 0 {
		return "", os.ErrNotExist
	}
	return "", &os.PathError{Op: "resolve", Path: candidates[0], Err: os.ErrPermission}
}

// ResolveRelativePath anchors a relative path at baseDir.
func ResolveRelativePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
