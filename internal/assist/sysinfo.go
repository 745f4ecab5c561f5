package assist

import (
	"os"
	"strings"
)

// SystemInfo identifies the running distribution so the prompt can ask
// for commands that fit it.
type SystemInfo struct {
	DistroName    string
	DistroVersion string
}

// Label renders the distro for prompt interpolation, falling back to a
// generic label when /etc/os-release gave nothing.
func (s SystemInfo) Label() string {
	if s.DistroName == "" {
		return "a Linux system"
	}
	if s.DistroVersion == "" {
		return s.DistroName
	}
	return s.DistroName + " " + s.DistroVersion
}

// DetectSystem parses /etc/os-release. Missing file or fields degrade
// to the generic label rather than failing the run.
func DetectSystem() SystemInfo {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return SystemInfo{}
	}
	return parseOSRelease(string(data))
}

func parseOSRelease(content string) SystemInfo {
	var info SystemInfo
	for _, line := range strings.Split(content, "\n") {
		if v, ok := strings.CutPrefix(line, "NAME="); ok {
			info.DistroName = strings.Trim(v, `"`)
		}
		if v, ok := strings.CutPrefix(line, "VERSION_ID="); ok {
			info.DistroVersion = strings.Trim(v, `"`)
		}
	}
	return info
}
