package deps

import (
	"os"
	"os/exec"
	"strings"

	"github.com/miniArray/voicepipe/internal/models/whisper"
)

// Status represents the installation status of an external dependency
type Status struct {
	Name      string
	Installed bool
	Path      string
	Version   string
}

func checkBinary(name, versionFlag string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Name: name, Installed: false}
	}

	status := Status{
		Name:      name,
		Installed: true,
		Path:      path,
	}

	if versionFlag == "" {
		return status
	}

	// first output line carries the version string
	output, err := exec.Command(path, versionFlag).Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

// CheckPwRecord checks if the PipeWire recording tool is installed
func CheckPwRecord() Status {
	return checkBinary("pw-record", "--version")
}

// CheckWhisperCli checks if whisper-cli is installed and returns its status
func CheckWhisperCli() Status {
	return checkBinary("whisper-cli", "--version")
}

// CheckWhisperModel reports whether a whisper model file exists at path.
// An empty path falls back to the default model location.
func CheckWhisperModel(path string) Status {
	if path == "" {
		path = whisper.GetModelPath(whisper.DefaultModelID)
		if path == "" {
			return Status{Name: "whisper model"}
		}
	}

	status := Status{Name: "whisper model", Path: path}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		status.Installed = true
	}
	return status
}
