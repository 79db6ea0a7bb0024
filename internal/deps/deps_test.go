package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestCheckWhisperCli(t *testing.T) {
	status := CheckWhisperCli()

	// behavior depends on system - just verify no panic and correct structure
	if status.Installed {
		if status.Path == "" {
			t.Error("installed but path empty")
		}
	} else {
		if status.Path != "" {
			t.Error("not installed but path non-empty")
		}
	}
}

func TestCheckWhisperCli_NotInstalled(t *testing.T) {
	// if whisper-cli is not in PATH, should return Installed=false
	_, err := exec.LookPath("whisper-cli")
	if err != nil {
		status := CheckWhisperCli()
		if status.Installed {
			t.Error("expected Installed=false when whisper-cli not in PATH")
		}
		if status.Path != "" {
			t.Error("expected empty path when not installed")
		}
	} else {
		t.Skip("whisper-cli is installed, can't test not-installed case")
	}
}

func TestCheckPwRecord(t *testing.T) {
	status := CheckPwRecord()

	if status.Installed {
		if status.Path == "" {
			t.Error("installed but path empty")
		}
	} else {
		if status.Path != "" {
			t.Error("not installed but path non-empty")
		}
	}
}

func TestCheckWhisperModel(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		status := CheckWhisperModel(filepath.Join(dir, "missing.bin"))
		if status.Installed {
			t.Error("expected Installed=false for missing model file")
		}
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "model.bin")
		if err := os.WriteFile(path, []byte("fake"), 0o644); err != nil {
			t.Fatal(err)
		}
		status := CheckWhisperModel(path)
		if !status.Installed {
			t.Error("expected Installed=true for existing model file")
		}
		if status.Path != path {
			t.Errorf("path = %q, want %q", status.Path, path)
		}
	})

	t.Run("directory is not a model", func(t *testing.T) {
		status := CheckWhisperModel(dir)
		if status.Installed {
			t.Error("expected Installed=false for directory path")
		}
	})
}
