package whisper

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetModelsDir(t *testing.T) {
	dir, err := GetModelsDir()
	if err != nil {
		t.Fatalf("GetModelsDir() error = %v", err)
	}

	if strings.Contains(dir, "~") {
		t.Errorf("GetModelsDir() contains ~, got %s", dir)
	}
	if !strings.HasSuffix(dir, filepath.Join(".local", "share", "voicepipe", "models", "whisper")) {
		t.Errorf("GetModelsDir() = %s, want path ending with .local/share/voicepipe/models/whisper", dir)
	}
}

func TestGetModelPath(t *testing.T) {
	tests := []struct {
		modelID string
		wantEnd string
	}{
		{"base.en", "ggml-base.en.bin"},
		{"tiny", "ggml-tiny.bin"},
		{"large-v3", "ggml-large-v3.bin"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			got := GetModelPath(tt.modelID)
			if tt.wantEnd == "" {
				if got != "" {
					t.Errorf("GetModelPath(%q) = %s, want empty", tt.modelID, got)
				}
				return
			}
			if !strings.HasSuffix(got, tt.wantEnd) {
				t.Errorf("GetModelPath(%q) = %s, want ending with %s", tt.modelID, got, tt.wantEnd)
			}
		})
	}
}

func TestGetDownloadURL(t *testing.T) {
	tests := []struct {
		modelID string
		wantURL string
	}{
		{"base.en", "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.en.bin"},
		{"tiny", "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			got := GetDownloadURL(tt.modelID)
			if got != tt.wantURL {
				t.Errorf("GetDownloadURL(%q) = %s, want %s", tt.modelID, got, tt.wantURL)
			}
		})
	}
}

func TestGetModel(t *testing.T) {
	t.Run("known model", func(t *testing.T) {
		info := GetModel("base.en")
		if info == nil {
			t.Fatal("GetModel(base.en) = nil, want non-nil")
		}
		if info.ID != "base.en" {
			t.Errorf("info.ID = %s, want base.en", info.ID)
		}
		if info.Filename != "ggml-base.en.bin" {
			t.Errorf("info.Filename = %s, want ggml-base.en.bin", info.Filename)
		}
		if info.Multilingual {
			t.Error("base.en should not be multilingual")
		}
	})

	t.Run("multilingual model", func(t *testing.T) {
		info := GetModel("base")
		if info == nil {
			t.Fatal("GetModel(base) = nil, want non-nil")
		}
		if !info.Multilingual {
			t.Error("base should be multilingual")
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		if info := GetModel("unknown"); info != nil {
			t.Errorf("GetModel(unknown) = %v, want nil", info)
		}
	})
}

func TestDefaultModelExists(t *testing.T) {
	if GetModel(DefaultModelID) == nil {
		t.Errorf("default model %q is not in the registry", DefaultModelID)
	}
}

func TestListModels(t *testing.T) {
	models := ListModels()
	if len(models) != 9 {
		t.Errorf("ListModels() returned %d models, want 9", len(models))
	}

	ids := make(map[string]bool)
	for _, m := range models {
		ids[m.ID] = true
	}

	expected := []string{"tiny.en", "base.en", "small.en", "medium.en", "tiny", "base", "small", "medium", "large-v3"}
	for _, id := range expected {
		if !ids[id] {
			t.Errorf("ListModels() missing model %s", id)
		}
	}
}

func TestIsInstalled_UnknownModel(t *testing.T) {
	if IsInstalled("unknown-model") {
		t.Error("IsInstalled(unknown-model) = true, want false")
	}
}

func TestDownload_UnknownModel(t *testing.T) {
	err := Download(context.Background(), "unknown-model", nil)
	if err == nil {
		t.Fatal("Download(unknown-model) = nil, want error")
	}
	if !strings.Contains(err.Error(), "unknown model") {
		t.Errorf("Download error = %v, want error containing 'unknown model'", err)
	}
}

func TestDownload_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Download(ctx, "tiny.en", nil); err == nil {
		t.Error("Download with cancelled context = nil, want error")
	}
}

func TestRemove_NotInstalled(t *testing.T) {
	err := Remove("large-v3")
	if err == nil {
		t.Skip("large-v3 is installed, skipping test")
	}
	if !strings.Contains(err.Error(), "not installed") {
		t.Errorf("Remove error = %v, want error containing 'not installed'", err)
	}
}

func TestRemove_UnknownModel(t *testing.T) {
	err := Remove("unknown-model")
	if err == nil {
		t.Fatal("Remove(unknown-model) = nil, want error")
	}
	if !strings.Contains(err.Error(), "unknown model") {
		t.Errorf("Remove error = %v, want error containing 'unknown model'", err)
	}
}

func TestModelInfo_HasAllFields(t *testing.T) {
	for _, m := range ListModels() {
		if m.ID == "" {
			t.Error("model has empty ID")
		}
		if m.Name == "" {
			t.Errorf("model %s has empty Name", m.ID)
		}
		if m.Filename == "" {
			t.Errorf("model %s has empty Filename", m.ID)
		}
		if m.SizeBytes <= 0 {
			t.Errorf("model %s has invalid SizeBytes: %d", m.ID, m.SizeBytes)
		}
	}
}
