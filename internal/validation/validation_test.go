package validation

import (
	"path/filepath"
	"testing"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	good := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=abc-123_x",
		"https://www.youtube.com/playlist?list=PLabc123",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/channel/UCabc",
		"https://www.youtube.com/@somehandle",
	}
	for _, u := range good {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected %q to validate, got: %v", u, err)
		}
	}

	bad := []string{
		"",
		"not a url",
		"https://example.com/watch?v=abc",
		"ftp://youtube.com/watch?v=abc",
	}
	for _, u := range bad {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected %q to be rejected", u)
		}
	}
}

func TestIsCollectionURL(t *testing.T) {
	t.Parallel()

	if !IsCollectionURL("https://www.youtube.com/playlist?list=PLabc") {
		t.Fatal("playlist URL not detected as collection")
	}
	if !IsCollectionURL("https://www.youtube.com/watch?v=abc&list=PLabc") {
		t.Fatal("watch URL with list param not detected as collection")
	}
	if IsCollectionURL("https://www.youtube.com/watch?v=abc") {
		t.Fatal("plain watch URL wrongly detected as collection")
	}
}

func TestValidateDirectory(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()

	info, err := ValidateDirectory(tmp, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info == nil || !info.IsDir() {
		t.Fatal("expected directory info")
	}

	missing := filepath.Join(tmp, "does_not_exist")
	if _, err := ValidateDirectory(missing, false); err == nil {
		t.Fatal("expected error for non-existent path")
	}

	if _, err := ValidateDirectory(missing, true); err != nil {
		t.Fatalf("expected directory creation, got %v", err)
	}
}
