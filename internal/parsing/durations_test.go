package parsing

import "testing"

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	if got := FormatDuration(0); got != "Unknown" {
		t.Fatalf("expected Unknown for zero seconds, got %q", got)
	}
	if got := FormatDuration(59); got != "00:59" {
		t.Fatalf("expected 00:59, got %q", got)
	}
	if got := FormatDuration(3599); got != "59:59" {
		t.Fatalf("expected 59:59, got %q", got)
	}
	if got := FormatDuration(3600); got != "01:00:00" {
		t.Fatalf("expected 01:00:00, got %q", got)
	}
	if got := FormatDuration(7322); got != "02:02:02" {
		t.Fatalf("expected 02:02:02, got %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	t.Parallel()

	if got := FormatCount(0); got != "N/A" {
		t.Fatalf("expected N/A for zero count, got %q", got)
	}
	if got := FormatCount(999); got != "999" {
		t.Fatalf("expected 999, got %q", got)
	}
	if got := FormatCount(1200); got != "1.2K" {
		t.Fatalf("expected 1.2K, got %q", got)
	}
	if got := FormatCount(3_400_000); got != "3.4M" {
		t.Fatalf("expected 3.4M, got %q", got)
	}
}

func TestHyphenateYyyyMmDd(t *testing.T) {
	t.Parallel()

	if got := HyphenateYyyyMmDd("20240115"); got != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %q", got)
	}
	if got := HyphenateYyyyMmDd("2024-01-15"); got != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %q", got)
	}
	if got := HyphenateYyyyMmDd("2024"); got != "2024" {
		t.Fatalf("short input should pass through, got %q", got)
	}
}
