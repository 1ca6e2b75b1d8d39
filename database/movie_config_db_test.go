package database

import "testing"

func TestSetMovieConfigRoundTrip(t *testing.T) {
	db := openTestDB(t)

	want := MovieConfig{DurationSec: 2.5, FrameRate: 12, Width: 640, Height: 480}
	if err := SetMovieConfig(db, want); err != nil {
		t.Fatalf("SetMovieConfig failed: %v", err)
	}

	got, err := GetMovieConfig(db)
	if err != nil {
		t.Fatalf("GetMovieConfig failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSetMovieConfigRejectsInvalid(t *testing.T) {
	db := openTestDB(t)

	bad := []MovieConfig{
		{DurationSec: 0, FrameRate: 24, Width: 1920, Height: 1080},
		{DurationSec: 10, FrameRate: 0.5, Width: 1920, Height: 1080},
		{DurationSec: 10, FrameRate: 24, Width: 0, Height: 1080},
		{DurationSec: 10, FrameRate: 24, Width: MaxMovieWidth + 1, Height: 1080},
		{DurationSec: 10, FrameRate: 24, Width: 1920, Height: MaxMovieHeight + 1},
	}
	for _, cfg := range bad {
		if err := SetMovieConfig(db, cfg); err == nil {
			t.Errorf("expected %+v to be rejected", cfg)
		}
	}

	// rejected writes must leave the stored row untouched
	got, err := GetMovieConfig(db)
	if err != nil {
		t.Fatalf("GetMovieConfig failed: %v", err)
	}
	if got != DefaultMovieConfig() {
		t.Errorf("expected defaults to survive rejected writes, got %+v", got)
	}
}
