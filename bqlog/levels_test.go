package bqlog

import "testing"

func TestParseLevel(t *testing.T) {
	testcases := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"fatal", LevelFatal},
		{"off", LevelOff},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("got %v", LevelWarn.String())
	}
	if Level(3).String() != "Level(3)" {
		t.Errorf("got %v", Level(3).String())
	}
}
