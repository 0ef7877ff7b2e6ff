package commands

import "testing"

func TestToCron(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"hourly", "0 * * * *", false},
		{"daily", "0 12 * * *", false},
		{"weekly", "0 12 * * 1", false},
		{"Daily", "0 12 * * *", false},
		{"every 5 minutes", "*/5 * * * *", false},
		{"every 1 minute", "*/1 * * * *", false},
		{"every 59 minutes", "*/59 * * * *", false},
		{"every 2 hours", "0 */2 * * *", false},
		{"every 23 hours", "0 */23 * * *", false},
		{"0 9 * * 5", "0 9 * * 5", false},
		{"@every 10m", "@every 10m", false},
		{"every 0 minutes", "", true},
		{"every 60 minutes", "", true},
		{"every 24 hours", "", true},
		{"every banana minutes", "", true},
		{"soonish", "", true},
		{"* * *", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ToCron(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ToCron(%q) = %q, expected error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToCron(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ToCron(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
