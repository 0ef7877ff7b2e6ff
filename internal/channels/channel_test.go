package channels

import (
	"reflect"
	"testing"
)

func TestRegistryContainsBothPlatforms(t *testing.T) {
	for _, name := range []string{"discord", "telegram"} {
		if _, ok := GetFactory(name); !ok {
			t.Errorf("factory %q not registered", name)
		}
	}
	if _, ok := GetFactory("carrier-pigeon"); ok {
		t.Error("unexpected factory registered")
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text     string
		prefix   string
		wantCmd  string
		wantArgs []string
		wantOK   bool
	}{
		{"!schedule nft Drop daily", "!", "schedule", []string{"nft", "Drop", "daily"}, true},
		{"/schedules", "/", "schedules", nil, true},
		{"/pause@artcastbot abc-1", "/", "pause", []string{"abc-1"}, true},
		{"!HELP", "!", "help", nil, true},
		{"hello there", "!", "", nil, false},
		{"!", "!", "", nil, false},
		{"!   ", "!", "", nil, false},
		{"/@artcastbot", "/", "", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			cmd, args, ok := parseCommand(tc.text, tc.prefix)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if cmd != tc.wantCmd {
				t.Errorf("cmd = %q, want %q", cmd, tc.wantCmd)
			}
			if len(args) != len(tc.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tc.wantArgs)) {
				t.Errorf("args = %v, want %v", args, tc.wantArgs)
			}
		})
	}
}
