package db

import "testing"

func TestParseVersion(t *testing.T) {
	cases := []struct {
		name    string
		version int
		wantErr bool
	}{
		{name: "0001_create_users.sql", version: 1},
		{name: "0002_create_messages.sql", version: 2},
		{name: "42_add_index.sql", version: 42},
		{name: "create_users.sql", wantErr: true},
		{name: "_leading_underscore.sql", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tc := range cases {
		version, err := parseVersion(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseVersion(%q): expected error, got version %d", tc.name, version)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseVersion(%q): unexpected error: %v", tc.name, err)
			continue
		}
		if version != tc.version {
			t.Errorf("parseVersion(%q) = %d, want %d", tc.name, version, tc.version)
		}
	}
}
