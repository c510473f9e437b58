package gateway

import (
	"errors"
	"strings"
	"testing"
)

func TestTentFilter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		tentID  string
		want    string
		wantErr bool
	}{
		{name: "empty means no filter", tentID: "", want: ""},
		{name: "mac-style id", tentID: "b8:27:eb:bf:9d:51", want: "WHERE tent_id = 'b8:27:eb:bf:9d:51'"},
		{name: "short id", tentID: "00", want: "WHERE tent_id = '00'"},
		{name: "underscore and dash", tentID: "tent_a-1", want: "WHERE tent_id = 'tent_a-1'"},
		{name: "quote injection rejected", tentID: "a' OR '1'='1", wantErr: true},
		{name: "whitespace rejected", tentID: "tent 1", wantErr: true},
		{name: "semicolon rejected", tentID: "a;DROP TABLE readings", wantErr: true},
		{name: "overlong rejected", tentID: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tentFilter(tc.tentID)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("expected ErrInvalidParameter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("filter: want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSQLFloat(t *testing.T) {
	t.Parallel()

	if got := sqlFloat(130.5); got != "130.5" {
		t.Fatalf("sqlFloat(130.5) = %q", got)
	}
	if got := sqlFloat(120); got != "120" {
		t.Fatalf("sqlFloat(120) = %q", got)
	}
	if got := sqlFloat(0.1305); got != "0.1305" {
		t.Fatalf("sqlFloat(0.1305) = %q", got)
	}
}
