package platform

import (
	"reflect"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	const url = "https://example.com/oauth?state=x"

	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", url}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", url}},
		{"linux", []string{"xdg-open", url}},
		{"freebsd", []string{"xdg-open", url}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd := browserCommand(tt.goos, url)
			if !reflect.DeepEqual(cmd.Args, tt.want) {
				t.Fatalf("args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}
}
