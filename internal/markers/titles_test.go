package markers

import "testing"

func TestRenderTitle(t *testing.T) {
	cases := []struct {
		title     string
		titleType string
		want      string
	}{
		{"my product review", "full", "My Product Review"},
		{"my product review", "upper", "MY PRODUCT REVIEW"},
		{"My Product Review", "lower", "my product review"},
		{"as spoken", "", "as spoken"},
		{"as spoken", "third", "as spoken"},
		{"  padded  ", "upper", "PADDED"},
	}
	for _, tc := range cases {
		if got := RenderTitle(tc.title, tc.titleType); got != tc.want {
			t.Errorf("RenderTitle(%q, %q) = %q, want %q", tc.title, tc.titleType, got, tc.want)
		}
	}
}
