package language

import "testing"

func Test_Detect_ByExtension(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"src/main.go", "Go"},
		{"app/models.py", "Python"},
		{"web/index.HTML", "HTML"},
		{"config.yaml", "YAML"},
		{"notes.md", "Markdown"},
		{"binary.xyz", ""},
	}
	for _, tc := range cases {
		if got := Detect(tc.path); got != tc.want {
			t.Errorf("Detect(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func Test_Detect_ByFilename(t *testing.T) {
	if got := Detect("build/Makefile"); got != "Makefile" {
		t.Errorf("expected Makefile, got %q", got)
	}
	if got := Detect("Dockerfile"); got != "Dockerfile" {
		t.Errorf("expected Dockerfile, got %q", got)
	}
	if got := Detect("LICENSE"); got != "" {
		t.Errorf("expected empty hint for unknown filename, got %q", got)
	}
}

func Test_IsBinaryContent(t *testing.T) {
	if IsBinaryContent([]byte("plain text content\n")) {
		t.Error("expected text to be detected as non-binary")
	}
	if !IsBinaryContent([]byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}) {
		t.Error("expected null byte to be detected as binary")
	}
	if IsBinaryContent(nil) {
		t.Error("expected empty content to be non-binary")
	}
}
