package composecmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRef(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCompose(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestComposeMergesFiles(t *testing.T) {
	dir := t.TempDir()
	newest := writeRef(t, dir, "newest.yaml", `dataset: crossref
ref: 10.1/x
body:
  docid:
    - id: 10.1/x
      type: DOI
      primary: true
  title:
    - content: Newest Title
  volume: "5"
`)
	older := writeRef(t, dir, "older.yaml", `dataset: legacy
ref: rec-7
body:
  docid:
    - id: 1234-5678
      type: ISSN
  title:
    - content: Older Title
  page: "1-10"
`)

	out, _, err := runCompose(t, newest, older)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, want := range []string{
		"10.1/x@crossref-api",
		"rec-7@legacy",
		"Newest Title",
		"Older Title",
		"primary_docid",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
	// Newest record wins scalar fields; the older one fills the gap.
	if !strings.Contains(out, `volume: "5"`) || !strings.Contains(out, "page: 1-10") {
		t.Fatalf("expected merged volume and page: %q", out)
	}
}

func TestComposeSuppliedPrimary(t *testing.T) {
	dir := t.TempDir()
	ref := writeRef(t, dir, "ref.yaml", `dataset: crossref
ref: 10.1/x
body:
  docid:
    - id: 10.1/x
      type: DOI
  title:
    - content: Title
`)

	out, _, err := runCompose(t, "--primary-id", "10.1/x", "--primary-type", "DOI", ref)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(out, "primary_docid") {
		t.Fatalf("expected supplied primary in output: %q", out)
	}
}

func TestComposePrimaryFlagsComeTogether(t *testing.T) {
	dir := t.TempDir()
	ref := writeRef(t, dir, "ref.yaml", `dataset: crossref
ref: 10.1/x
body:
  docid:
    - id: 10.1/x
      type: DOI
`)

	if _, _, err := runCompose(t, "--primary-id", "10.1/x", ref); err == nil {
		t.Fatalf("expected error when only one primary flag is set")
	}
}

func TestComposeLenientFlagsInvalidSource(t *testing.T) {
	dir := t.TempDir()
	bad := writeRef(t, dir, "bad.yaml", `dataset: legacy
ref: rec-9
body:
  docid:
    - id: 1234-5678
      type: ISSN
  title:
    - content: ""
`)

	if _, _, err := runCompose(t, bad); err == nil {
		t.Fatalf("expected strict compose to fail")
	}

	out, errOut, err := runCompose(t, "--lenient", bad)
	if err != nil {
		t.Fatalf("lenient compose: %v", err)
	}
	if !strings.Contains(errOut, "validation problems") {
		t.Fatalf("expected validity note on stderr: %q", errOut)
	}
	if !strings.Contains(out, "validation_errors") {
		t.Fatalf("expected captured validation errors in output: %q", out)
	}
}
