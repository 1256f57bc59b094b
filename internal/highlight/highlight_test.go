package highlight

import (
	"strings"
	"testing"
)

func TestNewRenderer_ChoiceLists(t *testing.T) {
	r := NewRenderer()

	if len(r.Languages()) == 0 {
		t.Fatal("Languages() returned an empty list")
	}
	if len(r.Styles()) == 0 {
		t.Fatal("Styles() returned an empty list")
	}

	// The model defaults must be members of the choice lists, or every
	// default-valued snippet would fail validation.
	if !r.SupportsLanguage("python") {
		t.Error("expected python to be a supported language")
	}
	if !r.SupportsLanguage("go") {
		t.Error("expected go to be a supported language")
	}
	if !r.SupportsStyle("friendly") {
		t.Error("expected friendly to be a supported style")
	}

	if r.SupportsLanguage("not-a-language") {
		t.Error("SupportsLanguage accepted an unknown name")
	}
	if r.SupportsStyle("not-a-style") {
		t.Error("SupportsStyle accepted an unknown name")
	}
}

func TestRenderer_Languages_ReturnsCopy(t *testing.T) {
	r := NewRenderer()

	langs := r.Languages()
	langs[0] = "mutated"

	if r.Languages()[0] == "mutated" {
		t.Error("mutating the returned slice changed the renderer's list")
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(Options{
		Code:     "print('hi')",
		Language: "python",
		Style:    "friendly",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Error("output is not a full HTML document")
	}
	if !strings.Contains(out, "<span") {
		t.Error("output contains no highlighting markup")
	}
	if !strings.Contains(out, "print") {
		t.Error("output does not contain the source code")
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer()
	opts := Options{Code: "x = 1\n", Language: "python", Style: "friendly", Linenos: true}

	first, err := r.Render(opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := r.Render(opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if first != second {
		t.Error("identical inputs produced different documents")
	}
}

func TestRender_TitleAppearsEscaped(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(Options{
		Code:     "1",
		Language: "python",
		Style:    "friendly",
		Title:    "a <b> title",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "<h2>a &lt;b&gt; title</h2>") {
		t.Error("title missing or not HTML-escaped in output")
	}
	if !strings.Contains(out, "<title>a &lt;b&gt; title</title>") {
		t.Error("document title missing or not HTML-escaped")
	}
}

func TestRender_UnsupportedInputs(t *testing.T) {
	r := NewRenderer()

	if _, err := r.Render(Options{Code: "x", Language: "nope", Style: "friendly"}); err == nil {
		t.Error("expected error for unsupported language")
	}
	if _, err := r.Render(Options{Code: "x", Language: "python", Style: "nope"}); err == nil {
		t.Error("expected error for unsupported style")
	}
}
