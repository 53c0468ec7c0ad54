package outline

import (
	"strings"
	"testing"

	"github.com/grovekit/grove/pkg/tree"
)

func sample(t *testing.T) (*tree.Tree[tree.RawContent], map[string]tree.Handle) {
	t.Helper()
	tr := tree.NewRaw()
	hs := map[string]tree.Handle{}

	var link = func(val string, parent tree.Handle) tree.Handle {
		t.Helper()
		h, err := tr.Link(val, parent)
		if err != nil {
			t.Fatalf("Link(%q): %v", val, err)
		}
		hs[val] = h
		return h
	}

	root, err := tr.SetRoot("app")
	if err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	hs["app"] = root
	api := link("api", root)
	link("store", root)
	link("cache", api)
	return tr, hs
}

func TestRender(t *testing.T) {
	tr, _ := sample(t)

	want := strings.Join([]string{
		"app",
		"├── api",
		"│   └── cache",
		"└── store",
		"",
	}, "\n")
	if got := Render(tr, Options{}); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderHandles(t *testing.T) {
	tr, _ := sample(t)

	got := Render(tr, Options{Handles: true})
	if !strings.Contains(got, "app #0") {
		t.Errorf("missing root handle suffix:\n%s", got)
	}
	if !strings.Contains(got, "└── cache #3") {
		t.Errorf("missing leaf handle suffix:\n%s", got)
	}
}

func TestRenderAt(t *testing.T) {
	tr, hs := sample(t)

	want := strings.Join([]string{
		"api",
		"└── cache",
		"",
	}, "\n")
	if got := RenderAt(tr, hs["api"], Options{}); got != want {
		t.Errorf("RenderAt =\n%s\nwant\n%s", got, want)
	}

	if got := RenderAt(tr, 99, Options{}); got != "" {
		t.Errorf("RenderAt out of range = %q, want empty", got)
	}
}

func TestRenderSkipsSevered(t *testing.T) {
	tr, hs := sample(t)
	if _, err := tr.Unlink(hs["api"]); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	got := Render(tr, Options{})
	if strings.Contains(got, "api") {
		t.Errorf("severed subtree still rendered:\n%s", got)
	}
	want := strings.Join([]string{
		"app",
		"└── store",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render after unlink =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(tree.NewRaw(), Options{}); got != "" {
		t.Errorf("Render on empty tree = %q, want empty", got)
	}
}
