package adapter

import (
	"testing"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

func TestNew_SupportedKinds(t *testing.T) {
	for _, kind := range []model.ATSKind{model.ATSGreenhouse, model.ATSLever, model.ATSAshby, model.ATSWorkday} {
		src := model.Source{Name: "Acme", Kind: kind, BoardRef: "https://example.com/acme"}
		f, err := New(src, nil)
		if err != nil {
			t.Errorf("New(%s): unexpected error: %v", kind, err)
		}
		if f == nil {
			t.Errorf("New(%s): nil fetcher", kind)
		}
	}
}

func TestNew_UnsupportedKind(t *testing.T) {
	src := model.Source{Name: "Acme", Kind: "taleo", BoardRef: "acme"}
	if _, err := New(src, nil); err == nil {
		t.Fatal("expected error for unsupported ATS kind")
	}
}

func TestSupported_IsStable(t *testing.T) {
	a := Supported()
	b := Supported()
	if len(a) != 4 {
		t.Fatalf("expected 4 registered kinds, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Supported() order must be stable")
		}
	}
}
