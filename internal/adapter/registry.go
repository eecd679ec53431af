// Package adapter implements one fetcher per ATS backend, all normalizing
// into the canonical posting schema. Adapters are looked up through a
// registry keyed by ATS kind; supporting a new backend means registering one
// more factory, not editing a dispatch chain.
package adapter

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// Factory builds a fetcher for one configured source.
type Factory func(src model.Source, client *http.Client) model.Fetcher

var registry = map[model.ATSKind]Factory{
	model.ATSGreenhouse: func(src model.Source, client *http.Client) model.Fetcher {
		return NewGreenhouse(src, client)
	},
	model.ATSLever: func(src model.Source, client *http.Client) model.Fetcher {
		return NewLever(src, client)
	},
	model.ATSAshby: func(src model.Source, client *http.Client) model.Fetcher {
		return NewAshby(src, client)
	},
	model.ATSWorkday: func(src model.Source, client *http.Client) model.Fetcher {
		return NewWorkday(src, client)
	},
}

// New returns a fetcher for the source's ATS kind, or an error for an
// unsupported kind.
func New(src model.Source, client *http.Client) (model.Fetcher, error) {
	factory, ok := registry[src.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported ATS kind %q for %s", src.Kind, src.Name)
	}
	return factory(src, client), nil
}

// Supported lists the registered ATS kinds, sorted for stable output.
func Supported() []model.ATSKind {
	kinds := make([]model.ATSKind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
