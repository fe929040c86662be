package envdep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(CapabilityJetty)

	assert.True(t, r.Has(CapabilityJetty))
	assert.False(t, r.Has(CapabilityGwtDevHostedMode))

	r.Register(CapabilityGwtDevHostedMode)
	r.Register(CapabilityGwtDevHostedMode)
	assert.Equal(t, []Capability{CapabilityGwtDevHostedMode, CapabilityJetty}, r.List())

	r.Unregister(CapabilityJetty)
	assert.False(t, r.Has(CapabilityJetty))
	assert.Equal(t, []Capability{CapabilityGwtDevHostedMode}, r.List())
}

func TestRegisterCapability(t *testing.T) {
	const c Capability = "example.com/registered-in-test"
	t.Cleanup(func() { DefaultRegistry.Unregister(c) })

	assert.False(t, DefaultRegistry.Has(c))
	RegisterCapability(c)
	assert.True(t, DefaultRegistry.Has(c))
}

func TestOverlay(t *testing.T) {
	base := NewRegistry(CapabilityJetty)

	tests := []struct {
		name    string
		overlay *Overlay
		want    map[Capability]bool
	}{
		{
			name:    "passes through",
			overlay: &Overlay{Base: base},
			want:    map[Capability]bool{CapabilityJetty: true, CapabilityGwtDevHostedMode: false},
		},
		{
			name:    "enables",
			overlay: &Overlay{Base: base, Enabled: []Capability{CapabilityGwtDevHostedMode}},
			want:    map[Capability]bool{CapabilityJetty: true, CapabilityGwtDevHostedMode: true},
		},
		{
			name:    "disables",
			overlay: &Overlay{Base: base, Disabled: []Capability{CapabilityJetty}},
			want:    map[Capability]bool{CapabilityJetty: false},
		},
		{
			name: "disabled wins",
			overlay: &Overlay{
				Base:     base,
				Enabled:  []Capability{CapabilityGwtDevHostedMode},
				Disabled: []Capability{CapabilityGwtDevHostedMode},
			},
			want: map[Capability]bool{CapabilityGwtDevHostedMode: false},
		},
		{
			name:    "nil base",
			overlay: &Overlay{Enabled: []Capability{CapabilityJetty}},
			want:    map[Capability]bool{CapabilityJetty: true, CapabilityGwtDevHostedMode: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for c, want := range tt.want {
				assert.Equal(t, want, tt.overlay.Has(c), c)
			}
		})
	}
}
