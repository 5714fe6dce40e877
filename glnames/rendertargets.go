package glnames

import (
	"fmt"
	"strings"
)

// RenderTargetType is a G-Buffer texture. The declaration order is the attachment
// contract with the GPU driver and must not change.
type RenderTargetType uint8

const (
	TargetPosition RenderTargetType = iota
	TargetAlbedo
	TargetNormal
	TargetDepth
	TargetSpecular
	TargetEmission
	TargetSubsurface
	TargetSsao
	numRenderTargets
)

// RenderTarget is a row of the render target registration table.
type RenderTarget struct {
	Type RenderTargetType
	// Sampler is the uniform the lighting pass samples the texture through.
	Sampler string
	// Output is the geometry pass fragment output writing the texture.
	// Empty for textures not written by the geometry pass.
	Output string
	// Location is the geometry pass output location and draw buffer attachment
	// index, or -1 for textures not written by the geometry pass.
	Location int
}

// GeometryPass reports whether the geometry pass writes the target.
func (rt RenderTarget) GeometryPass() bool { return rt.Location >= 0 }

var renderTargetNames = [numRenderTargets]string{
	TargetPosition:   "Position",
	TargetAlbedo:     "Albedo",
	TargetNormal:     "Normal",
	TargetDepth:      "Depth",
	TargetSpecular:   "Specular",
	TargetEmission:   "Emission",
	TargetSubsurface: "Subsurface",
	TargetSsao:       "Ssao",
}

// renderTargets is built once from the ordered enum. SSAO is produced by its own
// pass so it is skipped when compacting geometry pass locations.
var renderTargets = func() (table [numRenderTargets]RenderTarget) {
	loc := 0
	for i := range table {
		tp := RenderTargetType(i)
		name := renderTargetNames[i]
		table[i] = RenderTarget{
			Type:     tp,
			Sampler:  "g" + name,
			Location: -1,
		}
		if tp != TargetSsao {
			table[i].Output = "o" + name
			table[i].Location = loc
			loc++
		}
	}
	return table
}()

func (t RenderTargetType) String() string {
	if t >= numRenderTargets {
		return fmt.Sprintf("RenderTargetType(%d)", uint8(t))
	}
	return renderTargetNames[t]
}

// ParseRenderTargetType parses the name of a render target, case insensitive.
func ParseRenderTargetType(s string) (RenderTargetType, error) {
	for i, name := range renderTargetNames {
		if strings.EqualFold(s, name) {
			return RenderTargetType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: render target %q", ErrNameNotFound, s)
}

// RenderTargets returns a copy of the ordered render target table.
func RenderTargets() []RenderTarget {
	table := renderTargets
	return table[:]
}

// RenderTargetOf returns the table row of t.
func RenderTargetOf(t RenderTargetType) (RenderTarget, error) {
	if t >= numRenderTargets {
		return RenderTarget{}, fmt.Errorf("%w: %s", ErrNameNotFound, t)
	}
	return renderTargets[t], nil
}

// AttachmentIndex returns the draw buffer attachment index of t. ok is false for
// targets the geometry pass does not write.
func AttachmentIndex(t RenderTargetType) (idx int, ok bool) {
	if t >= numRenderTargets {
		return -1, false
	}
	rt := renderTargets[t]
	return rt.Location, rt.GeometryPass()
}

// GeometryPassTargets returns the targets written by the geometry pass in attachment order.
func GeometryPassTargets() []RenderTargetType {
	targets := make([]RenderTargetType, 0, len(renderTargets))
	for _, rt := range renderTargets {
		if rt.GeometryPass() {
			targets = append(targets, rt.Type)
		}
	}
	return targets
}
