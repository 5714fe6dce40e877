// Package glnames is the registry of GLSL identifiers shared by the shader
// assemblers and the GPU driver that binds attributes, uniforms and render targets.
package glnames

import (
	"errors"
	"fmt"
)

var ErrNameNotFound = errors.New("glnames: name not registered")

// Vertex attributes.
const (
	VertexAttrib     = "aPosition"
	NormalAttrib     = "aNormal"
	ColorAttrib      = "aColor"
	Color1Attrib     = "aColor1"
	Color2Attrib     = "aColor2"
	UVAttrib         = "aUV"
	TangentAttrib    = "aTangent"
	BitangentAttrib  = "aBitangent"
	BoneIndexAttrib  = "aBoneIndex"
	BoneWeightAttrib = "aBoneWeight"
)

// Varyings between vertex and fragment stages.
const (
	PositionVarying  = "vPosition"
	NormalVarying    = "vNormal"
	ColorVarying     = "vColor"
	Color1Varying    = "vColor1"
	Color2Varying    = "vColor2"
	UVVarying        = "vUV"
	TangentVarying   = "vTangent"
	BitangentVarying = "vBitangent"
	TexCoordsVarying = "vTexCoords"
)

// Transformation matrices.
const (
	Model               = "uModel"
	View                = "uView"
	ModelView           = "uModelView"
	Projection          = "uProjection"
	ModelViewProjection = "uModelViewProjection"
	ITModel             = "uITModel"
	ITModelView         = "uITModelView"
	InvView             = "uInvView"
	Bones               = "uBones"
)

// Material properties.
const (
	Albedo            = "uAlbedo"
	Emission          = "uEmission"
	SpecularStrength  = "uSpecularStrength"
	Shininess         = "uShininess"
	Roughness         = "uRoughness"
	Metallic          = "uMetallic"
	Specular          = "uSpecular"
	IOR               = "uIOR"
	Subsurface        = "uSubsurface"
	SubsurfaceColor   = "uSubsurfaceColor"
	AlbedoTexture     = "uAlbedoTexture"
	AlbedoMix         = "uAlbedoMix"
	NormalTexture     = "uNormalTexture"
	NormalMapStrength = "uNormalMapStrength"
	ThicknessTexture  = "uThicknessTexture"
	EmissiveTexture   = "uEmissiveTexture"
	EmissiveMix       = "uEmissiveMix"
	TextureTiles      = "uTextureTiles"
	EdlStrength       = "uEdlStrength"
	EdlNeighbourPx    = "uEdlNeighbourPx"
)

// Lighting and shadow inputs.
const (
	AllLights          = "allLights"
	LightUniform       = "light"
	AmbientStrength    = "uAmbientStrength"
	PassNo             = "uPassNo"
	BackgroundColor    = "uBackgroundColor"
	SsaoOn             = "uSsaoOn"
	ShadowMap          = "ShadowMap"
	ShadowCubeMap      = "ShadowCubeMap"
	LightSpaceMatrix   = "LightSpaceMatrix"
	LightSpaceMatrices = "LightSpaceMatrices"
	ClipPlanes         = "ClipPlanes"
	PcfKernelHalfSize  = "PcfKernelHalfSize"
	LightFarPlane      = "uLightFarPlane"
	ScreenParams       = "uScreenParams"
	ClippingPlanes     = "uClippingPlanes"
	DepthTexture       = "uDepthTexture"
	FragmentColor      = "oFragmentColor"
)

// Struct type names.
const (
	LightStruct   = "Light"
	SurfaceStruct = "SurfOut"
)

// Key identifies a semantic slot in the registry.
type Key uint16

const (
	_ Key = iota
	KeyVertex
	KeyNormal
	KeyColor
	KeyColor1
	KeyColor2
	KeyUV
	KeyTangent
	KeyBitangent
	KeyBoneIndex
	KeyBoneWeight

	KeyModel
	KeyView
	KeyModelView
	KeyProjection
	KeyModelViewProjection
	KeyITModel
	KeyITModelView
	KeyInvView
	KeyBones

	KeyAlbedo
	KeyEmission
	KeySpecularStrength
	KeyShininess
	KeyRoughness
	KeyMetallic
	KeySpecular
	KeyIOR
	KeySubsurface
	KeySubsurfaceColor
	KeyAlbedoTexture
	KeyAlbedoMix
	KeyNormalTexture
	KeyNormalMapStrength
	KeyThicknessTexture
	KeyEmissiveTexture
	KeyEmissiveMix
	KeyTextureTiles
	KeyEdlStrength
	KeyEdlNeighbourPx

	KeyAllLights
	KeyLight
	KeyAmbientStrength
	KeyPassNo
	KeyBackgroundColor
	KeySsaoOn
	KeyShadowMap
	KeyShadowMapArray
	KeyShadowCubeMap
	KeyLightSpaceMatrix
	KeyLightSpaceMatrices
	KeyClipPlanes
	KeyPcfKernelHalfSize
	KeyLightFarPlane
	KeyScreenParams
	KeyClippingPlanes
	KeyDepthTexture
	KeyFragmentColor

	numKeys
)

// Kind classifies how an identifier is declared in GLSL.
type Kind uint8

const (
	KindAttribute Kind = iota + 1
	KindUniform
	KindOutput
)

// Entry describes a registered identifier.
type Entry struct {
	Key  Key
	Name string
	// Type is the GLSL type. Array uniforms have their element type here.
	Type string
	Kind Kind
	// Location is the attribute location or -1 when the driver queries it by name.
	Location int
}

var registry = [numKeys]Entry{
	KeyVertex:     {Name: VertexAttrib, Type: "vec3", Kind: KindAttribute, Location: 0},
	KeyNormal:     {Name: NormalAttrib, Type: "vec3", Kind: KindAttribute, Location: 1},
	KeyColor:      {Name: ColorAttrib, Type: "vec4", Kind: KindAttribute, Location: 2},
	KeyColor1:     {Name: Color1Attrib, Type: "vec4", Kind: KindAttribute, Location: 3},
	KeyColor2:     {Name: Color2Attrib, Type: "vec4", Kind: KindAttribute, Location: 4},
	KeyUV:         {Name: UVAttrib, Type: "vec2", Kind: KindAttribute, Location: 5},
	KeyTangent:    {Name: TangentAttrib, Type: "vec4", Kind: KindAttribute, Location: 6},
	KeyBitangent:  {Name: BitangentAttrib, Type: "vec3", Kind: KindAttribute, Location: 7},
	KeyBoneIndex:  {Name: BoneIndexAttrib, Type: "vec4", Kind: KindAttribute, Location: 8},
	KeyBoneWeight: {Name: BoneWeightAttrib, Type: "vec4", Kind: KindAttribute, Location: 9},

	KeyModel:               uniform(Model, "mat4"),
	KeyView:                uniform(View, "mat4"),
	KeyModelView:           uniform(ModelView, "mat4"),
	KeyProjection:          uniform(Projection, "mat4"),
	KeyModelViewProjection: uniform(ModelViewProjection, "mat4"),
	KeyITModel:             uniform(ITModel, "mat4"),
	KeyITModelView:         uniform(ITModelView, "mat4"),
	KeyInvView:             uniform(InvView, "mat4"),
	KeyBones:               uniform(Bones, "mat4"),

	KeyAlbedo:            uniform(Albedo, "vec4"),
	KeyEmission:          uniform(Emission, "vec4"),
	KeySpecularStrength:  uniform(SpecularStrength, "float"),
	KeyShininess:         uniform(Shininess, "float"),
	KeyRoughness:         uniform(Roughness, "float"),
	KeyMetallic:          uniform(Metallic, "float"),
	KeySpecular:          uniform(Specular, "float"),
	KeyIOR:               uniform(IOR, "float"),
	KeySubsurface:        uniform(Subsurface, "float"),
	KeySubsurfaceColor:   uniform(SubsurfaceColor, "vec4"),
	KeyAlbedoTexture:     uniform(AlbedoTexture, "sampler2D"),
	KeyAlbedoMix:         uniform(AlbedoMix, "float"),
	KeyNormalTexture:     uniform(NormalTexture, "sampler2D"),
	KeyNormalMapStrength: uniform(NormalMapStrength, "float"),
	KeyThicknessTexture:  uniform(ThicknessTexture, "sampler2D"),
	KeyEmissiveTexture:   uniform(EmissiveTexture, "sampler2D"),
	KeyEmissiveMix:       uniform(EmissiveMix, "float"),
	KeyTextureTiles:      uniform(TextureTiles, "vec2"),
	KeyEdlStrength:       uniform(EdlStrength, "float"),
	KeyEdlNeighbourPx:    uniform(EdlNeighbourPx, "int"),

	KeyAllLights:          uniform(AllLights, LightStruct),
	KeyLight:              uniform(LightUniform, LightStruct),
	KeyAmbientStrength:    uniform(AmbientStrength, "float"),
	KeyPassNo:             uniform(PassNo, "int"),
	KeyBackgroundColor:    uniform(BackgroundColor, "vec4"),
	KeySsaoOn:             uniform(SsaoOn, "int"),
	KeyShadowMap:          uniform(ShadowMap, "sampler2D"),
	KeyShadowMapArray:     uniform(ShadowMap, "sampler2DArray"),
	KeyShadowCubeMap:      uniform(ShadowCubeMap, "samplerCube"),
	KeyLightSpaceMatrix:   uniform(LightSpaceMatrix, "mat4"),
	KeyLightSpaceMatrices: uniform(LightSpaceMatrices, "mat4"),
	KeyClipPlanes:         uniform(ClipPlanes, "vec2"),
	KeyPcfKernelHalfSize:  uniform(PcfKernelHalfSize, "float"),
	KeyLightFarPlane:      uniform(LightFarPlane, "float"),
	KeyScreenParams:       uniform(ScreenParams, "vec2"),
	KeyClippingPlanes:     uniform(ClippingPlanes, "vec2"),
	KeyDepthTexture:       uniform(DepthTexture, "sampler2D"),
	KeyFragmentColor:      {Name: FragmentColor, Type: "vec4", Kind: KindOutput, Location: -1},
}

func uniform(name, typename string) Entry {
	return Entry{Name: name, Type: typename, Kind: KindUniform, Location: -1}
}

func init() {
	for k := range registry {
		registry[k].Key = Key(k)
	}
	if err := validateEntries(registry[:]); err != nil {
		panic(err)
	}
}

// validateEntries checks every named entry is a declarable GLSL identifier.
func validateEntries(entries []Entry) error {
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		if err := ValidateIdentifier(e.Name); err != nil {
			return fmt.Errorf("registry key %d: %w", e.Key, err)
		}
	}
	return nil
}

// Lookup returns the GLSL identifier registered for k.
func Lookup(k Key) (string, error) {
	e, err := Describe(k)
	return e.Name, err
}

// MustLookup is like [Lookup] but panics if k is not registered.
func MustLookup(k Key) string {
	name, err := Lookup(k)
	if err != nil {
		panic(err)
	}
	return name
}

// Describe returns the full registry entry of k.
func Describe(k Key) (Entry, error) {
	if k >= numKeys || registry[k].Name == "" {
		return Entry{}, fmt.Errorf("%w: key %d", ErrNameNotFound, k)
	}
	return registry[k], nil
}

// MustDescribe is like [Describe] but panics if k is not registered.
func MustDescribe(k Key) Entry {
	e, err := Describe(k)
	if err != nil {
		panic(err)
	}
	return e
}

// AttribLocation returns the vertex attribute location bound to k.
func AttribLocation(k Key) (int, error) {
	e, err := Describe(k)
	if err != nil {
		return -1, err
	} else if e.Kind != KindAttribute {
		return -1, fmt.Errorf("%w: %s is not a vertex attribute", ErrNameNotFound, e.Name)
	}
	return e.Location, nil
}

// Entries returns a copy of every registered entry in key order.
func Entries() []Entry {
	entries := make([]Entry, 0, len(registry))
	for _, e := range registry {
		if e.Name != "" {
			entries = append(entries, e)
		}
	}
	return entries
}
