// Package domain contains the core model of the bundle build: object identity, the
// dependency graph, write commands, result codes and errors.
package domain

import "slices"

// AssetKind is the classification the asset oracle reports for a declared id.
type AssetKind uint8

const (
	// AssetInvalid marks ids that do not resolve to a buildable asset.
	AssetInvalid AssetKind = iota
	// AssetRegular is any non-scene asset.
	AssetRegular
	// AssetScene is a scene that must be prepared before serialization.
	AssetScene
)

// UsageTags is an opaque bit set describing the engine features a scene uses.
// Tags of all scenes in a bundle are OR-ed together.
type UsageTags uint64

// ResourceFile is one file produced for a bundle.
type ResourceFile struct {
	// FileName is the absolute or build-relative path of the file.
	FileName string `json:"fileName"`
	// Serialized is true for serialized object files and false for raw resource blobs.
	Serialized bool `json:"serialized"`
}

// AssetLoadInfo is one explicit or synthesized loadable unit.
type AssetLoadInfo struct {
	Asset      AssetID            `json:"asset"`
	Address    string             `json:"address"`
	Included   []ObjectIdentifier `json:"included"`
	Referenced []ObjectIdentifier `json:"referenced"`
	// ProcessedScene is the prepared scene path; empty for non-scene assets.
	ProcessedScene string `json:"processedScene,omitempty"`
}

// IsScene reports whether the unit was produced from a scene.
func (a *AssetLoadInfo) IsScene() bool {
	return a.ProcessedScene != ""
}

// Clone returns a deep copy.
func (a *AssetLoadInfo) Clone() *AssetLoadInfo {
	c := *a
	c.Included = slices.Clone(a.Included)
	c.Referenced = slices.Clone(a.Referenced)
	return &c
}

// SceneInfo is what the scene preparer reports for one scene.
type SceneInfo struct {
	ProcessedScene string             `json:"processedScene"`
	Referenced     []ObjectIdentifier `json:"referenced"`
	ResourceFiles  []ResourceFile     `json:"resourceFiles"`
	UsageTags      UsageTags          `json:"usageTags"`
}

// Platform describes the build target. It is opaque to the pipeline and only
// forwarded to collaborators and folded into cache keys.
type Platform struct {
	Target  string `json:"target"`
	Variant string `json:"variant,omitempty"`
}

// String returns target or target/variant.
func (p Platform) String() string {
	if p.Variant == "" {
		return p.Target
	}
	return p.Target + "/" + p.Variant
}

// AssetRef is one declared asset of a bundle definition.
type AssetRef struct {
	ID AssetID
	// Address overrides the default path-derived address when set.
	Address string
}

// BundleDefinition is a bundle name plus its explicitly declared assets, in order.
type BundleDefinition struct {
	Name   string
	Assets []AssetRef
}
