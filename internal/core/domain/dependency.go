package domain

import (
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// BundleMembership records which bundle owns an asset and which other bundles the asset needs.
type BundleMembership struct {
	// Owner is the bundle that serializes the asset: the first bundle that declared it,
	// or the virtual bundle that took it over.
	Owner string `json:"owner"`
	// Dependencies lists the other bundles the asset needs, in insertion order.
	// It never contains Owner.
	Dependencies []string `json:"dependencies,omitempty"`
}

// Bundles returns the owner followed by the dependencies.
func (m *BundleMembership) Bundles() []string {
	out := make([]string, 0, len(m.Dependencies)+1)
	out = append(out, m.Owner)
	return append(out, m.Dependencies...)
}

// DependencyInfo is the aggregate dependency graph of a build.
// Each stage consumes one DependencyInfo and returns a new one; the maps are never shared
// between stages.
type DependencyInfo struct {
	AssetLoadInfo        map[AssetID]*AssetLoadInfo    `json:"assetLoadInfo"`
	AssetOrder           []AssetID                     `json:"assetOrder"`
	SceneResourceFiles   map[AssetID][]ResourceFile    `json:"sceneResourceFiles"`
	SceneUsageTags       map[AssetID]UsageTags         `json:"sceneUsageTags"`
	AssetToBundles       map[AssetID]*BundleMembership `json:"assetToBundles"`
	BundleToAssets       map[string][]AssetID          `json:"bundleToAssets"`
	BundleOrder          []string                      `json:"bundleOrder"`
	VirtualAssets        map[AssetID]bool              `json:"virtualAssets"`
	ObjectToVirtualAsset map[ObjectIdentifier]AssetID  `json:"objectToVirtualAsset"`
}

// NewDependencyInfo creates an empty graph.
func NewDependencyInfo() *DependencyInfo {
	return &DependencyInfo{
		AssetLoadInfo:        make(map[AssetID]*AssetLoadInfo),
		SceneResourceFiles:   make(map[AssetID][]ResourceFile),
		SceneUsageTags:       make(map[AssetID]UsageTags),
		AssetToBundles:       make(map[AssetID]*BundleMembership),
		BundleToAssets:       make(map[string][]AssetID),
		VirtualAssets:        make(map[AssetID]bool),
		ObjectToVirtualAsset: make(map[ObjectIdentifier]AssetID),
	}
}

// AddAsset registers info as owned by bundle.
// It returns false, leaving the graph untouched, when the asset is already registered:
// the first declaration keeps ownership.
func (d *DependencyInfo) AddAsset(bundle string, info *AssetLoadInfo) bool {
	if _, exists := d.AssetToBundles[info.Asset]; exists {
		return false
	}
	d.AssetLoadInfo[info.Asset] = info
	d.AssetOrder = append(d.AssetOrder, info.Asset)
	d.AssetToBundles[info.Asset] = &BundleMembership{Owner: bundle}
	if _, exists := d.BundleToAssets[bundle]; !exists {
		d.BundleOrder = append(d.BundleOrder, bundle)
	}
	d.BundleToAssets[bundle] = append(d.BundleToAssets[bundle], info.Asset)
	return true
}

// AddDependency appends bundle to the asset's dependency list unless it is the owner
// or already present. It reports whether the list changed.
func (d *DependencyInfo) AddDependency(asset AssetID, bundle string) bool {
	m, ok := d.AssetToBundles[asset]
	if !ok || bundle == m.Owner || slices.Contains(m.Dependencies, bundle) {
		return false
	}
	m.Dependencies = append(m.Dependencies, bundle)
	return true
}

// Owner returns the bundle owning asset.
func (d *DependencyInfo) Owner(asset AssetID) (string, bool) {
	m, ok := d.AssetToBundles[asset]
	if !ok {
		return "", false
	}
	return m.Owner, true
}

// Bundles returns the owner of asset followed by its dependencies, or nil if unknown.
func (d *DependencyInfo) Bundles(asset AssetID) []string {
	m, ok := d.AssetToBundles[asset]
	if !ok {
		return nil
	}
	return m.Bundles()
}

// IsVirtual reports whether asset was synthesized by deduplication.
func (d *DependencyInfo) IsVirtual(asset AssetID) bool {
	return d.VirtualAssets[asset]
}

// Clone returns a deep copy that shares no mutable state with d.
func (d *DependencyInfo) Clone() *DependencyInfo {
	c := &DependencyInfo{
		AssetLoadInfo:        make(map[AssetID]*AssetLoadInfo, len(d.AssetLoadInfo)),
		AssetOrder:           slices.Clone(d.AssetOrder),
		SceneResourceFiles:   make(map[AssetID][]ResourceFile, len(d.SceneResourceFiles)),
		SceneUsageTags:       maps.Clone(d.SceneUsageTags),
		AssetToBundles:       make(map[AssetID]*BundleMembership, len(d.AssetToBundles)),
		BundleToAssets:       make(map[string][]AssetID, len(d.BundleToAssets)),
		BundleOrder:          slices.Clone(d.BundleOrder),
		VirtualAssets:        maps.Clone(d.VirtualAssets),
		ObjectToVirtualAsset: maps.Clone(d.ObjectToVirtualAsset),
	}
	for id, info := range d.AssetLoadInfo {
		c.AssetLoadInfo[id] = info.Clone()
	}
	for id, files := range d.SceneResourceFiles {
		c.SceneResourceFiles[id] = slices.Clone(files)
	}
	for id, m := range d.AssetToBundles {
		c.AssetToBundles[id] = &BundleMembership{Owner: m.Owner, Dependencies: slices.Clone(m.Dependencies)}
	}
	for name, assets := range d.BundleToAssets {
		c.BundleToAssets[name] = slices.Clone(assets)
	}
	if c.SceneUsageTags == nil {
		c.SceneUsageTags = make(map[AssetID]UsageTags)
	}
	if c.VirtualAssets == nil {
		c.VirtualAssets = make(map[AssetID]bool)
	}
	if c.ObjectToVirtualAsset == nil {
		c.ObjectToVirtualAsset = make(map[ObjectIdentifier]AssetID)
	}
	return c
}

// Validate checks the structural invariants of the graph:
// every bundle member is registered, every owner lists its asset, no asset depends on
// its own bundle, and every reference to a shared object depends on the owning virtual bundle.
func (d *DependencyInfo) Validate() error {
	for _, bundle := range d.BundleOrder {
		for _, asset := range d.BundleToAssets[bundle] {
			if _, ok := d.AssetLoadInfo[asset]; !ok {
				return zerr.With(zerr.With(ErrInvalidGraph, "bundle", bundle), "asset", string(asset))
			}
			if _, ok := d.AssetToBundles[asset]; !ok {
				return zerr.With(zerr.With(ErrInvalidGraph, "bundle", bundle), "asset", string(asset))
			}
		}
	}

	for _, asset := range d.AssetOrder {
		m, ok := d.AssetToBundles[asset]
		if !ok {
			return zerr.With(ErrInvalidGraph, "asset", string(asset))
		}
		if !slices.Contains(d.BundleToAssets[m.Owner], asset) {
			err := zerr.With(ErrOwnershipViolation, "asset", string(asset))
			return zerr.With(err, "bundle", m.Owner)
		}
		if slices.Contains(m.Dependencies, m.Owner) {
			return zerr.With(ErrSelfDependency, "bundle", m.Owner)
		}

		info, ok := d.AssetLoadInfo[asset]
		if !ok {
			return zerr.With(ErrInvalidGraph, "asset", string(asset))
		}
		for _, ref := range info.Referenced {
			virtual, shared := d.ObjectToVirtualAsset[ref]
			if !shared || virtual == asset {
				continue
			}
			owner, _ := d.Owner(virtual)
			if owner != m.Owner && !slices.Contains(m.Dependencies, owner) {
				err := zerr.With(ErrVirtualReferenceMissing, "asset", string(asset))
				return zerr.With(err, "virtual_bundle", owner)
			}
		}
	}
	return nil
}
