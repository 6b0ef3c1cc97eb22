package enginetest

import "go.trai.ch/bale/internal/core/domain"

// Asset ids of the prefab fixture.
const (
	Prefab1ID domain.AssetID = "00000000000000000000000000000001"
	Prefab2ID domain.AssetID = "00000000000000000000000000000002"
	FBXID     domain.AssetID = "00000000000000000000000000000010"
	SceneID   domain.AssetID = "00000000000000000000000000000020"
	SpriteID  domain.AssetID = "00000000000000000000000000000030"
	ScriptID  domain.AssetID = "206794ec000000000000000000000000"
)

// Objects of the prefab fixture.
var (
	Mesh   = domain.ObjectIdentifier{Asset: FBXID, LocalID: 4300000, Kind: domain.KindMetaAsset}
	Script = domain.ObjectIdentifier{Asset: ScriptID, LocalID: 11500000, Kind: domain.KindMetaAsset}

	BuiltinShader   = domain.ObjectIdentifier{LocalID: 46, Kind: domain.KindNonAsset, Path: "resources/builtin_extra"}
	DefaultResource = domain.ObjectIdentifier{LocalID: 10, Kind: domain.KindNonAsset, Path: domain.BuiltinResourcePath}

	SpriteTexture = domain.ObjectIdentifier{Asset: SpriteID, LocalID: 2800000, Kind: domain.KindMetaAsset}
	SpriteObject  = domain.ObjectIdentifier{Asset: SpriteID, LocalID: 21300000, Kind: domain.KindMetaAsset}
)

// PrefabObjects returns the objects a prefab asset owns.
func PrefabObjects(id domain.AssetID) []domain.ObjectIdentifier {
	return []domain.ObjectIdentifier{
		{Asset: id, LocalID: 1326890503170502, Kind: domain.KindSerializedAsset},
		{Asset: id, LocalID: 4326504406238768, Kind: domain.KindSerializedAsset},
		{Asset: id, LocalID: 114305515917122674, Kind: domain.KindSerializedAsset},
	}
}

// FBXObjects returns the objects the model asset owns. The mesh is last.
func FBXObjects() []domain.ObjectIdentifier {
	return []domain.ObjectIdentifier{
		{Asset: FBXID, LocalID: 100000, Kind: domain.KindMetaAsset},
		{Asset: FBXID, LocalID: 400000, Kind: domain.KindMetaAsset},
		{Asset: FBXID, LocalID: 2100000, Kind: domain.KindMetaAsset},
		{Asset: FBXID, LocalID: 2300000, Kind: domain.KindMetaAsset},
		{Asset: FBXID, LocalID: 3300000, Kind: domain.KindMetaAsset},
		Mesh,
	}
}

// PrefabProject returns two prefabs, each referencing the model's mesh and a script.
// The model itself is only declared in bundle "f" when withModelBundle is set.
func PrefabProject(withModelBundle bool) (*Project, []domain.BundleDefinition) {
	p := NewProject()
	for _, id := range []domain.AssetID{Prefab1ID, Prefab2ID} {
		p.Assets[id] = &Asset{
			Kind:       domain.AssetRegular,
			Path:       "Assets/Prefabs/" + string(id[len(id)-1:]) + ".prefab",
			Included:   PrefabObjects(id),
			Referenced: []domain.ObjectIdentifier{Mesh, Script, DefaultResource},
		}
	}
	p.Assets[FBXID] = &Asset{
		Kind:       domain.AssetRegular,
		Path:       "Assets/Models/hero.fbx",
		Included:   FBXObjects(),
		Referenced: []domain.ObjectIdentifier{BuiltinShader},
	}

	defs := []domain.BundleDefinition{
		{Name: "a", Assets: []domain.AssetRef{{ID: Prefab1ID}}},
		{Name: "b", Assets: []domain.AssetRef{{ID: Prefab2ID, Address: "prefab-two"}}},
	}
	if withModelBundle {
		defs = append(defs, domain.BundleDefinition{Name: "f", Assets: []domain.AssetRef{{ID: FBXID}}})
	}
	return p, defs
}

// AddScene registers a scene referencing the script, with one raw resource file.
func AddScene(p *Project, tags domain.UsageTags) {
	p.Assets[SceneID] = &Asset{
		Kind: domain.AssetScene,
		Path: "Assets/Scenes/main.unity",
		Scene: domain.SceneInfo{
			Referenced:    []domain.ObjectIdentifier{Script, DefaultResource},
			ResourceFiles: []domain.ResourceFile{{FileName: "main.resS"}},
			UsageTags:     tags,
		},
	}
}

// AddSprite registers a packed sprite texture whose root object is the texture.
func AddSprite(p *Project) {
	p.Assets[SpriteID] = &Asset{
		Kind:         domain.AssetRegular,
		Path:         "Assets/Sprites/hero.png",
		Included:     []domain.ObjectIdentifier{SpriteTexture, SpriteObject},
		PackedSprite: true,
	}
}
