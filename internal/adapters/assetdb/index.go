// Package assetdb answers object-graph and scene questions from a project's asset index.
package assetdb

import (
	"bytes"
	"os"
	"slices"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SceneType is the asset type that marks scenes.
const SceneType = "scene"

// IndexFile represents the structure of the asset index.
type IndexFile struct {
	Assets []AssetDTO `yaml:"assets"`
}

// AssetDTO represents one asset of the index.
type AssetDTO struct {
	ID           string      `yaml:"id"`
	Path         string      `yaml:"path"`
	Type         string      `yaml:"type"`
	PackedSprite bool        `yaml:"packedSprite"`
	DependsOn    []string    `yaml:"dependsOn"`
	Objects      []ObjectDTO `yaml:"objects"`
	Scene        *SceneDTO   `yaml:"scene"`
}

// ObjectDTO represents one object owned by an asset.
type ObjectDTO struct {
	LocalID   int64    `yaml:"localId"`
	Kind      string   `yaml:"kind"`
	Platforms []string `yaml:"platforms"`
	Refs      []string `yaml:"refs"`
}

// SceneDTO represents the scene-only part of an asset.
type SceneDTO struct {
	UsageTags uint64   `yaml:"usageTags"`
	Resources []string `yaml:"resources"`
}

// asset is one validated index entry.
type asset struct {
	dto       AssetDTO
	id        domain.AssetID
	path      string
	scene     bool
	sprite    bool
	dependsOn []string
	objects   []object
	usageTags domain.UsageTags
	resources []string
}

// fingerprint is the index entry as written, for content hashing.
func (a *asset) fingerprint() AssetDTO {
	return a.dto
}

type object struct {
	id        domain.ObjectIdentifier
	platforms []string
	refs      []domain.ObjectIdentifier
}

// availableOn reports whether the object is built for platform.
func (o *object) availableOn(platform domain.Platform) bool {
	return len(o.platforms) == 0 || slices.Contains(o.platforms, platform.Target)
}

// readIndex loads and validates the asset index at path.
func readIndex(path string) (map[domain.AssetID]*asset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the project manifest
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetIndexReadFailed.Error()), "path", path)
	}

	var file IndexFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && len(bytes.TrimSpace(data)) > 0 {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetIndexReadFailed.Error()), "path", path)
	}

	assets := make(map[domain.AssetID]*asset, len(file.Assets))
	for _, dto := range file.Assets {
		a, err := dto.toAsset()
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		if _, dup := assets[a.id]; dup {
			return nil, zerr.With(zerr.With(domain.ErrAssetIndexReadFailed, "reason", "duplicate asset"), "asset", dto.ID)
		}
		assets[a.id] = a
	}
	return assets, nil
}

func (dto *AssetDTO) toAsset() (*asset, error) {
	id := strings.TrimSpace(dto.ID)
	if id == "" || dto.Path == "" {
		return nil, zerr.With(zerr.With(domain.ErrAssetIndexReadFailed, "reason", "asset needs an id and a path"), "asset", id)
	}
	a := &asset{
		dto:       *dto,
		id:        domain.AssetID(id),
		path:      dto.Path,
		scene:     dto.Type == SceneType,
		sprite:    dto.PackedSprite,
		dependsOn: dto.DependsOn,
	}
	if dto.Scene != nil {
		a.usageTags = domain.UsageTags(dto.Scene.UsageTags)
		a.resources = dto.Scene.Resources
	}

	for _, o := range dto.Objects {
		kind := domain.KindSerializedAsset
		if o.Kind != "" {
			parsed, err := domain.ParseFileKind(o.Kind)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetIndexReadFailed.Error()), "asset", id)
			}
			kind = parsed
		}
		obj := object{
			id:        domain.ObjectIdentifier{Asset: a.id, LocalID: o.LocalID, Kind: kind},
			platforms: o.Platforms,
		}
		for _, raw := range o.Refs {
			var ref domain.ObjectIdentifier
			if err := ref.UnmarshalText([]byte(raw)); err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetIndexReadFailed.Error()), "asset", id)
			}
			obj.refs = append(obj.refs, ref)
		}
		a.objects = append(a.objects, obj)
	}
	return a, nil
}
