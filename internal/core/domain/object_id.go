package domain

import (
	"cmp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// BuiltinResourcePath is the file path of the platform's built-in default resources.
// Objects living there are never deduplicated or serialized into bundles.
const BuiltinResourcePath = "library/default resources"

// AssetID is the stable identifier of a source asset: 32 lowercase hex characters.
// The empty AssetID marks objects that are not tied to an asset.
type AssetID string

// IsZero reports whether id is empty.
func (id AssetID) IsZero() bool {
	return id == ""
}

// FileKind tells how an object's containing file is addressed.
type FileKind uint8

const (
	// KindMetaAsset is an object imported from a source file through its meta data.
	KindMetaAsset FileKind = iota + 1
	// KindSerializedAsset is an object stored natively in a serialized asset file.
	KindSerializedAsset
	// KindNonAsset is an object addressed by path only, e.g. built-in engine resources.
	KindNonAsset
)

var fileKindNames = map[FileKind]string{
	KindMetaAsset:       "meta",
	KindSerializedAsset: "serialized",
	KindNonAsset:        "nonasset",
}

// String returns the short name of the kind.
func (k FileKind) String() string {
	if name, ok := fileKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseFileKind parses the short name produced by String.
func ParseFileKind(s string) (FileKind, error) {
	for k, name := range fileKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, zerr.With(ErrInvalidObjectIdentifier, "kind", s)
}

// MarshalText encodes the kind by name.
func (k FileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its name.
func (k *FileKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFileKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ObjectIdentifier names one serializable sub-object inside an asset, a virtual asset
// or the built-in resource space. Equality is structural over all fields.
type ObjectIdentifier struct {
	Asset   AssetID
	LocalID int64
	Kind    FileKind
	Path    string
}

// IsBuiltin reports whether the object lives in the built-in default resources.
func (o ObjectIdentifier) IsBuiltin() bool {
	return o.Path == BuiltinResourcePath
}

// Compare orders identifiers. Two identifiers without an asset id are ordered by path,
// otherwise by asset id; local id and kind break the remaining ties.
func (o ObjectIdentifier) Compare(other ObjectIdentifier) int {
	if o.Asset.IsZero() && other.Asset.IsZero() {
		if c := strings.Compare(o.Path, other.Path); c != 0 {
			return c
		}
	} else if c := strings.Compare(string(o.Asset), string(other.Asset)); c != 0 {
		return c
	}
	if c := cmp.Compare(o.LocalID, other.LocalID); c != 0 {
		return c
	}
	if c := cmp.Compare(o.Kind, other.Kind); c != 0 {
		return c
	}
	return strings.Compare(o.Path, other.Path)
}

// String renders the identifier as kind:asset:local:path.
func (o ObjectIdentifier) String() string {
	var b strings.Builder
	b.WriteString(o.Kind.String())
	b.WriteByte(':')
	b.WriteString(string(o.Asset))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(o.LocalID, 10))
	b.WriteByte(':')
	b.WriteString(o.Path)
	return b.String()
}

// MarshalText encodes the identifier in its String form, so it can key JSON objects.
func (o ObjectIdentifier) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses the form produced by String.
func (o *ObjectIdentifier) UnmarshalText(text []byte) error {
	parts := strings.SplitN(string(text), ":", 4)
	if len(parts) != 4 {
		return zerr.With(ErrInvalidObjectIdentifier, "value", string(text))
	}
	kind, err := ParseFileKind(parts[0])
	if err != nil {
		return err
	}
	local, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return zerr.With(zerr.Wrap(err, ErrInvalidObjectIdentifier.Error()), "value", string(text))
	}
	*o = ObjectIdentifier{
		Asset:   AssetID(parts[1]),
		LocalID: local,
		Kind:    kind,
		Path:    parts[3],
	}
	return nil
}
