package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/bale/internal/core/domain"
)

// SerializationIndex returns the stable 64-bit write-order key of obj.
// Asset-backed objects hash their asset id and kind, path-addressed objects hash their
// path; the local id is folded in last.
func SerializationIndex(obj domain.ObjectIdentifier) int64 {
	h := xxhash.New()
	var buf [8]byte

	switch obj.Kind {
	case domain.KindMetaAsset, domain.KindSerializedAsset:
		_, _ = h.WriteString(string(obj.Asset))
		binary.LittleEndian.PutUint32(buf[:4], uint32(obj.Kind))
		_, _ = h.Write(buf[:4])
	default:
		_, _ = h.WriteString(obj.Path)
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(obj.LocalID))
	_, _ = h.Write(buf[:])

	return int64(h.Sum64()) //nolint:gosec // the index is a bit pattern, overflow is intended
}

// InternalFileName returns the serialized file name used for a bundle.
func InternalFileName(bundle string) string {
	return "CAB-" + digest.FromString(bundle).Encoded()[:2*KeySize]
}
