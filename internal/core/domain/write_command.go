package domain

// SerializationInfo pairs an object with its deterministic write position key.
type SerializationInfo struct {
	Object ObjectIdentifier `json:"object"`
	Index  int64            `json:"index"`
}

// WriteCommand is the compiled instruction set for one output bundle.
type WriteCommand struct {
	Bundle string `json:"bundle"`
	// InternalName is the serialized file name, derived from Bundle.
	InternalName string          `json:"internalName"`
	Assets       []AssetLoadInfo `json:"assets"`
	// Objects is sorted by serialization index, then by identifier.
	Objects []SerializationInfo `json:"objects"`
	// Dependencies is sorted, free of duplicates and never contains Bundle.
	Dependencies []string  `json:"dependencies"`
	SceneBundle  bool      `json:"sceneBundle"`
	UsageTags    UsageTags `json:"usageTags"`
	// SceneResources are the raw files produced by preparing the member scenes.
	SceneResources []ResourceFile `json:"sceneResources,omitempty"`
}

// BundleResult is the outcome of building one bundle.
type BundleResult struct {
	Bundle       string   `json:"bundle"`
	Archive      string   `json:"archive"`
	Files        []string `json:"files"`
	CRC          uint32   `json:"crc"`
	Digest       string   `json:"digest"`
	Dependencies []string `json:"dependencies"`
}
