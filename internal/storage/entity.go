package storage

// UniversalTargetPlatform marks a version that is not tied to a platform.
const UniversalTargetPlatform = "universal"

// ExtensionVersion identifies one published version of an extension.
type ExtensionVersion struct {
	Namespace string `json:"namespace"`
	Extension string `json:"extension"`
	// TargetPlatform is empty or "universal" for platform-independent versions.
	TargetPlatform string `json:"targetPlatform,omitempty"`
	Version        string `json:"version"`
}

// IsUniversal reports whether the version carries no platform segment.
func (v ExtensionVersion) IsUniversal() bool {
	return v.TargetPlatform == "" || v.TargetPlatform == UniversalTargetPlatform
}

// FileResource is a file artifact belonging to an extension version.
type FileResource struct {
	// Name is the logical file name and may contain '/' separators.
	Name    string           `json:"name"`
	Content []byte           `json:"-"`
	Version ExtensionVersion `json:"version"`
}

// Namespace owns extensions and an optional logo.
type Namespace struct {
	Name      string `json:"name"`
	LogoName  string `json:"logoName,omitempty"`
	LogoBytes []byte `json:"-"`
}

// CopyPair names a source resource and the resource it is copied to.
type CopyPair struct {
	Source *FileResource `json:"source"`
	Target *FileResource `json:"target"`
}
