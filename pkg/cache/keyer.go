package cache

// Keyer derives cache keys. Implementations must return equal keys exactly
// when the cached values would be equal.
type Keyer interface {
	// DecomposeKey addresses the report of one decomposition run.
	DecomposeKey(inputHash string, opts DecomposeKeyOpts) string

	// ArtifactKey addresses a rendered artifact (DOT, SVG) of a report.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// DecomposeKeyOpts lists the options that change a decomposition report.
type DecomposeKeyOpts struct {
	MaxIterations int  `json:"max_iterations"`
	Strict        bool `json:"strict"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DecomposeKey returns "decompose:<sha256>".
func (DefaultKeyer) DecomposeKey(inputHash string, opts DecomposeKeyOpts) string {
	return hashKey("decompose", inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}
