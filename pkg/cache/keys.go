package cache

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies the decomposition history of a graph.
	ResultKey(graphHash string, opts ResultKeyOpts) string
	// ArtifactKey identifies a rendered drawing of one cover.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts holds the run options that change a decomposition result.
// The worker count is deliberately absent: it never changes the outcome.
type ResultKeyOpts struct {
	Measure         string `json:"measure"`
	EagerModularity bool   `json:"eager"`
}

// ArtifactKeyOpts identifies a rendered cover.
type ArtifactKeyOpts struct {
	Count   int    `json:"count"`
	Format  string `json:"format"`
	Indices bool   `json:"indices,omitempty"`
	Title   string `json:"title,omitempty"`
	// Labels is a digest of the drawn vertex labels; empty when the
	// drawing shows indices.
	Labels string `json:"labels,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey returns "result:<sha256>" over the graph hash and opts.
func (DefaultKeyer) ResultKey(graphHash string, opts ResultKeyOpts) string {
	return hashKey("result", graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the graph hash and opts.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
