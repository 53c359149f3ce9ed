package detection

// Annotator draws detection boxes onto a raw JPEG frame. Image annotation
// is an external concern — this package specifies only the data contract
// the annotator consumes, not an implementation. Callers (e.g.
// camera.Sampler) hold an Annotator and invoke it per frame; none is
// provided here.
type Annotator interface {
	Annotate(jpeg []byte, objects []Detection) ([]byte, error)
}
