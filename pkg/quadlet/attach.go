package quadlet

// AttachOption adjusts how an attach call records its dependency
type AttachOption func(*attachOptions)

type attachOptions struct {
	overwrite bool
}

// Overwrite replaces the dependency list of that kind with the new entry
// instead of appending. Structural rules such as the network/pod exclusion
// still apply; only the duplicate checks against prior entries are skipped.
func Overwrite() AttachOption {
	return func(o *attachOptions) { o.overwrite = true }
}

func applyAttachOptions(opts []AttachOption) attachOptions {
	var resolved attachOptions
	for _, opt := range opts {
		opt(&resolved)
	}
	return resolved
}
