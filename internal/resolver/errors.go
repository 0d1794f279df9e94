package resolver

import "fmt"

// ModuleResolutionError reports a module specifier that could not be mapped
// to a file path.
type ModuleResolutionError struct {
	Module         string
	ContainingFile string
	Err            error
}

func (e *ModuleResolutionError) Error() string {
	return fmt.Sprintf("could not resolve module %q relative to %s", e.Module, e.ContainingFile)
}

func (e *ModuleResolutionError) Unwrap() error { return e.Err }

// VersionMismatchError reports a metadata document whose schema version
// differs from the supported one. It is always recoverable: the document is
// still used best-effort.
type VersionMismatchError struct {
	FilePath  string
	Found     int
	Supported int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("metadata version mismatch for %s: found %d, supported %d",
		e.FilePath, e.Found, e.Supported)
}
