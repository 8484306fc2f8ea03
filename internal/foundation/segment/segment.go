// Package segment validates untrusted URL path segments before they are used
// to build filesystem paths.
package segment

import (
	"io/fs"
	"strings"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Validate returns a validation error unless value is a single, non-hidden path element.
// field names the segment in the error context (e.g. "package", "version").
func Validate(field, value string) error {
	switch {
	case value == "":
		return derrors.ValidationError(field + " must not be empty").Build()
	case strings.ContainsAny(value, `/\`) || strings.ContainsRune(value, 0):
		return derrors.ValidationError(field+" must be a single path segment").
			WithContext(field, value).
			Build()
	case strings.HasPrefix(value, "."):
		return derrors.ValidationError(field+" must not start with a dot").
			WithContext(field, value).
			Build()
	case !fs.ValidPath(value):
		return derrors.ValidationError(field+" is not a valid path segment").
			WithContext(field, value).
			Build()
	}
	return nil
}
