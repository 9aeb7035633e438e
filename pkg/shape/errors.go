package shape

import "fmt"

// ValidationError reports a violated document invariant. The Role field
// is RoleAux when the violation is not tied to a specific group.
type ValidationError struct {
	Role    Role
	Message string
}

func (e ValidationError) Error() string {
	if e.Role != RoleAux {
		return fmt.Sprintf("validation: %s: %s", e.Role, e.Message)
	}
	return fmt.Sprintf("validation: %s", e.Message)
}

// ReferenceError reports an external curve reference that could not be
// resolved through the geometry source.
type ReferenceError struct {
	Ref string
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("reference: cannot resolve curve %q", e.Ref)
}

// PathError reports a save location outside the recognized
// shape-directory convention or an unwritable target.
type PathError struct {
	Path   string
	Reason string
	Err    error
}

func (e PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("path: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("path: %s: %s", e.Path, e.Reason)
}

func (e PathError) Unwrap() error { return e.Err }

// FormatError reports a definition file with a missing required
// section/key or an unparsable field.
type FormatError struct {
	Key    string // the offending section or key
	Reason string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("format: key %q: %s", e.Key, e.Reason)
}
