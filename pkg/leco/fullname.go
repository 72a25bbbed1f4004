package leco

import "bytes"

// FullName is a parsed "namespace.name" view into frame memory. It does not
// copy: Namespace and Name are subslices of the byte slice passed to
// ParseFullName.
// Callers that need to outlive the source frame (e.g. a directory key) must
// copy explicitly.
type FullName struct {
	Namespace []byte
	Name      []byte
}

// String renders the dotted form, re-allocating.
func (f FullName) String() string {
	if len(f.Namespace) == 0 {
		return string(f.Name)
	}
	return string(f.Namespace) + "." + string(f.Name)
}

// IsCoordinator reports whether the short name addresses a Coordinator.
func (f FullName) IsCoordinator() bool {
	return bytes.Equal(f.Name, []byte("COORDINATOR"))
}

// ParseFullName splits b on a single ASCII '.' separator. Zero separators
// yields an empty namespace and the whole input as name. Exactly one
// separator yields both parts. Two or more separators is invalid.
func ParseFullName(b []byte) (FullName, error) {
	parts := bytes.Split(b, []byte("."))
	switch len(parts) {
	case 1:
		return FullName{Namespace: nil, Name: parts[0]}, nil
	case 2:
		return FullName{Namespace: parts[0], Name: parts[1]}, nil
	default:
		return FullName{}, NewError(ErrInvalidParams)
	}
}

// BuildFullName renders a namespace and name back into wire bytes.
func BuildFullName(namespace, name []byte) []byte {
	if len(namespace) == 0 {
		return append([]byte(nil), name...)
	}
	out := make([]byte, 0, len(namespace)+1+len(name))
	out = append(out, namespace...)
	out = append(out, '.')
	out = append(out, name...)
	return out
}
