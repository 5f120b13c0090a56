package config

import "fmt"

// NotFoundError reports a category or fragment name that does not exist
// in the group store.
type NotFoundError struct {
	Category string
	Name     string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("category %q: no fragment selected and no default declared", e.Category)
	}
	return fmt.Sprintf("configuration not found: no fragment %q in category %q", e.Name, e.Category)
}

// UnresolvedReferenceError reports a ${ref} substitution inside a
// configuration value that does not resolve to any known value.
type UnresolvedReferenceError struct {
	// Key is the configuration key whose value holds the reference.
	Key string
	// Ref is the name that failed to resolve.
	Ref string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference ${%s} in value of %q", e.Ref, e.Key)
}
