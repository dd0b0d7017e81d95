package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type ambiguousError struct {
	kind    string
	ref     string
	matches int
}

func (e ambiguousError) Error() string {
	return fmt.Sprintf("%s reference %q is ambiguous (%d matches); use a longer id prefix", e.kind, e.ref, e.matches)
}

func errAmbiguous(kind, ref string, matches int) error {
	return ambiguousError{kind: kind, ref: ref, matches: matches}
}
