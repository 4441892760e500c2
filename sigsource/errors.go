package sigsource

import "fmt"

// LoaderError wraps a collaborator failure with the provider and the
// address/selector involved. CompositeSource and CompositeDirectory fill
// Source, Address and Cause; neither sets URL, which stays empty.
type LoaderError struct {
	Source  string
	Address string
	URL     string
	Cause   error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("sigsource: %s lookup for %s failed (%s): %v", e.Source, e.Address, e.URL, e.Cause)
}

func (e *LoaderError) Unwrap() error {
	return e.Cause
}
