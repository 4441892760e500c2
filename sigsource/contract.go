// Package sigsource implements the two external collaborators named by
// the ABI recovery service's outer boundary: a metadata source that maps
// a contract address to its published ABI and compiler settings, and a
// signature directory that maps recovered selectors/topic hashes back to
// human-readable text. Neither is part of the core scanner — the core
// never performs I/O — but both follow the core's output types.
package sigsource

import (
	"context"
	"errors"
)

// ContractInfo is what an ABI metadata source reports for an address.
type ContractInfo struct {
	ABI             string
	Name            string
	EVMVersion      string
	CompilerVersion string
	Runs            int
	OK              bool
}

// ContractSource looks up published contract metadata for an address.
// A source with no record for the address reports either
// ContractInfo{OK: false} with a nil error or an error wrapping ErrNotFound
// (EtherscanSource and SourcifySource do the latter); CompositeSource turns
// both into ContractInfo{OK: false} with a nil error once every source
// has been tried.
type ContractSource interface {
	GetContract(ctx context.Context, address string) (ContractInfo, error)
}

// ErrNotFound is a sentinel a ContractSource implementation can wrap to
// signal "no record here, try the next source" to CompositeSource,
// distinguished from a transport/server failure that should short-circuit
// the whole lookup.
var ErrNotFound = errors.New("sigsource: no record found")

// CompositeSource queries an ordered list of sources and returns the
// first non-empty (OK: true) result. A source reporting ErrNotFound (its
// 404-equivalent) advances to the next source; any other error
// short-circuits the whole lookup and is returned wrapped as a
// LoaderError.
type CompositeSource struct {
	sources []ContractSource
	names   []string
}

// NewCompositeSource builds a CompositeSource querying sources in order.
// name labels each source for error context and is purely diagnostic.
func NewCompositeSource(named ...NamedContractSource) *CompositeSource {
	cs := &CompositeSource{}
	for _, n := range named {
		cs.sources = append(cs.sources, n.Source)
		cs.names = append(cs.names, n.Name)
	}
	return cs
}

// NamedContractSource pairs a ContractSource with a diagnostic name.
type NamedContractSource struct {
	Name   string
	Source ContractSource
}

// GetContract implements ContractSource.
func (cs *CompositeSource) GetContract(ctx context.Context, address string) (ContractInfo, error) {
	for i, src := range cs.sources {
		info, err := src.GetContract(ctx, address)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return ContractInfo{}, &LoaderError{Source: cs.names[i], Address: address, Cause: err}
		}
		if info.OK {
			return info, nil
		}
	}
	return ContractInfo{OK: false}, nil
}
