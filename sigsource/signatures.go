package sigsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethabi/recover/internal/elog"
)

// SignatureDirectory maps recovered selectors and topic hashes back to
// human-readable function/event signature text. Multiple results are
// possible (selector collisions exist); callers treat the list as
// candidates, not a single ground truth.
type SignatureDirectory interface {
	LoadFunctions(ctx context.Context, selector string) ([]string, error)
	LoadEvents(ctx context.Context, hash string) ([]string, error)
}

// FourByteDirectory queries a single 4byte.directory-style signature
// database (selector/event-hash to text mapping). A 404 yields an empty
// result and no error. Fallback across several providers is done by
// CompositeDirectory.
type FourByteDirectory struct {
	BaseURL string // e.g. "https://www.4byte.directory"
	Client  *http.Client
	log     *elog.Logger
}

// NewFourByteDirectory constructs a FourByteDirectory. If client is nil,
// http.DefaultClient is used.
func NewFourByteDirectory(baseURL string, client *http.Client) *FourByteDirectory {
	if client == nil {
		client = http.DefaultClient
	}
	return &FourByteDirectory{BaseURL: baseURL, Client: client, log: elog.Default().Module("fourbyte")}
}

type fourByteEnvelope struct {
	Results []struct {
		TextSignature string `json:"text_signature"`
	} `json:"results"`
}

// LoadFunctions implements SignatureDirectory.
func (d *FourByteDirectory) LoadFunctions(ctx context.Context, selector string) ([]string, error) {
	return d.load(ctx, fmt.Sprintf("%s/api/v1/signatures/?hex_signature=%s", d.BaseURL, selector), selector)
}

// LoadEvents implements SignatureDirectory.
func (d *FourByteDirectory) LoadEvents(ctx context.Context, hash string) ([]string, error) {
	return d.load(ctx, fmt.Sprintf("%s/api/v1/event-signatures/?hex_signature=%s", d.BaseURL, hash), hash)
}

func (d *FourByteDirectory) load(ctx context.Context, u, key string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		d.log.Warn("request failed", "key", key, "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fourbyte: unexpected status %d", resp.StatusCode)
	}

	var env fourByteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(env.Results))
	for _, r := range env.Results {
		texts = append(texts, r.TextSignature)
	}
	return texts, nil
}

// CompositeDirectory composes multiple SignatureDirectory providers: the
// first provider to return a non-empty result wins.
type CompositeDirectory struct {
	dirs  []SignatureDirectory
	names []string
}

// NamedDirectory pairs a SignatureDirectory with a diagnostic name.
type NamedDirectory struct {
	Name string
	Dir  SignatureDirectory
}

// NewCompositeDirectory builds a CompositeDirectory querying dirs in order.
func NewCompositeDirectory(named ...NamedDirectory) *CompositeDirectory {
	cd := &CompositeDirectory{}
	for _, n := range named {
		cd.dirs = append(cd.dirs, n.Dir)
		cd.names = append(cd.names, n.Name)
	}
	return cd
}

// LoadFunctions implements SignatureDirectory.
func (cd *CompositeDirectory) LoadFunctions(ctx context.Context, selector string) ([]string, error) {
	for i, d := range cd.dirs {
		texts, err := d.LoadFunctions(ctx, selector)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, &LoaderError{Source: cd.names[i], Address: selector, Cause: err}
		}
		if len(texts) > 0 {
			return texts, nil
		}
	}
	return nil, nil
}

// LoadEvents implements SignatureDirectory.
func (cd *CompositeDirectory) LoadEvents(ctx context.Context, hash string) ([]string, error) {
	for i, d := range cd.dirs {
		texts, err := d.LoadEvents(ctx, hash)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, &LoaderError{Source: cd.names[i], Address: hash, Cause: err}
		}
		if len(texts) > 0 {
			return texts, nil
		}
	}
	return nil, nil
}
