package sigsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethabi/recover/internal/elog"
)

// SourcifySource queries Sourcify's repository API for verified contract
// metadata by chain ID and address.
type SourcifySource struct {
	BaseURL string // e.g. "https://repo.sourcify.dev"
	ChainID uint64
	Client  *http.Client
	log     *elog.Logger
}

// NewSourcifySource constructs a SourcifySource. If client is nil,
// http.DefaultClient is used.
func NewSourcifySource(baseURL string, chainID uint64, client *http.Client) *SourcifySource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SourcifySource{
		BaseURL: baseURL,
		ChainID: chainID,
		Client:  client,
		log:     elog.Default().Module("sourcify"),
	}
}

type sourcifyMetadata struct {
	Output struct {
		ABI json.RawMessage `json:"abi"`
	} `json:"output"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
		EVMVersion        string             `json:"evmVersion"`
		Optimizer         struct {
			Enabled bool `json:"enabled"`
			Runs    int  `json:"runs"`
		} `json:"optimizer"`
	} `json:"settings"`
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// GetContract implements ContractSource.
func (s *SourcifySource) GetContract(ctx context.Context, address string) (ContractInfo, error) {
	u := fmt.Sprintf("%s/contracts/full_match/%d/%s/metadata.json", s.BaseURL, s.ChainID, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ContractInfo{}, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		s.log.Warn("request failed", "address", address, "err", err)
		return ContractInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ContractInfo{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return ContractInfo{}, fmt.Errorf("sourcify: unexpected status %d", resp.StatusCode)
	}

	var md sourcifyMetadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return ContractInfo{}, err
	}

	name := ""
	for _, n := range md.Settings.CompilationTarget {
		name = n
		break
	}

	return ContractInfo{
		ABI:             string(md.Output.ABI),
		Name:            name,
		EVMVersion:      md.Settings.EVMVersion,
		CompilerVersion: md.Compiler.Version,
		Runs:            md.Settings.Optimizer.Runs,
		OK:              len(md.Output.ABI) > 0,
	}, nil
}
