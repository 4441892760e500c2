package sigsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ethabi/recover/internal/elog"
)

// EtherscanSource queries the Etherscan v2 "contract getsourcecode"
// endpoint for published ABI and compiler metadata.
type EtherscanSource struct {
	BaseURL string
	APIKey  string
	ChainID uint64
	Client  *http.Client
	log     *elog.Logger
}

// NewEtherscanSource constructs an EtherscanSource. If client is nil,
// http.DefaultClient is used.
func NewEtherscanSource(baseURL, apiKey string, chainID uint64, client *http.Client) *EtherscanSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &EtherscanSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		ChainID: chainID,
		Client:  client,
		log:     elog.Default().Module("etherscan"),
	}
}

type etherscanEnvelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Result  []etherscanResult `json:"result"`
}

type etherscanResult struct {
	ABI             string `json:"ABI"`
	ContractName    string `json:"ContractName"`
	EVMVersion      string `json:"EVMVersion"`
	CompilerVersion string `json:"CompilerVersion"`
	Runs            string `json:"Runs"`
}

// GetContract implements ContractSource.
func (s *EtherscanSource) GetContract(ctx context.Context, address string) (ContractInfo, error) {
	u, err := buildEtherscanURL(s.BaseURL, s.ChainID, s.APIKey, address)
	if err != nil {
		return ContractInfo{}, err
	}

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
		return ContractInfo{}, fmt.Errorf("etherscan: unexpected status %d", resp.StatusCode)
	}

	var env etherscanEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ContractInfo{}, err
	}
	if env.Status != "1" || len(env.Result) == 0 || env.Result[0].ABI == "" || env.Result[0].ABI == "Contract source code not verified" {
		return ContractInfo{}, ErrNotFound
	}

	r := env.Result[0]
	runs, _ := strconv.Atoi(r.Runs)
	return ContractInfo{
		ABI:             r.ABI,
		Name:            r.ContractName,
		EVMVersion:      r.EVMVersion,
		CompilerVersion: r.CompilerVersion,
		Runs:            runs,
		OK:              true,
	}, nil
}

func buildEtherscanURL(base string, chainID uint64, apiKey, address string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("chainid", strconv.FormatUint(chainID, 10))
	q.Set("module", "contract")
	q.Set("action", "getsourcecode")
	q.Set("address", address)
	if apiKey != "" {
		q.Set("apikey", apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
