package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64            `json:"chainId" yaml:"chainId"`
	Name             string            `json:"name" yaml:"name"`
	Identifier       string            `json:"identifier" yaml:"identifier"`
	NativeSymbol     string            `json:"nativeSymbol" yaml:"nativeSymbol"`
	PrimaryRPCURL    string            `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string          `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string            `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	Contracts        ContractAddresses `json:"contracts" yaml:"contracts"`
}

// ContractAddresses lists the deployment of the SCM contracts on a network.
// Empty fields mean the network has no known deployment and must be configured.
type ContractAddresses struct {
	WETH string `json:"weth" yaml:"weth"`
	SCM  string `json:"scm" yaml:"scm"`
	ICO  string `json:"ico" yaml:"ico"`
}

// RPCURLs returns the primary endpoint followed by the fallbacks.
func (n NetworkDefinition) RPCURLs() []string {
	urls := make([]string, 0, 1+len(n.FallbackRPCURLs))
	if n.PrimaryRPCURL != "" {
		urls = append(urls, n.PrimaryRPCURL)
	}
	return append(urls, n.FallbackRPCURLs...)
}
