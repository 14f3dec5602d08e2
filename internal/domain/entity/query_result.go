package entity

import "math/big"

// AmountResult is an integer quantity read from a contract for a wallet.
type AmountResult struct {
	Label         string   `json:"label"`
	WalletAddress string   `json:"walletAddress"`
	Contract      string   `json:"contract"`
	Amount        *big.Int `json:"-"`
	AmountWei     string   `json:"amountWei"`
	Formatted     string   `json:"formatted"`
}

// StatusResult is the completion state of the ICO.
type StatusResult struct {
	Contract  string `json:"contract"`
	Completed bool   `json:"completed"`
}

// AccountSummary aggregates every read query for one wallet.
type AccountSummary struct {
	WalletAddress string       `json:"walletAddress"`
	WETHBalance   AmountResult `json:"wethBalance"`
	SCMBalance    AmountResult `json:"scmBalance"`
	ClaimableSCM  AmountResult `json:"claimableScm"`
	ICOCompleted  bool         `json:"icoCompleted"`
}

// ClaimResult reports a broadcast claim transaction.
type ClaimResult struct {
	From   string `json:"from"`
	TxHash string `json:"txHash"`
}

// InvestResult reports the approve/invest pair.
type InvestResult struct {
	From          string `json:"from"`
	Amount        string `json:"amount"`
	Unit          string `json:"unit"`
	AmountWei     string `json:"amountWei"`
	Policy        string `json:"policy"`
	ApproveTxHash string `json:"approveTxHash"`
	ApproveNonce  uint64 `json:"approveNonce"`
	InvestTxHash  string `json:"investTxHash"`
	InvestNonce   uint64 `json:"investNonce"`
	InvestGasUsed uint64 `json:"investGasUsed"`
	BlockNumber   string `json:"blockNumber"`
}
