package walletloader

import (
	"bufio"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ParseAddress validates a wallet address given on the command line.
func ParseAddress(address string) (common.Address, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return common.Address{}, entity.NewClientError(entity.ArgumentError, "wallet", errors.New("wallet address is required"))
	}
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, entity.NewClientError(entity.ArgumentError, "wallet", fmt.Errorf("%q is not a valid address", address))
	}
	return common.HexToAddress(trimmed), nil
}

// LocalSigner implements port.Signer with an in-memory private key.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// ParsePrivateKey accepts "0xab12.." as well as "ab12.." as the private key.
func ParsePrivateKey(key string) (*LocalSigner, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, entity.NewClientError(entity.ArgumentError, "key", errors.New("private key is required"))
	}
	stripped := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	privateKey, err := crypto.HexToECDSA(stripped)
	if err != nil {
		// The key itself is never echoed back.
		return nil, entity.NewClientError(entity.ArgumentError, "key", fmt.Errorf("malformed private key: %w", err))
	}
	return &LocalSigner{
		key:     privateKey,
		address: crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the account derived from the key.
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignTx signs tx with an EIP-155 signer for chainID.
func (s *LocalSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

var _ port.Signer = (*LocalSigner)(nil)

// LoadKeyFile reads the private key from the first non-empty, non-comment line of a file.
func LoadKeyFile(path string) (*LocalSigner, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, entity.NewClientError(entity.ArgumentError, "key file", fmt.Errorf("failed to open key file %s: %w", path, err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return ParsePrivateKey(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, entity.NewClientError(entity.ArgumentError, "key file", fmt.Errorf("error scanning key file %s: %w", path, err))
	}
	return nil, entity.NewClientError(entity.ArgumentError, "key file", fmt.Errorf("key file %s contains no key", path))
}
