package ethereum

import (
	"strings"

	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"

	"github.com/ethereum/go-ethereum/common"
)

// AddressResolver accepts 20-byte hex account addresses, with or without the
// 0x prefix and in any letter case, and returns the EIP-55 checksummed form.
type AddressResolver struct {
	// RejectZero refuses the all-zero address.
	RejectZero bool
}

func (r AddressResolver) Normalize(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if !common.IsHexAddress(value) {
		return "", domainerrors.ErrInvalidAddress
	}
	address := common.HexToAddress(value)
	if r.RejectZero && address == (common.Address{}) {
		return "", domainerrors.ErrInvalidAddress
	}
	return address.Hex(), nil
}
