package domain

import (
	"math/big"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

// IsZero reports whether the address is the zero-value sentinel used for
// "no bidder yet" in auction records.
func (a Address) IsZero() bool {
	return a.IsEmpty() || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) ToBigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok {
		return nil, xerrors.Errorf("invalid token id %s", i)
	}
	return id, nil
}

// AuctionId is allocated from a monotonically increasing counter.
type AuctionId uint64

type DomainName string

func (n DomainName) ToLower() DomainName {
	return DomainName(strings.ToLower(string(n)))
}

func (n DomainName) String() string {
	return string(n)
}

// ParseWei parses a base-10 wei amount. Negative values are rejected.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrInvalidNumberFormat
	}
	if v.Sign() < 0 {
		return nil, ErrInvalidNumberFormat
	}
	return v, nil
}

// WeiToDecimal128 converts a wei string into mongo's decimal128 so balance
// fields can be mutated with $inc.
func WeiToDecimal128(s string) (primitive.Decimal128, error) {
	if _, err := ParseWei(s); err != nil {
		return primitive.Decimal128{}, err
	}
	return primitive.ParseDecimal128(s)
}
