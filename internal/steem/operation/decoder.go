package operation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a recognized operation whose payload could not be decoded.
var ErrMalformed = errors.New("malformed operation payload")

type decodeFunc func(payload json.RawMessage, o observed) (Variant, error)

var decoders = map[string]decodeFunc{
	"vote":                           decodeVote,
	"comment":                        decodeComment,
	"custom_json":                    decodeCustomJSON,
	"transfer":                       decodeTransfer,
	"delegate_vesting_shares":        decodeDelegateVestingShares,
	"claim_reward_balance":           decodeClaimRewardBalance,
	"account_witness_vote":           decodeAccountWitnessVote,
	"author_reward":                  decodeAuthorReward,
	"curation_reward":                decodeCurationReward,
	"return_vesting_delegation":      decodeReturnVestingDelegation,
	"feed_publish":                   decodeFeedPublish,
	"delete_comment":                 decodeDeleteComment,
	"account_create_with_delegation": decodeAccountCreateWithDelegation,
}

// suppressed types are well-formed but too noisy to store.
var suppressed = map[string]struct{}{
	"producer_reward": {},
}

// Decode maps a raw (type, payload) pair to a typed variant.
//
// It returns (nil, nil) for unknown or suppressed types and for recognized types that do not
// describe a user-meaningful event. A non-nil error always wraps ErrMalformed.
func Decode(opType string, payload json.RawMessage, observer string) (Variant, error) {
	opType = NormalizeType(opType)
	if _, ok := suppressed[opType]; ok {
		return nil, nil
	}
	decode, ok := decoders[opType]
	if !ok {
		return nil, nil
	}
	v, err := decode(payload, observed{observer: observer})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", opType, err)
	}
	return v, nil
}

// Supported reports whether Decode has a decoder for the type.
func Supported(opType string) bool {
	_, ok := decoders[NormalizeType(opType)]
	return ok
}

// NormalizeType strips the "_operation" suffix used by non-condenser node APIs.
func NormalizeType(opType string) string {
	return strings.TrimSuffix(opType, "_operation")
}

func unmarshal(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// requireFields fails when any named field is empty.
func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			return fmt.Errorf("%w: missing %s", ErrMalformed, f[0])
		}
	}
	return nil
}

func field(name, value string) [2]string {
	return [2]string{name, value}
}
