// Package operation classifies raw Steem operations into a closed set of typed variants.
package operation

// Kind is the persisted operation type tag.
type Kind string

const (
	KindVote                        Kind = "vote"
	KindComment                     Kind = "comment"
	KindFollow                      Kind = "follow"
	KindUnfollow                    Kind = "unfollow"
	KindMute                        Kind = "mute"
	KindResteem                     Kind = "resteem"
	KindTransfer                    Kind = "transfer"
	KindDelegateVestingShares       Kind = "delegate_vesting_shares"
	KindClaimRewardBalance          Kind = "claim_reward_balance"
	KindAccountWitnessVote          Kind = "account_witness_vote"
	KindAuthorReward                Kind = "author_reward"
	KindCurationReward              Kind = "curation_reward"
	KindReturnVestingDelegation     Kind = "return_vesting_delegation"
	KindFeedPublish                 Kind = "feed_publish"
	KindDeleteComment               Kind = "delete_comment"
	KindAccountCreateWithDelegation Kind = "account_create_with_delegation"
)

// Kinds lists every kind a decoded variant can carry.
var Kinds = []Kind{
	KindVote, KindComment, KindFollow, KindUnfollow, KindMute, KindResteem,
	KindTransfer, KindDelegateVestingShares, KindClaimRewardBalance,
	KindAccountWitnessVote, KindAuthorReward, KindCurationReward,
	KindReturnVestingDelegation, KindFeedPublish, KindDeleteComment,
	KindAccountCreateWithDelegation,
}

// Variant is a decoded operation. The set of implementations is closed to this package.
type Variant interface {
	Kind() Kind
	// Actor is the account that performed the operation.
	Actor() string
	// Effected is the account acted upon, or "" when there is none.
	Effected() string
	// Action is a one-line description from the observing account's point of view.
	Action() string

	sealed()
}

// observed carries the account the variant is rendered for.
type observed struct {
	observer string
}

func (observed) sealed() {}

func (o observed) who(account string) string {
	if account != "" && account == o.observer {
		return "you"
	}
	return "@" + account
}

// SourceType returns the chain operation type a kind is decoded from, so stored rows can be
// decoded again with Decode.
func SourceType(kind Kind) string {
	switch kind {
	case KindFollow, KindUnfollow, KindMute, KindResteem:
		return "custom_json"
	default:
		return string(kind)
	}
}
