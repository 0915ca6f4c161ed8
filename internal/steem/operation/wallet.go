package operation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
)

// Transfer moves liquid STEEM or SBD between accounts.
type Transfer struct {
	observed
	From   string
	To     string
	Amount model.Amount
	Memo   string
}

func decodeTransfer(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		From   string       `json:"from"`
		To     string       `json:"to"`
		Amount model.Amount `json:"amount"`
		Memo   string       `json:"memo"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("from", raw.From), field("to", raw.To), field("amount", raw.Amount.Symbol)); err != nil {
		return nil, err
	}
	return Transfer{observed: o, From: raw.From, To: raw.To, Amount: raw.Amount, Memo: raw.Memo}, nil
}

func (t Transfer) Kind() Kind       { return KindTransfer }
func (t Transfer) Actor() string    { return t.From }
func (t Transfer) Effected() string { return t.To }

func (t Transfer) Action() string {
	return fmt.Sprintf("%s transferred %s to %s", t.who(t.From), t.Amount, t.who(t.To))
}

// DelegateVestingShares delegates (or, with zero shares, removes a delegation of) Steem Power.
type DelegateVestingShares struct {
	observed
	Delegator     string
	Delegatee     string
	VestingShares model.Amount
}

func decodeDelegateVestingShares(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Delegator     string       `json:"delegator"`
		Delegatee     string       `json:"delegatee"`
		VestingShares model.Amount `json:"vesting_shares"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("delegator", raw.Delegator), field("delegatee", raw.Delegatee)); err != nil {
		return nil, err
	}
	return DelegateVestingShares{observed: o, Delegator: raw.Delegator, Delegatee: raw.Delegatee, VestingShares: raw.VestingShares}, nil
}

func (d DelegateVestingShares) Kind() Kind       { return KindDelegateVestingShares }
func (d DelegateVestingShares) Actor() string    { return d.Delegator }
func (d DelegateVestingShares) Effected() string { return d.Delegatee }

func (d DelegateVestingShares) Action() string {
	if d.VestingShares.IsZero() {
		return fmt.Sprintf("%s removed delegation to %s", d.who(d.Delegator), d.who(d.Delegatee))
	}
	return fmt.Sprintf("%s delegated %s to %s", d.who(d.Delegator), d.VestingShares, d.who(d.Delegatee))
}

// ClaimRewardBalance moves pending rewards into the account balances.
type ClaimRewardBalance struct {
	observed
	Account     string
	RewardSteem model.Amount
	RewardSBD   model.Amount
	RewardVests model.Amount
}

func decodeClaimRewardBalance(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Account     string       `json:"account"`
		RewardSteem model.Amount `json:"reward_steem"`
		RewardSBD   model.Amount `json:"reward_sbd"`
		RewardVests model.Amount `json:"reward_vests"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("account", raw.Account)); err != nil {
		return nil, err
	}
	return ClaimRewardBalance{
		observed:    o,
		Account:     raw.Account,
		RewardSteem: raw.RewardSteem,
		RewardSBD:   raw.RewardSBD,
		RewardVests: raw.RewardVests,
	}, nil
}

func (c ClaimRewardBalance) Kind() Kind       { return KindClaimRewardBalance }
func (c ClaimRewardBalance) Actor() string    { return c.Account }
func (c ClaimRewardBalance) Effected() string { return "" }

func (c ClaimRewardBalance) Action() string {
	return fmt.Sprintf("%s claimed rewards: %s", c.who(c.Account), joinAmounts(c.RewardSteem, c.RewardSBD, c.RewardVests))
}

// AccountWitnessVote approves or unapproves a witness.
type AccountWitnessVote struct {
	observed
	Account string
	Witness string
	Approve bool
}

func decodeAccountWitnessVote(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Account string `json:"account"`
		Witness string `json:"witness"`
		Approve bool   `json:"approve"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("account", raw.Account), field("witness", raw.Witness)); err != nil {
		return nil, err
	}
	return AccountWitnessVote{observed: o, Account: raw.Account, Witness: raw.Witness, Approve: raw.Approve}, nil
}

func (a AccountWitnessVote) Kind() Kind       { return KindAccountWitnessVote }
func (a AccountWitnessVote) Actor() string    { return a.Account }
func (a AccountWitnessVote) Effected() string { return a.Witness }

func (a AccountWitnessVote) Action() string {
	verb := "approved"
	if !a.Approve {
		verb = "unapproved"
	}
	return fmt.Sprintf("%s %s witness %s", a.who(a.Account), verb, a.who(a.Witness))
}

// AuthorReward is the virtual payout of a post to its author.
type AuthorReward struct {
	observed
	Author        string
	Permlink      string
	SBDPayout     model.Amount
	SteemPayout   model.Amount
	VestingPayout model.Amount
}

func decodeAuthorReward(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Author        string       `json:"author"`
		Permlink      string       `json:"permlink"`
		SBDPayout     model.Amount `json:"sbd_payout"`
		SteemPayout   model.Amount `json:"steem_payout"`
		VestingPayout model.Amount `json:"vesting_payout"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("author", raw.Author)); err != nil {
		return nil, err
	}
	return AuthorReward{
		observed:      o,
		Author:        raw.Author,
		Permlink:      raw.Permlink,
		SBDPayout:     raw.SBDPayout,
		SteemPayout:   raw.SteemPayout,
		VestingPayout: raw.VestingPayout,
	}, nil
}

func (a AuthorReward) Kind() Kind       { return KindAuthorReward }
func (a AuthorReward) Actor() string    { return a.Author }
func (a AuthorReward) Effected() string { return "" }

func (a AuthorReward) Action() string {
	return fmt.Sprintf("%s received author reward %s for @%s/%s",
		a.who(a.Author), joinAmounts(a.SBDPayout, a.SteemPayout, a.VestingPayout), a.Author, a.Permlink)
}

// CurationReward is the virtual payout to a voter of a post.
type CurationReward struct {
	observed
	Curator         string
	Reward          model.Amount
	CommentAuthor   string
	CommentPermlink string
}

func decodeCurationReward(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Curator         string       `json:"curator"`
		Reward          model.Amount `json:"reward"`
		CommentAuthor   string       `json:"comment_author"`
		CommentPermlink string       `json:"comment_permlink"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("curator", raw.Curator)); err != nil {
		return nil, err
	}
	return CurationReward{
		observed:        o,
		Curator:         raw.Curator,
		Reward:          raw.Reward,
		CommentAuthor:   raw.CommentAuthor,
		CommentPermlink: raw.CommentPermlink,
	}, nil
}

func (c CurationReward) Kind() Kind       { return KindCurationReward }
func (c CurationReward) Actor() string    { return c.Curator }
func (c CurationReward) Effected() string { return c.CommentAuthor }

func (c CurationReward) Action() string {
	return fmt.Sprintf("%s received curation reward %s for @%s/%s", c.who(c.Curator), c.Reward, c.CommentAuthor, c.CommentPermlink)
}

// ReturnVestingDelegation is the virtual return of expired delegated shares.
type ReturnVestingDelegation struct {
	observed
	Account       string
	VestingShares model.Amount
}

func decodeReturnVestingDelegation(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Account       string       `json:"account"`
		VestingShares model.Amount `json:"vesting_shares"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("account", raw.Account)); err != nil {
		return nil, err
	}
	return ReturnVestingDelegation{observed: o, Account: raw.Account, VestingShares: raw.VestingShares}, nil
}

func (r ReturnVestingDelegation) Kind() Kind       { return KindReturnVestingDelegation }
func (r ReturnVestingDelegation) Actor() string    { return r.Account }
func (r ReturnVestingDelegation) Effected() string { return "" }

func (r ReturnVestingDelegation) Action() string {
	return fmt.Sprintf("%s got back %s of delegation", r.who(r.Account), r.VestingShares)
}

// FeedPublish is a witness price feed update.
type FeedPublish struct {
	observed
	Publisher string
	Base      model.Amount
	Quote     model.Amount
}

func decodeFeedPublish(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Publisher    string `json:"publisher"`
		ExchangeRate struct {
			Base  model.Amount `json:"base"`
			Quote model.Amount `json:"quote"`
		} `json:"exchange_rate"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("publisher", raw.Publisher)); err != nil {
		return nil, err
	}
	return FeedPublish{observed: o, Publisher: raw.Publisher, Base: raw.ExchangeRate.Base, Quote: raw.ExchangeRate.Quote}, nil
}

func (f FeedPublish) Kind() Kind       { return KindFeedPublish }
func (f FeedPublish) Actor() string    { return f.Publisher }
func (f FeedPublish) Effected() string { return "" }

func (f FeedPublish) Action() string {
	return fmt.Sprintf("%s published price feed %s / %s", f.who(f.Publisher), f.Base, f.Quote)
}

// AccountCreateWithDelegation creates an account, paying a fee and delegating Steem Power.
type AccountCreateWithDelegation struct {
	observed
	Creator        string
	NewAccountName string
	Fee            model.Amount
	Delegation     model.Amount
}

func decodeAccountCreateWithDelegation(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Creator        string       `json:"creator"`
		NewAccountName string       `json:"new_account_name"`
		Fee            model.Amount `json:"fee"`
		Delegation     model.Amount `json:"delegation"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("creator", raw.Creator), field("new_account_name", raw.NewAccountName)); err != nil {
		return nil, err
	}
	return AccountCreateWithDelegation{
		observed:       o,
		Creator:        raw.Creator,
		NewAccountName: raw.NewAccountName,
		Fee:            raw.Fee,
		Delegation:     raw.Delegation,
	}, nil
}

func (a AccountCreateWithDelegation) Kind() Kind       { return KindAccountCreateWithDelegation }
func (a AccountCreateWithDelegation) Actor() string    { return a.Creator }
func (a AccountCreateWithDelegation) Effected() string { return a.NewAccountName }

func (a AccountCreateWithDelegation) Action() string {
	return fmt.Sprintf("%s created account %s (fee %s, delegation %s)", a.who(a.Creator), a.who(a.NewAccountName), a.Fee, a.Delegation)
}

func joinAmounts(amounts ...model.Amount) string {
	parts := make([]string, 0, len(amounts))
	for _, a := range amounts {
		if a.Symbol == "" || a.IsZero() {
			continue
		}
		parts = append(parts, a.String())
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
