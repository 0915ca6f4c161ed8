package operation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Vote is an up or down vote on a post or comment.
type Vote struct {
	observed
	Voter    string
	Author   string
	Permlink string
	Weight   int16
}

func decodeVote(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Voter    string `json:"voter"`
		Author   string `json:"author"`
		Permlink string `json:"permlink"`
		Weight   int16  `json:"weight"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("voter", raw.Voter), field("author", raw.Author)); err != nil {
		return nil, err
	}
	return Vote{observed: o, Voter: raw.Voter, Author: raw.Author, Permlink: raw.Permlink, Weight: raw.Weight}, nil
}

func (v Vote) Kind() Kind       { return KindVote }
func (v Vote) Actor() string    { return v.Voter }
func (v Vote) Effected() string { return v.Author }

func (v Vote) Action() string {
	verb := "upvoted"
	switch {
	case v.Weight < 0:
		verb = "downvoted"
	case v.Weight == 0:
		verb = "unvoted"
	}
	return fmt.Sprintf("%s %s @%s/%s (%.2f%%)", v.who(v.Voter), verb, v.Author, v.Permlink, float64(v.Weight)/100)
}

// Comment is a root post or a reply.
type Comment struct {
	observed
	Author         string
	Permlink       string
	ParentAuthor   string
	ParentPermlink string
	Title          string
	Body           string
	JSONMetadata   string
}

func decodeComment(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Author         string `json:"author"`
		Permlink       string `json:"permlink"`
		ParentAuthor   string `json:"parent_author"`
		ParentPermlink string `json:"parent_permlink"`
		Title          string `json:"title"`
		Body           string `json:"body"`
		JSONMetadata   string `json:"json_metadata"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	// Neither a titled post nor a reply: nothing user-meaningful to record.
	if raw.Title == "" && raw.ParentAuthor == "" {
		return nil, nil
	}
	if err := requireFields(field("author", raw.Author), field("permlink", raw.Permlink)); err != nil {
		return nil, err
	}
	return Comment{
		observed:       o,
		Author:         raw.Author,
		Permlink:       raw.Permlink,
		ParentAuthor:   raw.ParentAuthor,
		ParentPermlink: raw.ParentPermlink,
		Title:          raw.Title,
		Body:           raw.Body,
		JSONMetadata:   raw.JSONMetadata,
	}, nil
}

func (c Comment) Kind() Kind       { return KindComment }
func (c Comment) Actor() string    { return c.Author }
func (c Comment) Effected() string { return c.ParentAuthor }

// IsPost reports whether the comment is a root post.
func (c Comment) IsPost() bool { return c.ParentAuthor == "" }

func (c Comment) Action() string {
	if c.IsPost() {
		return fmt.Sprintf("%s published @%s/%s", c.who(c.Author), c.Author, c.Permlink)
	}
	return fmt.Sprintf("%s replied to @%s/%s", c.who(c.Author), c.ParentAuthor, c.ParentPermlink)
}

// DeleteComment removes a post or reply.
type DeleteComment struct {
	observed
	Author   string
	Permlink string
}

func decodeDeleteComment(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Author   string `json:"author"`
		Permlink string `json:"permlink"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("author", raw.Author)); err != nil {
		return nil, err
	}
	return DeleteComment{observed: o, Author: raw.Author, Permlink: raw.Permlink}, nil
}

func (d DeleteComment) Kind() Kind       { return KindDeleteComment }
func (d DeleteComment) Actor() string    { return d.Author }
func (d DeleteComment) Effected() string { return "" }

func (d DeleteComment) Action() string {
	return fmt.Sprintf("%s deleted @%s/%s", d.who(d.Author), d.Author, d.Permlink)
}

// Follow covers follow, unfollow and mute, all carried by the "follow" custom_json plugin.
type Follow struct {
	observed
	kind      Kind
	Follower  string
	Following string
	What      []string
}

func (f Follow) Kind() Kind       { return f.kind }
func (f Follow) Actor() string    { return f.Follower }
func (f Follow) Effected() string { return f.Following }

func (f Follow) Action() string {
	verb := "followed"
	switch f.kind {
	case KindUnfollow:
		verb = "unfollowed"
	case KindMute:
		verb = "muted"
	}
	return fmt.Sprintf("%s %s %s", f.who(f.Follower), verb, f.who(f.Following))
}

// Resteem is a reblog of someone else's post.
type Resteem struct {
	observed
	Account  string
	Author   string
	Permlink string
}

func (r Resteem) Kind() Kind       { return KindResteem }
func (r Resteem) Actor() string    { return r.Account }
func (r Resteem) Effected() string { return r.Author }

func (r Resteem) Action() string {
	return fmt.Sprintf("%s resteemed @%s/%s", r.who(r.Account), r.Author, r.Permlink)
}

const followPluginID = "follow"

func decodeCustomJSON(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		ID   string `json:"id"`
		JSON string `json:"json"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	// The nested sub type decides. Bodies of other plugins need not be pairs at all.
	subType, subPayload, err := splitCustomJSON([]byte(raw.JSON))
	if err != nil {
		if raw.ID != "" && raw.ID != followPluginID {
			return nil, nil
		}
		return nil, err
	}

	switch subType {
	case "follow":
		return decodeFollow(subPayload, o)
	case "reblog":
		return decodeReblog(subPayload, o)
	default:
		return nil, nil
	}
}

// splitCustomJSON parses the nested [sub_type, sub_payload] pair.
// The {"type": ..., "value": ...} object form is accepted as well.
func splitCustomJSON(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty custom_json body", ErrMalformed)
	}

	if data[0] == '{' {
		var obj struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", nil, fmt.Errorf("%w: custom_json body: %v", ErrMalformed, err)
		}
		if obj.Type == "" {
			return "", nil, fmt.Errorf("%w: custom_json body without type", ErrMalformed)
		}
		return obj.Type, obj.Value, nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return "", nil, fmt.Errorf("%w: custom_json body: %v", ErrMalformed, err)
	}
	if len(pair) != 2 {
		return "", nil, fmt.Errorf("%w: custom_json body has %d elements", ErrMalformed, len(pair))
	}
	var subType string
	if err := json.Unmarshal(pair[0], &subType); err != nil {
		return "", nil, fmt.Errorf("%w: custom_json sub type: %v", ErrMalformed, err)
	}
	return subType, pair[1], nil
}

func decodeFollow(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Follower  string    `json:"follower"`
		Following string    `json:"following"`
		What      *[]string `json:"what"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("follower", raw.Follower), field("following", raw.Following)); err != nil {
		return nil, err
	}
	if raw.What == nil {
		return nil, fmt.Errorf("%w: missing what", ErrMalformed)
	}
	what := *raw.What

	kind := KindFollow
	switch {
	case len(what) == 0:
		kind = KindUnfollow
	case len(what) == 1 && what[0] == "ignore":
		kind = KindMute
	}
	return Follow{observed: o, kind: kind, Follower: raw.Follower, Following: raw.Following, What: what}, nil
}

func decodeReblog(payload json.RawMessage, o observed) (Variant, error) {
	var raw struct {
		Account  string `json:"account"`
		Author   string `json:"author"`
		Permlink string `json:"permlink"`
	}
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if err := requireFields(field("account", raw.Account), field("author", raw.Author)); err != nil {
		return nil, err
	}
	return Resteem{observed: o, Account: raw.Account, Author: raw.Author, Permlink: raw.Permlink}, nil
}
