// Package types defines the wire and domain shapes for Reddit listing responses.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ThingData holds the identifier fields shared by all Reddit objects.
// It is embedded into concrete types like Post.
type ThingData struct {
	ID   string `json:"id"`   // ID (without kind prefix)
	Name string `json:"name"` // Full name (e.g., "t3_abc123")
}

// GetID returns the object's ID.
func (td ThingData) GetID() string {
	return td.ID
}

// GetName returns the object's full name.
func (td ThingData) GetName() string {
	return td.Name
}

// Thing is the envelope Reddit wraps every API object in. The kind string
// identifies the payload type ("Listing", "t3", ...) and Data holds the raw
// payload for the parser to decode once the kind is known.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Votable is an embeddable struct for things that can be voted on.
type Votable struct {
	Ups   int `json:"ups"`
	Downs int `json:"downs"`
	// Likes indicates the user's vote: true for upvote, false for downvote, null for no vote.
	Likes *bool `json:"likes"`
}

// Created is an embeddable struct for things that have a creation time.
// Both fields are epoch seconds as delivered by Reddit.
type Created struct {
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
}

// Edited represents a field that can be a boolean or a timestamp.
// If IsEdited is true and Timestamp is 0, it was an old edit marked as `true`.
// If IsEdited is true and Timestamp is non-zero, it's a modern edit with a timestamp.
// If IsEdited is false, the item was not edited.
type Edited struct {
	IsEdited  bool
	Timestamp float64
}

// UnmarshalJSON implements json.Unmarshaler to handle mixed types for the "edited" field.
func (e *Edited) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "false", "null":
		e.IsEdited = false
		e.Timestamp = 0
		return nil
	case "true":
		// Old edits carry `true` instead of a timestamp.
		e.IsEdited = true
		e.Timestamp = 0
		return nil
	}

	var timestamp float64
	if err := json.Unmarshal(data, &timestamp); err == nil {
		e.IsEdited = true
		e.Timestamp = timestamp
		return nil
	}

	return fmt.Errorf("unrecognized type for 'edited' field: %s", data)
}

// MarshalJSON renders the field back in Reddit's mixed representation.
func (e Edited) MarshalJSON() ([]byte, error) {
	if !e.IsEdited {
		return []byte("false"), nil
	}
	if e.Timestamp == 0 {
		return []byte("true"), nil
	}
	return json.Marshal(e.Timestamp)
}

// ListingData contains the data for a Listing. Children are raw Things with
// kind+data, decoded by the parser. The pagination fullnames are carried as
// plain data; the client performs no follow-up page fetches.
type ListingData struct {
	BeforeFullname string   `json:"before"`
	AfterFullname  string   `json:"after"`
	Modhash        string   `json:"modhash"`
	Children       []*Thing `json:"children"`
}

// Post represents a single submitted item in a subreddit listing.
// Pointer-typed fields are optional on the wire and stay nil when Reddit
// omits them or sends null; value-typed fields default to their zero value.
// Posts are immutable once returned by the client.
type Post struct {
	ThingData
	Votable
	Created
	Author              string          `json:"author"`
	AuthorFlairCSSClass *string         `json:"author_flair_css_class"`
	AuthorFlairText     *string         `json:"author_flair_text"`
	Domain              string          `json:"domain"`
	IsSelf              bool            `json:"is_self"`
	LinkFlairCSSClass   *string         `json:"link_flair_css_class"`
	LinkFlairText       *string         `json:"link_flair_text"`
	Locked              bool            `json:"locked"`
	Media               json.RawMessage `json:"media,omitempty"`
	MediaEmbed          json.RawMessage `json:"media_embed,omitempty"`
	NumComments         int             `json:"num_comments"`
	Over18              bool            `json:"over_18"`
	Permalink           string          `json:"permalink"`
	Score               int             `json:"score"`
	SelfText            string          `json:"selftext"`
	SelfTextHTML        *string         `json:"selftext_html"`
	Subreddit           string          `json:"subreddit"`
	SubredditID         string          `json:"subreddit_id"`
	Thumbnail           string          `json:"thumbnail"`
	Title               string          `json:"title"`
	URL                 string          `json:"url"`
	Edited              Edited          `json:"edited"` // Can be a boolean or a float64 timestamp
	Distinguished       *string         `json:"distinguished"`
	Stickied            bool            `json:"stickied"`
	IsVideo             bool            `json:"is_video"`
	Spoiler             bool            `json:"spoiler"`
	PostHint            *string         `json:"post_hint"`
}

// Subreddit is the result of a listing fetch: the name as requested plus the
// posts in the exact order the API delivered them. A fresh value is built per
// call and is owned by the caller afterwards.
type Subreddit struct {
	// Name is the subreddit name as requested, without the "r/" prefix.
	Name string

	// Posts holds the listing entries in response order. Its length is at
	// most the requested limit.
	Posts []*Post

	// AfterFullname and BeforeFullname are the listing's pagination markers
	// (e.g. "t3_abc123"), carried as data only.
	AfterFullname  string
	BeforeFullname string
}
