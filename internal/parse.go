package internal

import (
	"encoding/json"

	pkgerrs "github.com/subfetch/subfetch/pkg/errors"
	"github.com/subfetch/subfetch/pkg/types"
)

// Parser handles decoding of Reddit listing responses.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseListing extracts a ListingData from a Thing of kind "Listing".
// A listing without a children array is rejected: that is the shape Reddit
// uses for every valid listing, so its absence means schema drift or an
// unexpected payload.
func (p *Parser) ParseListing(thing *types.Thing) (*types.ListingData, error) {
	if thing == nil {
		return nil, &pkgerrs.ParseError{Operation: "parse listing", Message: "thing is nil"}
	}
	if thing.Kind != "Listing" {
		return nil, &pkgerrs.ParseError{Operation: "parse listing", Message: "expected kind Listing, got " + kindLabel(thing.Kind)}
	}

	var listing types.ListingData
	if err := json.Unmarshal(thing.Data, &listing); err != nil {
		return nil, &pkgerrs.ParseError{Operation: "parse listing", Err: err}
	}
	if listing.Children == nil {
		return nil, &pkgerrs.ParseError{Operation: "parse listing", Message: "listing is missing data.children"}
	}
	return &listing, nil
}

// ParsePost extracts a Post from a Thing of kind "t3".
func (p *Parser) ParsePost(thing *types.Thing) (*types.Post, error) {
	if thing == nil {
		return nil, &pkgerrs.ParseError{Operation: "parse post", Message: "thing is nil"}
	}
	if thing.Kind != "t3" {
		return nil, &pkgerrs.ParseError{Operation: "parse post", Message: "expected kind t3, got " + kindLabel(thing.Kind)}
	}

	var post types.Post
	if err := json.Unmarshal(thing.Data, &post); err != nil {
		return nil, &pkgerrs.ParseError{Operation: "parse post", Err: err}
	}
	return &post, nil
}

// ExtractPosts walks the listing children in order and returns the posts.
// Children of other kinds are skipped; a t3 child with a malformed payload
// fails the whole extraction rather than yielding a partial listing.
func (p *Parser) ExtractPosts(listing *types.ListingData) ([]*types.Post, error) {
	posts := make([]*types.Post, 0, len(listing.Children))
	for _, child := range listing.Children {
		if child == nil || child.Kind != "t3" {
			continue
		}
		post, err := p.ParsePost(child)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func kindLabel(kind string) string {
	if kind == "" {
		return "(empty)"
	}
	return kind
}
