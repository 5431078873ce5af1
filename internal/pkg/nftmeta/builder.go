// Package nftmeta builds ERC-721 style metadata documents for attendance
// badges. Build is pure and deterministic: the documents are published to
// content-addressed storage, so identical inputs must produce identical bytes.
package nftmeta

import (
	"fmt"
	"net/url"
	"time"
)

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

type Params struct {
	EventName     string
	EventDate     time.Time
	EventLocation string
	AttendeeName  string
	AttendeeEmail string
	TokenID       string
	EventImageURL string
	ExternalURL   string
}

// Build produces the badge metadata document. The Location attribute is
// appended last and only when a location is set.
func Build(p Params) Document {
	date := p.EventDate.UTC()

	image := p.EventImageURL
	if image == "" {
		query := url.QueryEscape(p.EventName + " NFT Badge")
		image = fmt.Sprintf("/placeholder.svg?height=500&width=500&query=%v", query)
	}

	description := fmt.Sprintf("This NFT certifies attendance at %v on %v.", p.EventName, date.Format("2006-01-02"))
	if p.EventLocation != "" {
		description += fmt.Sprintf(" Location: %v.", p.EventLocation)
	}

	attributes := []Attribute{
		{TraitType: "Event", Value: p.EventName},
		{TraitType: "Date", Value: date.Format(time.RFC3339)},
		{TraitType: "Attendee", Value: p.AttendeeName},
		{TraitType: "Email", Value: p.AttendeeEmail},
		{TraitType: "Token ID", Value: p.TokenID},
	}
	if p.EventLocation != "" {
		attributes = append(attributes, Attribute{TraitType: "Location", Value: p.EventLocation})
	}

	return Document{
		Name:        p.EventName + " - Attendance Badge",
		Description: description,
		Image:       image,
		ExternalURL: p.ExternalURL,
		Attributes:  attributes,
	}
}

// WithClaimedAt returns a copy of doc augmented with a "Claimed At"
// attribute inserted directly after "Date". This is the externally-fetchable
// representation; the attribute order is part of the compatibility contract.
func WithClaimedAt(doc Document, claimedAt time.Time) Document {
	attributes := make([]Attribute, 0, len(doc.Attributes)+1)
	for _, attr := range doc.Attributes {
		attributes = append(attributes, attr)
		if attr.TraitType == "Date" {
			attributes = append(attributes, Attribute{
				TraitType: "Claimed At",
				Value:     claimedAt.UTC().Format(time.RFC3339),
			})
		}
	}

	doc.Attributes = attributes

	return doc
}
