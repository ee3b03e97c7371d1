package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type User struct {
	Gender     string     `json:"gender"`
	Name       Name       `json:"name"`
	Location   Location   `json:"location"`
	Email      string     `json:"email"`
	Login      Login      `json:"login"`
	DOB        DateAge    `json:"dob"`
	Registered DateAge    `json:"registered"`
	Phone      string     `json:"phone"`
	Cell       string     `json:"cell"`
	ID         Identifier `json:"id"`
	Picture    Picture    `json:"picture"`
	Nat        string     `json:"nat"`
}

type Name struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// Full returns the first and last name separated by a space.
func (n Name) Full() string {
	switch {
	case n.First == "":
		return n.Last
	case n.Last == "":
		return n.First
	}

	return n.First + " " + n.Last
}

type Location struct {
	Street      Street      `json:"street"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Country     string      `json:"country"`
	Postcode    Postcode    `json:"postcode"`
	Coordinates Coordinates `json:"coordinates"`
	Timezone    Timezone    `json:"timezone"`
}

type Street struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type Timezone struct {
	Offset      string `json:"offset"`
	Description string `json:"description"`
}

// Postcode is emitted by the upstream either as a JSON number or as a string.
type Postcode string

// UnmarshalJSON accepts both numeric and string postcodes.
func (p *Postcode) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Postcode(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("postcode must be a string or a number: %w", err)
	}

	*p = Postcode(n.String())

	return nil
}

type Login struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Salt     string `json:"salt,omitempty"`
	MD5      string `json:"md5,omitempty"`
	SHA1     string `json:"sha1,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
}

type DateAge struct {
	Date string `json:"date"`
	Age  int    `json:"age"`
}

type Identifier struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

type Picture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

// Info is the pagination metadata of a ResultSet.
type Info struct {
	Seed    string `json:"seed"`
	Results int    `json:"results"`
	Page    int    `json:"page"`
	Version string `json:"version"`
}

// ResultSet is one page of users as returned by the upstream API.
type ResultSet struct {
	Results []User `json:"results"`
	Info    Info   `json:"info"`
}

// Clone returns a copy of the result set that does not share its Results slice.
func (rs *ResultSet) Clone() *ResultSet {
	if rs == nil {
		return nil
	}

	clone := &ResultSet{Info: rs.Info}
	if rs.Results != nil {
		clone.Results = make([]User, len(rs.Results))
		copy(clone.Results, rs.Results)
	}

	return clone
}

// RequestKey addresses one page of results.
type RequestKey struct {
	Page     int
	PageSize int
}

// NewRequestKey builds a key, substituting defaults for non-positive values.
func NewRequestKey(page, pageSize int) RequestKey {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return RequestKey{Page: page, PageSize: pageSize}
}

func (k RequestKey) String() string {
	return "page=" + strconv.Itoa(k.Page) + "&results=" + strconv.Itoa(k.PageSize)
}

// CacheStats summarizes the state of the response cache.
type CacheStats struct {
	Enabled bool   `json:"enabled"`
	TTL     string `json:"ttl"`
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}
