// Package id defines the TypeID-based identities of folio records.
//
// An ID renders as "prefix_suffix" where the suffix is a UUIDv7 in
// Crockford base32, so IDs sort by creation time and a document ID can
// never be mistaken for a client ID.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record type encoded in an ID.
type Prefix string

// Record prefixes.
const (
	PrefixClient   Prefix = "cli" // billed party
	PrefixDocument Prefix = "doc" // invoice, receipt or credit note
	PrefixLineItem Prefix = "li"  // line of a document
)

// ID identifies one folio record. The zero value is Nil and marshals to
// an empty string (JSON) or NULL (SQL).
//
//nolint:recvcheck // pointer receivers only where the ID is decoded in place.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// ClientID, DocumentID and LineItemID document which prefix a field holds.
// They are aliases, so the prefix is checked at parse time rather than by
// the compiler.
type (
	ClientID   = ID
	DocumentID = ID
	LineItemID = ID
)

// New generates an ID with the given prefix. It panics on a malformed
// prefix, which is a programming error.
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{inner: tid, valid: true}
}

// NewClientID generates a client ID.
func NewClientID() ID { return New(PrefixClient) }

// NewDocumentID generates a document ID.
func NewDocumentID() ID { return New(PrefixDocument) }

// NewLineItemID generates a line item ID.
func NewLineItemID() ID { return New(PrefixLineItem) }

// Parse parses an ID of any prefix.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses s and rejects it unless its prefix is expected.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: %q is not a %s id", s, expected)
	}
	return parsed, nil
}

// ParseClientID parses a "cli_" ID.
func ParseClientID(s string) (ID, error) { return ParseWithPrefix(s, PrefixClient) }

// ParseDocumentID parses a "doc_" ID.
func ParseDocumentID(s string) (ID, error) { return ParseWithPrefix(s, PrefixDocument) }

// ParseLineItemID parses a "li_" ID.
func ParseLineItemID(s string) (ID, error) { return ParseWithPrefix(s, PrefixLineItem) }

// ──────────────────────────────────────────────────
// Methods
// ──────────────────────────────────────────────────

// String returns "prefix_suffix", or "" for Nil.
func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return i.inner.String()
}

// Prefix returns the record prefix, or "" for Nil.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return Prefix(i.inner.Prefix())
}

// IsNil reports whether i is the zero value.
func (i ID) IsNil() bool { return !i.valid }

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields Nil.
func (i *ID) UnmarshalText(data []byte) error {
	return i.decode(string(data))
}

// Value implements driver.Valuer. Nil is stored as NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // NULL
	}
	return i.inner.String(), nil
}

// Scan implements sql.Scanner for TEXT and BLOB columns.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.decode(v)
	case []byte:
		return i.decode(string(v))
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}

func (i *ID) decode(s string) error {
	if s == "" {
		*i = Nil
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
