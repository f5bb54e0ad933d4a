package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "polis/pkg/domain-errors"
)

// ActorID identifies a citizen, representative, party, or councilor.
// Parties are actors too, so party references use ActorID.
type ActorID uuid.UUID

// ItemID identifies a legislative item (bill or municipal decision).
type ItemID uuid.UUID

const maxIDLength = 64

func (id ActorID) String() string { return uuid.UUID(id).String() }
func (id ActorID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ItemID) String() string { return uuid.UUID(id).String() }
func (id ItemID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ActorID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ItemID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }

func (id *ActorID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ItemID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }

// NewActorID returns a random actor id.
func NewActorID() ActorID { return ActorID(uuid.New()) }

// NewItemID returns a random item id.
func NewItemID() ItemID { return ItemID(uuid.New()) }

// ParseActorID parses a non-nil UUID string into an ActorID.
func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID(s, "actor_id")
	if err != nil {
		return ActorID{}, err
	}
	return ActorID(u), nil
}

// ParseItemID parses a non-nil UUID string into an ItemID.
func ParseItemID(s string) (ItemID, error) {
	u, err := parseUUID(s, "item_id")
	if err != nil {
		return ItemID{}, err
	}
	return ItemID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is malformed")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must be a UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}
