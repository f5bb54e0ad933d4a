package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "polis/pkg/domain-errors"
)

// TestParseActorID_Invariants checks that ids are valid, non-empty, non-nil UUIDs.
func TestParseActorID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseActorID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseActorID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseActorID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseActorID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ActorID(valid), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE actors;--", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errActor := ParseActorID(tt.input)
			_, errItem := ParseItemID(tt.input)
			if tt.wantErr {
				require.Error(t, errActor)
				require.Error(t, errItem)
				assert.True(t, dErrors.HasCode(errActor, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, errActor)
				require.NoError(t, errItem)
			}
		})
	}
}

func TestZeroValueIDsAreNil(t *testing.T) {
	assert.True(t, ActorID{}.IsNil())
	assert.True(t, ItemID{}.IsNil())
	assert.False(t, NewActorID().IsNil())
	assert.False(t, NewItemID().IsNil())
}

func TestIDsEncodeAsUUIDStrings(t *testing.T) {
	actorID := NewActorID()
	raw, err := json.Marshal(struct {
		Actor ActorID `json:"actor"`
	}{actorID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"actor":"`+actorID.String()+`"}`, string(raw))

	var decoded struct {
		Actor ActorID `json:"actor"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, actorID, decoded.Actor)
}
