package typeql

import (
	"strings"
	"testing"

	"github.com/pagegate/pagegate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertPersonQuery(t *testing.T) {
	t.Run("minimal payload includes required fields and no optionals", func(t *testing.T) {
		query, err := InsertPersonQuery(types.CreatePerson{
			Username:       "alice",
			Name:           "Alice A",
			IsActive:       true,
			Gender:         "f",
			Email:          "a@x.com",
			CanPublish:     false,
			PageVisibility: "public",
			PostVisibility: "friends",
			Bio:            "hi",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(query, "insert $_ isa person"))
		assert.True(t, strings.HasSuffix(query, ";"))

		for _, fragment := range []string{
			`has name "Alice A"`,
			`has username "alice"`,
			`has gender "f"`,
			`has email "a@x.com"`,
			`has bio "hi"`,
			`has can-publish false`,
			`has is-active true`,
			`has page-visibility "public"`,
			`has post-visibility "friends"`,
		} {
			assert.Contains(t, query, fragment)
			assert.Equal(t, 1, strings.Count(query, fragment), "fragment %q should appear exactly once", fragment)
		}

		for _, absent := range []string{"profile-picture", "language", "phone", "relationship-status", "badge"} {
			assert.NotContains(t, query, absent)
		}
	})

	t.Run("full payload includes every optional", func(t *testing.T) {
		query, err := InsertPersonQuery(types.CreatePerson{
			Username:           "bob",
			Name:               "Bob",
			ProfilePicture:     "pic-1",
			Badge:              "verified",
			IsActive:           true,
			Gender:             "m",
			Language:           "en",
			Email:              "b@x.com",
			Phone:              "+1555",
			RelationshipStatus: "single",
			CanPublish:         true,
			PageVisibility:     "public",
			PostVisibility:     "public",
			Bio:                "bio",
		})
		require.NoError(t, err)

		assert.Contains(t, query, `has profile-picture "pic-1"`)
		assert.Contains(t, query, `has badge "verified"`)
		assert.Contains(t, query, `has language "en"`)
		assert.Contains(t, query, `has phone "+1555"`)
		assert.Contains(t, query, `has relationship-status "single"`)
	})

	t.Run("quotes in values cannot break out of the literal", func(t *testing.T) {
		query, err := InsertPersonQuery(types.CreatePerson{
			Username:       "eve",
			Name:           `Eve"; match $x isa person; delete $x; insert $_ isa person, has name "x`,
			IsActive:       true,
			Gender:         "f",
			Email:          "e@x.com",
			PageVisibility: "public",
			PostVisibility: "public",
			Bio:            "bio",
		})
		require.NoError(t, err)
		// The statement stays a single insert; the hostile name is a quoted,
		// escaped literal.
		assert.Equal(t, 1, strings.Count(query, "insert $_ isa person"))
		assert.Contains(t, query, `\"; match $x isa person`)
	})

	t.Run("control character fails the whole build", func(t *testing.T) {
		_, err := InsertPersonQuery(types.CreatePerson{
			Username:       "mallory",
			Name:           "Mallory",
			IsActive:       true,
			Gender:         "f",
			Email:          "m@x.com",
			PageVisibility: "public",
			PostVisibility: "public",
			Bio:            "line1\nline2",
		})
		var encodingErr *EncodingError
		require.ErrorAs(t, err, &encodingErr)
		assert.Equal(t, "bio", encodingErr.Attr)
	})
}

func TestInsertGroupQuery(t *testing.T) {
	query, err := InsertGroupQuery(types.CreateGroup{
		GroupID:        "g-1",
		Name:           "Gophers",
		IsActive:       true,
		Tags:           []string{"go", "meetup", "graph"},
		PageVisibility: "public",
		PostVisibility: "public",
		Bio:            "weekly meetup",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "insert $_ isa group"))
	assert.Contains(t, query, `has group-id "g-1"`)
	assert.Equal(t, 3, strings.Count(query, "has tag "))
	assert.NotContains(t, query, "badge")
	assert.NotContains(t, query, "profile-picture")
}

func TestInsertOrganizationQuery(t *testing.T) {
	query, err := InsertOrganizationQuery(types.CreateOrganization{
		Username:   "acme",
		Name:       "Acme Corp",
		IsActive:   true,
		CanPublish: true,
		Tags:       []string{"tools"},
		Bio:        "we make anvils",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "insert $_ isa organization"))
	assert.Contains(t, query, `has username "acme"`)
	assert.Contains(t, query, "has can-publish true")
	assert.Contains(t, query, `has tag "tools"`)
	// No page/post visibility attributes on organizations.
	assert.NotContains(t, query, "page-visibility")
	assert.NotContains(t, query, "post-visibility")
}
