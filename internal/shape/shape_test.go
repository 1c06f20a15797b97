package shape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagegate/pagegate/internal/store"
	"github.com/pagegate/pagegate/pkg/types"
)

func mustDoc(t *testing.T, raw string) store.Document {
	t.Helper()
	var doc store.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestPageSummaryFromDocument(t *testing.T) {
	doc := mustDoc(t, `{
		"id": "alice",
		"name": "Alice",
		"bio": "hello",
		"profilePicture": null,
		"type": [{"ty": "person"}]
	}`)

	page, err := PageSummaryFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "alice", page.ID)
	assert.Equal(t, "Alice", page.Name)
	assert.Equal(t, "hello", page.Bio)
	assert.Nil(t, page.ProfilePicture)
	assert.Equal(t, types.PagePerson, page.Type)
}

func TestPageTypeVariantExclusivity(t *testing.T) {
	tests := []struct {
		name    string
		typeRaw string
		want    types.PageType
		wantErr string
	}{
		{
			name:    "exactly one variant",
			typeRaw: `[{"ty": "organization"}]`,
			want:    types.PageOrganization,
		},
		{
			name:    "scalar tag",
			typeRaw: `"group"`,
			want:    types.PageGroup,
		},
		{
			name:    "no variant matched",
			typeRaw: `[]`,
			wantErr: "matched no variant",
		},
		{
			name:    "several variants matched",
			typeRaw: `[{"ty": "person"}, {"ty": "group"}]`,
			wantErr: "mutually exclusive",
		},
		{
			name:    "unknown label",
			typeRaw: `[{"ty": "robot"}]`,
			wantErr: "robot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, `{"id": "x", "name": "X", "bio": "", "type": `+tt.typeRaw+`}`)
			page, err := PageSummaryFromDocument(doc)
			if tt.wantErr != "" {
				var shapeErr *ShapeError
				require.ErrorAs(t, err, &shapeErr)
				assert.Equal(t, "type", shapeErr.Key)
				assert.Contains(t, shapeErr.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Type)
		})
	}
}

func TestPageTypeMissing(t *testing.T) {
	doc := mustDoc(t, `{"id": "x", "name": "X", "bio": ""}`)
	_, err := PageSummaryFromDocument(doc)
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "type", shapeErr.Key)
}

func TestProfileFromDocumentPerson(t *testing.T) {
	doc := mustDoc(t, `{
		"id": "alice",
		"name": "Alice",
		"bio": "hello",
		"profilePicture": "pic.png",
		"badge": null,
		"isActive": true,
		"type": [{"ty": "person"}],
		"username": "alice",
		"gender": "female",
		"language": null,
		"email": "alice@example.com",
		"phone": null,
		"relationshipStatus": "single",
		"canPublish": true,
		"pageVisibility": "public",
		"postVisibility": "public",
		"tags": [],
		"friends": [
			{"name": "f1"}, {"name": "f2"}, {"name": "f3"},
			{"name": "f4"}, {"name": "f5"}, {"name": "f6"},
			{"name": "f7"}, {"name": "f8"}, {"name": "f9"}
		],
		"numberOfFriends": 12,
		"followers": [{"name": "bob"}],
		"numberOfFollowers": 1,
		"location": [
			{"placeName": "Paris", "placeId": "paris", "parentName": "France", "parentId": "france"},
			{"placeName": "France", "placeId": "france", "parentName": "Europe", "parentId": "europe"},
			{"placeName": "Europe", "placeId": "europe", "parentName": "Earth", "parentId": "earth"}
		]
	}`)

	profile, err := ProfileFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, types.PagePerson, profile.Type)
	require.NotNil(t, profile.Username)
	assert.Equal(t, "alice", *profile.Username)
	assert.Nil(t, profile.Badge)
	assert.Nil(t, profile.Language)
	require.NotNil(t, profile.CanPublish)
	assert.True(t, *profile.CanPublish)

	// The preview is capped while the count reflects all relations.
	assert.Len(t, profile.Friends, 9)
	assert.Equal(t, 12, profile.NumberOfFriends)
	assert.Equal(t, []string{"bob"}, profile.Followers)
	assert.Equal(t, 1, profile.NumberOfFollowers)

	assert.Empty(t, profile.Tags)
	assert.NotNil(t, profile.Tags)

	require.Len(t, profile.Location, 3)
	assert.Equal(t, "Paris", profile.Location[0].PlaceName)
	assert.Equal(t, "france", profile.Location[0].ParentID)
	assert.Equal(t, "Earth", profile.Location[2].ParentName)
}

func TestProfileFromDocumentGroup(t *testing.T) {
	doc := mustDoc(t, `{
		"id": "gophers",
		"name": "Gophers",
		"bio": "a group",
		"profilePicture": null,
		"badge": "verified",
		"isActive": true,
		"type": [{"ty": "group"}],
		"username": null,
		"gender": null,
		"language": null,
		"email": null,
		"phone": null,
		"relationshipStatus": null,
		"canPublish": null,
		"pageVisibility": "public",
		"postVisibility": "private",
		"tags": [{"tag": "go"}, {"tag": "programming"}],
		"followers": [],
		"numberOfFollowers": 0,
		"location": []
	}`)

	profile, err := ProfileFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, types.PageGroup, profile.Type)
	assert.Nil(t, profile.Username)
	assert.Nil(t, profile.Gender)
	assert.Nil(t, profile.CanPublish)
	require.NotNil(t, profile.Badge)
	assert.Equal(t, "verified", *profile.Badge)
	assert.Equal(t, []string{"go", "programming"}, profile.Tags)

	// Missing friends projection shapes to an empty preview and zero count.
	assert.NotNil(t, profile.Friends)
	assert.Empty(t, profile.Friends)
	assert.Zero(t, profile.NumberOfFriends)

	assert.NotNil(t, profile.Location)
	assert.Empty(t, profile.Location)
}

func TestProfileFixedSchema(t *testing.T) {
	doc := mustDoc(t, `{
		"id": "acme", "name": "Acme", "bio": "",
		"isActive": false, "type": [{"ty": "organization"}]
	}`)

	profile, err := ProfileFromDocument(doc)
	require.NoError(t, err)

	data, err := json.Marshal(profile)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))

	// Every declared key serializes even when the store had nothing for it.
	for _, key := range []string{
		"id", "name", "bio", "profilePicture", "badge", "isActive", "type",
		"username", "gender", "language", "email", "phone",
		"relationshipStatus", "canPublish", "pageVisibility", "postVisibility",
		"tags", "friends", "numberOfFriends", "followers",
		"numberOfFollowers", "location",
	} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "null", string(fields["username"]))
	assert.Equal(t, "[]", string(fields["tags"]))
	assert.Equal(t, "[]", string(fields["location"]))
}

func TestPlacePagesFromDocument(t *testing.T) {
	doc := mustDoc(t, `{
		"placeName": "Paris",
		"pages": [
			{"id": "alice", "name": "Alice", "bio": "", "type": [{"ty": "person"}]},
			{"id": "acme", "name": "Acme", "bio": "", "type": [{"ty": "organization"}]}
		]
	}`)

	result, err := PlacePagesFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "Paris", result.PlaceName)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, types.PagePerson, result.Pages[0].Type)
	assert.Equal(t, types.PageOrganization, result.Pages[1].Type)
}

func TestPlacePagesFromDocumentNoPages(t *testing.T) {
	doc := mustDoc(t, `{"placeName": "Atlantis", "pages": []}`)

	result, err := PlacePagesFromDocument(doc)
	require.NoError(t, err)
	assert.NotNil(t, result.Pages)
	assert.Empty(t, result.Pages)
}

func TestPostFromDocument(t *testing.T) {
	doc := mustDoc(t, `{
		"postId": "post-1",
		"postText": "hello world",
		"postVisibility": "public",
		"postImage": "img.png",
		"language": null,
		"tags": [{"tag": "intro"}],
		"isVisible": true,
		"creationTimestamp": "2024-01-01T00:00:00",
		"authorName": "Alice",
		"authorProfilePicture": null,
		"authorId": "alice",
		"authorType": [{"ty": "person"}],
		"reactions": [{"emoji": "like"}, {"emoji": "love"}, {"emoji": "like"}]
	}`)

	post, err := PostFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.PostID)
	require.NotNil(t, post.PostImage)
	assert.Equal(t, "img.png", *post.PostImage)
	assert.Nil(t, post.Language)
	assert.Equal(t, "Alice", post.AuthorName)
	assert.Nil(t, post.AuthorProfilePicture)
	assert.Equal(t, types.PagePerson, post.AuthorType)
	assert.Equal(t, []string{"like", "love", "like"}, post.Reactions)
}

func TestPostsFromDocumentsPropagatesShapeError(t *testing.T) {
	docs := []store.Document{
		mustDoc(t, `{
			"postId": "post-1", "postText": "ok", "isVisible": true,
			"authorName": "Alice", "authorId": "alice",
			"authorType": [{"ty": "person"}]
		}`),
		mustDoc(t, `{
			"postId": "post-2", "postText": "bad", "isVisible": true,
			"authorName": "Eve", "authorId": "eve",
			"authorType": []
		}`),
	}

	_, err := PostsFromDocuments(docs)
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "authorType", shapeErr.Key)
}

func TestCommentFromDocument(t *testing.T) {
	doc := mustDoc(t, `{
		"commentText": "nice post",
		"creationTimestamp": null,
		"isVisible": true,
		"authorName": "Bob",
		"authorProfilePicture": "bob.png",
		"authorId": "bob",
		"authorType": [{"ty": "person"}],
		"reactions": []
	}`)

	comment, err := CommentFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.CommentText)
	assert.Nil(t, comment.CreationTimestamp)
	assert.Equal(t, "bob", comment.AuthorID)
	assert.NotNil(t, comment.Reactions)
	assert.Empty(t, comment.Reactions)
}

func TestCommentsFromDocumentsEmpty(t *testing.T) {
	comments, err := CommentsFromDocuments(nil)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestLocationChainMalformed(t *testing.T) {
	doc := mustDoc(t, `{
		"id": "x", "name": "X", "bio": "", "isActive": true,
		"type": [{"ty": "person"}],
		"location": "not-a-list"
	}`)

	_, err := ProfileFromDocument(doc)
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "location", shapeErr.Key)
}
