// Package shape maps the store's nested result documents onto the fixed
// response schemas returned to clients. Every declared key of a shaped value
// is always serialized (null or empty when the store had nothing), so the
// front end can pattern-match on a stable schema instead of probing for keys.
package shape

import (
	"fmt"

	"github.com/pagegate/pagegate/internal/store"
	"github.com/pagegate/pagegate/pkg/types"
)

// ShapeError reports a result document that violates an invariant the shaper
// assumes, such as a page matching zero or several of the mutually exclusive
// variants. It is a defect in the schema or the projection, not a user error.
type ShapeError struct {
	Key    string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape: %s: %s", e.Key, e.Reason)
}

// PageSummary is the summary projection of a page: the list views and the
// author enrichment on posts and comments.
type PageSummary struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Bio            string         `json:"bio"`
	ProfilePicture *string        `json:"profilePicture"`
	Type           types.PageType `json:"type"`
}

// PlacePages is the result of a location lookup: the place's own name plus
// every page transitively located there.
type PlacePages struct {
	PlaceName string        `json:"placeName"`
	Pages     []PageSummary `json:"pages"`
}

// LocationLink is one hop of a page's transitive location chain, from its
// immediate place up to the top-level ancestor.
type LocationLink struct {
	PlaceName  string `json:"placeName"`
	PlaceID    string `json:"placeId"`
	ParentName string `json:"parentName"`
	ParentID   string `json:"parentId"`
}

// Profile is the full projection of a single page. Person-only attributes
// are null for groups and organizations; Tags is empty for persons. Friends
// and Followers are capped previews whose lengths say nothing about the
// independent NumberOfFriends/NumberOfFollowers counts.
type Profile struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Bio                string         `json:"bio"`
	ProfilePicture     *string        `json:"profilePicture"`
	Badge              *string        `json:"badge"`
	IsActive           bool           `json:"isActive"`
	Type               types.PageType `json:"type"`
	Username           *string        `json:"username"`
	Gender             *string        `json:"gender"`
	Language           *string        `json:"language"`
	Email              *string        `json:"email"`
	Phone              *string        `json:"phone"`
	RelationshipStatus *string        `json:"relationshipStatus"`
	CanPublish         *bool          `json:"canPublish"`
	PageVisibility     *string        `json:"pageVisibility"`
	PostVisibility     *string        `json:"postVisibility"`
	Tags               []string       `json:"tags"`
	Friends            []string       `json:"friends"`
	NumberOfFriends    int            `json:"numberOfFriends"`
	Followers          []string       `json:"followers"`
	NumberOfFollowers  int            `json:"numberOfFollowers"`
	Location           []LocationLink `json:"location"`
}

// Post is one post of a page, enriched with its author's summary so clients
// never need a second lookup. Reactions is a flat list of emoji in store
// order, which is not guaranteed stable between fetches.
type Post struct {
	PostID               string         `json:"postId"`
	PostText             string         `json:"postText"`
	PostVisibility       *string        `json:"postVisibility"`
	PostImage            *string        `json:"postImage"`
	Language             *string        `json:"language"`
	Tags                 []string       `json:"tags"`
	IsVisible            bool           `json:"isVisible"`
	CreationTimestamp    *string        `json:"creationTimestamp"`
	AuthorName           string         `json:"authorName"`
	AuthorProfilePicture *string        `json:"authorProfilePicture"`
	AuthorID             string         `json:"authorId"`
	AuthorType           types.PageType `json:"authorType"`
	Reactions            []string       `json:"reactions"`
}

// Comment is one comment on a post, author-enriched like Post.
type Comment struct {
	CommentText          string         `json:"commentText"`
	CreationTimestamp    *string        `json:"creationTimestamp"`
	IsVisible            bool           `json:"isVisible"`
	AuthorName           string         `json:"authorName"`
	AuthorProfilePicture *string        `json:"authorProfilePicture"`
	AuthorID             string         `json:"authorId"`
	AuthorType           types.PageType `json:"authorType"`
	Reactions            []string       `json:"reactions"`
}

// PageSummaryFromDocument shapes one page-list document.
func PageSummaryFromDocument(doc store.Document) (PageSummary, error) {
	pageType, err := pageTypeField(doc, "type")
	if err != nil {
		return PageSummary{}, err
	}
	return PageSummary{
		ID:             requiredString(doc, "id"),
		Name:           requiredString(doc, "name"),
		Bio:            requiredString(doc, "bio"),
		ProfilePicture: optionalString(doc, "profilePicture"),
		Type:           pageType,
	}, nil
}

// PageSummariesFromDocuments shapes a list of page documents. An empty input
// yields an empty (non-nil) slice.
func PageSummariesFromDocuments(docs []store.Document) ([]PageSummary, error) {
	pages := make([]PageSummary, 0, len(docs))
	for _, doc := range docs {
		page, err := PageSummaryFromDocument(doc)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// PlacePagesFromDocument shapes the location lookup result.
func PlacePagesFromDocument(doc store.Document) (PlacePages, error) {
	nested, _ := doc.Field("pages")
	items, _ := nested.List()
	pages, err := PageSummariesFromDocuments(items)
	if err != nil {
		return PlacePages{}, err
	}
	return PlacePages{
		PlaceName: requiredString(doc, "placeName"),
		Pages:     pages,
	}, nil
}

// ProfileFromDocument shapes the full page projection.
func ProfileFromDocument(doc store.Document) (Profile, error) {
	pageType, err := pageTypeField(doc, "type")
	if err != nil {
		return Profile{}, err
	}

	location, err := locationChain(doc)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		ID:                 requiredString(doc, "id"),
		Name:               requiredString(doc, "name"),
		Bio:                requiredString(doc, "bio"),
		ProfilePicture:     optionalString(doc, "profilePicture"),
		Badge:              optionalString(doc, "badge"),
		IsActive:           boolField(doc, "isActive"),
		Type:               pageType,
		Username:           optionalString(doc, "username"),
		Gender:             optionalString(doc, "gender"),
		Language:           optionalString(doc, "language"),
		Email:              optionalString(doc, "email"),
		Phone:              optionalString(doc, "phone"),
		RelationshipStatus: optionalString(doc, "relationshipStatus"),
		CanPublish:         optionalBool(doc, "canPublish"),
		PageVisibility:     optionalString(doc, "pageVisibility"),
		PostVisibility:     optionalString(doc, "postVisibility"),
		Tags:               stringList(doc, "tags"),
		Friends:            stringList(doc, "friends"),
		NumberOfFriends:    countField(doc, "numberOfFriends"),
		Followers:          stringList(doc, "followers"),
		NumberOfFollowers:  countField(doc, "numberOfFollowers"),
		Location:           location,
	}, nil
}

// PostFromDocument shapes one post document.
func PostFromDocument(doc store.Document) (Post, error) {
	authorType, err := pageTypeField(doc, "authorType")
	if err != nil {
		return Post{}, err
	}
	return Post{
		PostID:               requiredString(doc, "postId"),
		PostText:             requiredString(doc, "postText"),
		PostVisibility:       optionalString(doc, "postVisibility"),
		PostImage:            optionalString(doc, "postImage"),
		Language:             optionalString(doc, "language"),
		Tags:                 stringList(doc, "tags"),
		IsVisible:            boolField(doc, "isVisible"),
		CreationTimestamp:    optionalString(doc, "creationTimestamp"),
		AuthorName:           requiredString(doc, "authorName"),
		AuthorProfilePicture: optionalString(doc, "authorProfilePicture"),
		AuthorID:             requiredString(doc, "authorId"),
		AuthorType:           authorType,
		Reactions:            stringList(doc, "reactions"),
	}, nil
}

// PostsFromDocuments shapes a list of post documents.
func PostsFromDocuments(docs []store.Document) ([]Post, error) {
	posts := make([]Post, 0, len(docs))
	for _, doc := range docs {
		post, err := PostFromDocument(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CommentFromDocument shapes one comment document.
func CommentFromDocument(doc store.Document) (Comment, error) {
	authorType, err := pageTypeField(doc, "authorType")
	if err != nil {
		return Comment{}, err
	}
	return Comment{
		CommentText:          requiredString(doc, "commentText"),
		CreationTimestamp:    optionalString(doc, "creationTimestamp"),
		IsVisible:            boolField(doc, "isVisible"),
		AuthorName:           requiredString(doc, "authorName"),
		AuthorProfilePicture: optionalString(doc, "authorProfilePicture"),
		AuthorID:             requiredString(doc, "authorId"),
		AuthorType:           authorType,
		Reactions:            stringList(doc, "reactions"),
	}, nil
}

// CommentsFromDocuments shapes a list of comment documents.
func CommentsFromDocuments(docs []store.Document) ([]Comment, error) {
	comments := make([]Comment, 0, len(docs))
	for _, doc := range docs {
		comment, err := CommentFromDocument(doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// pageTypeField resolves the variant tag from the fetched list of matched
// variants. Exactly one variant must match; zero or several is a modeling
// defect and fails loudly instead of picking one.
func pageTypeField(doc store.Document, key string) (types.PageType, error) {
	field, ok := doc.Field(key)
	if !ok {
		return "", &ShapeError{Key: key, Reason: "missing from result document"}
	}

	// Tolerate a scalar tag for stores that resolve the variant server-side.
	if label, ok := field.Str(); ok {
		pageType, err := types.ParsePageType(label)
		if err != nil {
			return "", &ShapeError{Key: key, Reason: err.Error()}
		}
		return pageType, nil
	}

	items, ok := field.List()
	if !ok {
		return "", &ShapeError{Key: key, Reason: "expected variant list"}
	}
	if len(items) == 0 {
		return "", &ShapeError{Key: key, Reason: "page matched no variant"}
	}
	if len(items) > 1 {
		return "", &ShapeError{Key: key, Reason: fmt.Sprintf("page matched %d mutually exclusive variants", len(items))}
	}

	label, ok := entryString(items[0])
	if !ok {
		return "", &ShapeError{Key: key, Reason: "variant entry is not a string"}
	}
	pageType, err := types.ParsePageType(label)
	if err != nil {
		return "", &ShapeError{Key: key, Reason: err.Error()}
	}
	return pageType, nil
}

// entryString unwraps a list entry that is either a bare string or a
// single-field object produced by a `return { $var }` sub-query.
func entryString(doc store.Document) (string, bool) {
	if s, ok := doc.Str(); ok {
		return s, true
	}
	if fields, ok := doc.Object(); ok && len(fields) == 1 {
		for _, v := range fields {
			return v.Str()
		}
	}
	return "", false
}

func requiredString(doc store.Document, key string) string {
	field, _ := doc.Field(key)
	s, _ := field.Str()
	return s
}

func optionalString(doc store.Document, key string) *string {
	field, ok := doc.Field(key)
	if !ok {
		return nil
	}
	s, ok := field.Str()
	if !ok {
		return nil
	}
	return &s
}

func optionalBool(doc store.Document, key string) *bool {
	field, ok := doc.Field(key)
	if !ok {
		return nil
	}
	b, ok := field.Boolean()
	if !ok {
		return nil
	}
	return &b
}

func boolField(doc store.Document, key string) bool {
	field, _ := doc.Field(key)
	b, _ := field.Boolean()
	return b
}

func countField(doc store.Document, key string) int {
	field, _ := doc.Field(key)
	n, _ := field.Num()
	return int(n)
}

// stringList flattens a fetched list into its string values, unwrapping
// single-field row objects. A missing or null field yields an empty slice.
func stringList(doc store.Document, key string) []string {
	field, ok := doc.Field(key)
	if !ok {
		return []string{}
	}
	items, ok := field.List()
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := entryString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// locationChain shapes the transitive location links. An unlocated page
// yields an empty chain, not an error.
func locationChain(doc store.Document) ([]LocationLink, error) {
	field, ok := doc.Field("location")
	if !ok {
		return []LocationLink{}, nil
	}
	items, ok := field.List()
	if !ok {
		if field.IsNull() {
			return []LocationLink{}, nil
		}
		return nil, &ShapeError{Key: "location", Reason: "expected list of parent links"}
	}
	links := make([]LocationLink, 0, len(items))
	for _, item := range items {
		links = append(links, LocationLink{
			PlaceName:  requiredString(item, "placeName"),
			PlaceID:    requiredString(item, "placeId"),
			ParentName: requiredString(item, "parentName"),
			ParentID:   requiredString(item, "parentId"),
		})
	}
	return links, nil
}
