package typeql

import "fmt"

// Response keys use camelCase and the "organization" spelling throughout.
// The `"type"` sub-projection deliberately fetches the full list of matched
// page variants instead of `return first`, so the shaper can verify that
// exactly one variant matched.

// friendPreviewLimit caps the friends/followers previews. The exact counts
// come from independent count sub-queries, never from the preview length.
const friendPreviewLimit = 9

const pageTypeProjection = `[
        match
        { $ty label person; } or { $ty label organization; } or { $ty label group; };
        %s isa $ty;
        return { $ty };
    ]`

// locatedPageTypeProjection covers only the variants that can hold a
// location or author a comment in the schema (groups cannot).
const locatedPageTypeProjection = `[
        match
        { $ty label person; } or { $ty label organization; };
        %s isa $ty;
        return { $ty };
    ]`

// PageListQuery fetches every page with its summary fields and variant tag.
func PageListQuery() string {
	return fmt.Sprintf(`
match $page isa page;
fetch {
    "name": $page.name,
    "bio": $page.bio,
    "id": $page.page-id,
    "profilePicture": $page.profile-picture,
    "type": %s,
};`, fmt.Sprintf(pageTypeProjection, "$page"))
}

// PlacePagesQuery fetches a place's name together with every page whose
// location resolves transitively to that place. A place id that matches
// nothing yields zero documents, not an error.
func PlacePagesQuery(placeID string) (string, error) {
	id, err := StringLiteral("place-id", placeID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
match
    $place has place-id %s, has name $place-name;
fetch {
    "placeName": $place-name,
    "pages": [
        match
            $page isa page;
            location ($page, $page-place);
            let $_ = located_in_transitive($page-place, $place);
        fetch {
            "name": $page.name,
            "bio": $page.bio,
            "id": $page.page-id,
            "profilePicture": $page.profile-picture,
            "type": %s,
        };
    ]
};`, id, fmt.Sprintf(locatedPageTypeProjection, "$page")), nil
}

// ProfileQuery fetches the full projection for a single page: common fields,
// person-only profile attributes as optional sub-queries, group/organization
// tags, capped friend and follower previews with independent exact counts,
// and the transitive location chain resolved by the store's
// parent_places_linked_list function.
func ProfileQuery(pageID string) (string, error) {
	id, err := StringLiteral("id", pageID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
match $page isa page, has id %s;
fetch {
    "id": $page.page-id,
    "name": $page.name,
    "bio": $page.bio,
    "profilePicture": $page.profile-picture,
    "badge": $page.badge,
    "isActive": $page.is-active,
    "type": %s,
    "username": (match $page isa profile, has username $username; return first $username;),
    "canPublish": (match $page isa profile, has can-publish $can-publish; return first $can-publish;),
    "gender": (match $page isa profile, has gender $gender; return first $gender;),
    "language": (match $page isa profile, has language $language; return first $language;),
    "email": (match $page isa profile, has email $email; return first $email;),
    "phone": (match $page isa profile, has phone $phone; return first $phone;),
    "relationshipStatus": (match $page isa profile, has relationship-status $relationship-status; return first $relationship-status;),
    "pageVisibility": (match $page isa profile, has page-visibility $page-visibility; return first $page-visibility;),
    "postVisibility": (match $page isa profile, has post-visibility $post-visibility; return first $post-visibility;),
    "tags": [match { $page isa group, has tag $tag; } or { $page isa organization, has tag $tag; }; return { $tag };],
    "friends": [
        match ($page, $friend) isa friendship; $friend has id $friend-id;
        limit %d;
        return { $friend-id };
    ],
    "numberOfFriends": (
        match ($page, $friend) isa friendship;
        return count;
    ),
    "followers": [
        match (page: $page, follower: $follower) isa following; $follower has id $follower-id;
        limit %d;
        return { $follower-id };
    ],
    "numberOfFollowers": (
        match (page: $page, follower: $follower) isa following;
        return count;
    ),
    "location": [
        match
            (place: $place, located: $page) isa location;
            let $child, $parent = parent_places_linked_list($place);
        fetch {
            "placeName": $child.name,
            "placeId": $child.place-id,
            "parentName": $parent.name,
            "parentId": $parent.place-id,
        };
    ]
};`, id, fmt.Sprintf(pageTypeProjection, "$page"), friendPreviewLimit, friendPreviewLimit), nil
}

// PostsQuery fetches every post authored by a page, each enriched with the
// author summary and its flat reaction list. Reaction order is whatever the
// store returns; callers must not rely on it.
func PostsQuery(pageID string) (string, error) {
	id, err := StringLiteral("id", pageID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
match
    $page has id %s;
    (page: $page, post: $post) isa posting;
fetch {
    "postText": $post.post-text,
    "postVisibility": $post.post-visibility,
    "postImage": (match $post isa image-post, has post-image $image; return first $image;),
    "language": $post.language,
    "tags": [$post.tag],
    "isVisible": $post.is-visible,
    "creationTimestamp": $post.creation-timestamp,
    "postId": $post.post-id,
    "authorName": $page.name,
    "authorProfilePicture": $page.profile-picture,
    "authorId": $page.page-id,
    "authorType": %s,
    "reactions": [
        match ($post) isa reaction, has emoji $emoji;
        return { $emoji };
    ],
};`, id, fmt.Sprintf(pageTypeProjection, "$page")), nil
}

// CommentsQuery fetches every comment on a post via the ternary commenting
// relation, enriched with the comment author's summary and reactions.
func CommentsQuery(postID string) (string, error) {
	id, err := StringLiteral("id", postID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
match
    $post has id %s;
    ($post, comment: $comment, author: $author) isa commenting;
fetch {
    "commentText": $comment.comment-text,
    "creationTimestamp": $comment.creation-timestamp,
    "isVisible": $comment.is-visible,
    "authorName": $author.name,
    "authorProfilePicture": $author.profile-picture,
    "authorId": $author.page-id,
    "authorType": %s,
    "reactions": [
        match ($comment) isa reaction, has emoji $emoji;
        return { $emoji };
    ],
};`, id, fmt.Sprintf(locatedPageTypeProjection, "$author")), nil
}
