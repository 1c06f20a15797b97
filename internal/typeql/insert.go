package typeql

import "github.com/pagegate/pagegate/pkg/types"

// InsertPersonQuery builds the insert statement for a new person page.
// Optional attributes (profile picture, language, phone, relationship status,
// badge) are omitted when absent.
func InsertPersonQuery(p types.CreatePerson) (string, error) {
	return newInsert("person").
		has("name", p.Name).
		has("username", p.Username).
		hasOptional("profile-picture", p.ProfilePicture).
		has("gender", p.Gender).
		hasOptional("language", p.Language).
		has("email", p.Email).
		hasOptional("phone", p.Phone).
		hasOptional("relationship-status", p.RelationshipStatus).
		hasOptional("badge", p.Badge).
		has("bio", p.Bio).
		hasBool("can-publish", p.CanPublish).
		hasBool("is-active", p.IsActive).
		has("page-visibility", p.PageVisibility).
		has("post-visibility", p.PostVisibility).
		build()
}

// InsertGroupQuery builds the insert statement for a new group page. Tags
// expand to one `has tag` clause per element.
func InsertGroupQuery(g types.CreateGroup) (string, error) {
	return newInsert("group").
		has("name", g.Name).
		has("group-id", g.GroupID).
		hasOptional("profile-picture", g.ProfilePicture).
		has("bio", g.Bio).
		hasBool("is-active", g.IsActive).
		has("page-visibility", g.PageVisibility).
		has("post-visibility", g.PostVisibility).
		hasOptional("badge", g.Badge).
		hasEach("tag", g.Tags).
		build()
}

// InsertOrganizationQuery builds the insert statement for a new organization
// page.
func InsertOrganizationQuery(o types.CreateOrganization) (string, error) {
	return newInsert("organization").
		has("name", o.Name).
		has("username", o.Username).
		hasOptional("profile-picture", o.ProfilePicture).
		has("bio", o.Bio).
		hasBool("is-active", o.IsActive).
		hasBool("can-publish", o.CanPublish).
		hasOptional("badge", o.Badge).
		hasEach("tag", o.Tags).
		build()
}
