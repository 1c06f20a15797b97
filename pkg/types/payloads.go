package types

import "fmt"

// Create payloads mirror the JSON bodies accepted by the create endpoints.
// Optional fields use the empty string as "absent": the encoder omits their
// attribute fragments entirely instead of inserting empty values.

// CreatePerson is the body of POST /api/create-user.
type CreatePerson struct {
	Username           string `json:"username"`
	Name               string `json:"name"`
	ProfilePicture     string `json:"profilePicture"`
	Badge              string `json:"badge"`
	IsActive           bool   `json:"isActive"`
	Gender             string `json:"gender"`
	Language           string `json:"language"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	RelationshipStatus string `json:"relationshipStatus"`
	CanPublish         bool   `json:"canPublish"`
	PageVisibility     string `json:"pageVisibility"`
	PostVisibility     string `json:"postVisibility"`
	Bio                string `json:"bio"`
}

// Validate checks that every required field is present.
func (p CreatePerson) Validate() error {
	return requireFields(map[string]string{
		"username":       p.Username,
		"name":           p.Name,
		"gender":         p.Gender,
		"email":          p.Email,
		"bio":            p.Bio,
		"pageVisibility": p.PageVisibility,
		"postVisibility": p.PostVisibility,
	})
}

// CreateGroup is the body of POST /api/create-group.
type CreateGroup struct {
	GroupID        string   `json:"groupId"`
	Name           string   `json:"name"`
	ProfilePicture string   `json:"profilePicture"`
	Badge          string   `json:"badge"`
	IsActive       bool     `json:"isActive"`
	Tags           []string `json:"tags"`
	PageVisibility string   `json:"pageVisibility"`
	PostVisibility string   `json:"postVisibility"`
	Bio            string   `json:"bio"`
}

// Validate checks that every required field is present.
func (g CreateGroup) Validate() error {
	return requireFields(map[string]string{
		"groupId":        g.GroupID,
		"name":           g.Name,
		"bio":            g.Bio,
		"pageVisibility": g.PageVisibility,
		"postVisibility": g.PostVisibility,
	})
}

// CreateOrganization is the body of POST /api/create-organization.
type CreateOrganization struct {
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	ProfilePicture string   `json:"profilePicture"`
	Badge          string   `json:"badge"`
	IsActive       bool     `json:"isActive"`
	CanPublish     bool     `json:"canPublish"`
	Tags           []string `json:"tags"`
	Bio            string   `json:"bio"`
}

// Validate checks that every required field is present.
func (o CreateOrganization) Validate() error {
	return requireFields(map[string]string{
		"username": o.Username,
		"name":     o.Name,
		"bio":      o.Bio,
	})
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}
