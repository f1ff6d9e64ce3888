package types

import "time"

// Gender values accepted for a user profile.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderNonBinary   = "non-binary"
	GenderOther       = "other"
	GenderUnspecified = "prefer not to say"
)

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user, assigned at creation.
	ID string `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Username is the handle chosen by the user.
	Username string `json:"userName" db:"username"`

	// Email is the user's email address, stored lowercased and unique.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// ProfilePicture is an optional reference to the user's avatar.
	ProfilePicture string `json:"profilePicture,omitempty" db:"profile_picture"`

	// Bio is an optional free-form description, at most 800 characters.
	Bio string `json:"bio,omitempty" db:"bio"`

	// Gender is one of the Gender* constants; defaults to GenderUnspecified.
	Gender string `json:"gender" db:"gender"`

	// Followers and Following hold the ids of related users.
	Followers []string `json:"followers" db:"followers"`
	Following []string `json:"following" db:"following"`

	// FollowersCount and FollowingCount are denormalized cardinalities
	// of the relation sets above.
	FollowersCount int `json:"followersCount" db:"followers_count"`
	FollowingCount int `json:"followingCount" db:"following_count"`

	// IsActive marks the account as active; deactivation is the only
	// removal path, there is no hard delete.
	IsActive bool `json:"isActive" db:"is_active"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent change. Listing
	// projections leave it unset.
	UpdatedAt time.Time `json:"updatedAt,omitzero" db:"updated_at"`
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users      []User     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the position of a page within the full result set.
type Pagination struct {
	TotalUsers  int `json:"users"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}
