package model

import "time"

// Profile is a developer profile owned by exactly one user. Skills are
// stored comma-separated in the `profiles` table and exposed as a slice.
// Experience and education entries live in child tables and are loaded
// with the profile.
type Profile struct {
	ID             uint64       `json:"id"`
	UserID         uint64       `json:"user_id"`
	Handle         string       `json:"handle"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	User           *UserRef     `json:"user,omitempty"` // joined name/avatar of the owner
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Social groups the optional social network links of a profile. Empty
// links are omitted from JSON.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a work history entry. To is nil while Current is true.
type Experience struct {
	ID          uint64     `json:"id"`
	ProfileID   uint64     `json:"-"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a study history entry, shaped like Experience.
type Education struct {
	ID           uint64     `json:"id"`
	ProfileID    uint64     `json:"-"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}
