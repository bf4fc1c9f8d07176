package types

import "time"

// Profile holds the public career profile attached one-to-one to a user.
type Profile struct {
	ID             int          `json:"id" db:"id"`
	UserID         int          `json:"user_id" db:"user_id"`
	Company        string       `json:"company,omitempty" db:"company"`
	Website        string       `json:"website,omitempty" db:"website"`
	Location       string       `json:"location,omitempty" db:"location"`
	Status         string       `json:"status" db:"status"`
	Bio            string       `json:"bio,omitempty" db:"bio"`
	GithubUsername string       `json:"github_username,omitempty" db:"github_username"`
	Skills         []string     `json:"skills" db:"skills"`
	Experience     []Experience `json:"experience" db:"experience"`
	Education      []Education  `json:"education" db:"education"`
	Social         Social       `json:"social" db:"social"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// Experience is a single work-history entry. ID is a locally-unique
// identifier generated when the entry is added; it is never reused.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a single education-history entry, identified like Experience.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Social groups optional links to external social accounts.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}
