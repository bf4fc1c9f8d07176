package types

import "time"

// Post is a timeline post. Name and Avatar are a snapshot of the author
// at creation time so posts stay renderable after account changes.
type Post struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Name      string    `json:"name,omitempty" db:"name"`
	Avatar    string    `json:"avatar,omitempty" db:"avatar"`
	Likes     []Like    `json:"likes" db:"likes"`
	Comments  []Comment `json:"comments" db:"comments"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Like marks that a user liked a post. The like list has set semantics:
// at most one entry per user id.
type Like struct {
	UserID int `json:"user_id"`
}

// Comment is a single comment on a post, with the same author snapshot
// convention as Post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LikedBy reports whether the like list contains an entry for the user.
func (p Post) LikedBy(userID int) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}
