package model

import "time"

// Post is an entry on the public feed. The author's name and avatar are
// denormalized onto the row at creation time so the feed renders without
// joining users, matching how likes and comments snapshot their author.
type Post struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Like marks that a user liked a post. A user may like a post at most
// once; the `post_likes` table enforces this with a unique (post, user)
// pair.
type Like struct {
	UserID uint64 `json:"user_id"`
}

// Comment is a reply attached to a post, with the author snapshot taken
// at creation time.
type Comment struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"-"`
	UserID    uint64    `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}
