package domain

import "time"

// Comment is an append-only sub-record of a Post. There is no deletion path.
type Comment struct {
	Content   string    `json:"content" bson:"content"`
	Author    Ref       `json:"author" bson:"author"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Post is a forum entry with polymorphic authorship. Likes is a set keyed by
// the liker's id; membership is flipped by ToggleLike (double toggle means
// "undo" — deliberately not idempotent).
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    Ref       `json:"author"`
	Likes     []Ref     `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentView is a comment expanded with the author's display fields.
type CommentView struct {
	Comment
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// PostView is a post with author and comment-author display fields expanded,
// the shape returned to clients.
type PostView struct {
	Post
	AuthorName  string        `json:"author_name"`
	AuthorEmail string        `json:"author_email"`
	Comments    []CommentView `json:"comments"`
}

// LikedBy reports whether id is in the post's like set.
func (p *Post) LikedBy(id string) bool {
	for _, l := range p.Likes {
		if l.ID == id {
			return true
		}
	}
	return false
}
