package domain

import "time"

// Post is a progress update shared on the community feed.
type Post struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	Content    string    `json:"content" bson:"content"`
	Likes      int       `json:"likes" bson:"likes"`
	LikedBy    []string  `json:"-" bson:"liked_by"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// LikedByUser reports whether the given user has liked the post.
func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
