package domain

import "time"

type Post struct {
	Id        PostId
	Author    User
	Text      string
	CreatedAt time.Time
	Comments  []*Comment // oldest first
}

type Comment struct {
	Id        CommentId
	PostId    PostId
	Author    User
	Text      string
	CreatedAt time.Time
}

// Feed is the composite view rendered on the index page:
// posts newest first, each carrying its comments oldest first,
// plus every other registered user (for starting conversations).
type Feed struct {
	Viewer  User
	Others  []User
	Posts   []*Post
	Page    int
	HasMore bool
}
