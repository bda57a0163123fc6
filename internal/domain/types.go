package domain

type (
	UserId    = int64
	PostId    = int64
	CommentId = int64
	MessageId = int64

	Username = string
	Password = string
)
