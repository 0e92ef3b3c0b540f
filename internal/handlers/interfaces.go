package handlers

import (
	"context"
	"io"

	"github.com/signcircle/backend/internal/auth"
	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/repositories"
)

// CredentialStore captures the persistence operations required by the auth
// handlers.
type CredentialStore interface {
	Create(ctx context.Context, cred repositories.Credential) error
	FindByHandle(ctx context.Context, handle string) (repositories.Credential, error)
	FindByEmail(ctx context.Context, email string) (repositories.Credential, error)
}

// SessionManager issues, refreshes, and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string)
}

// UserDirectory captures the registry operations required by the user handlers.
type UserDirectory interface {
	Create(rec domain.Record, userType string) (domain.User, error)
	Get(id string) (domain.User, error)
	All() []domain.User
	Update(id string, updates domain.Record) (domain.User, error)
	SetOnline(id string, online bool) (domain.User, error)
	Delete(id string) error
	Search(query string) []domain.User
	Online() []domain.User
}

// PostBoard captures the registry operations required by the post handlers.
type PostBoard interface {
	Create(rec domain.Record, postType string) (domain.Post, error)
	Get(id string) (domain.Post, error)
	All() []domain.Post
	ByAuthor(userID string) []domain.Post
	Delete(id string) error
	Like(id string) (domain.Post, error)
	Unlike(id string) (domain.Post, error)
	AddComment(id string) (domain.Post, error)
	Share(id string) (domain.Post, error)
	Top(limit int) []domain.Post
}

// Messenger captures the registry operations required by the message handlers.
type Messenger interface {
	Send(rec domain.Record, messageType string) (domain.Message, error)
	Get(id string) (domain.Message, error)
	All() []domain.Message
	Conversation(userID1, userID2 string) []domain.Message
	MarkRead(id string) (domain.Message, error)
	UnreadFor(userID string) []domain.Message
	UnreadCountFor(userID string) int
}

// VideoLibrary captures the registry operations required by the lesson video
// and course handlers.
type VideoLibrary interface {
	CreateVideo(rec domain.Record) (*domain.Video, error)
	GetVideo(id string) (*domain.Video, error)
	AllVideos() []*domain.Video
	ByCategory(category string) []*domain.Video
	ByDifficulty(difficulty string) []*domain.Video
	Popular(limit int) []*domain.Video
	AddView(id string) (*domain.Video, error)
	LikeVideo(id string) (*domain.Video, error)
	UnlikeVideo(id string) (*domain.Video, error)
	CreateCourse(rec domain.Record) (*domain.Course, error)
	GetCourse(id string) (*domain.Course, error)
	AllCourses() []*domain.Course
	AddVideoToCourse(courseID, videoID string) (*domain.Course, error)
	Enroll(courseID, studentID string) (*domain.Course, error)
}

// FriendshipLedger captures the registry operations required by the friend
// handlers.
type FriendshipLedger interface {
	Request(user1, user2 domain.User) (*domain.Friendship, error)
	Get(id string) (*domain.Friendship, error)
	All() []*domain.Friendship
	Accept(id string) (*domain.Friendship, error)
	Decline(id string) (*domain.Friendship, error)
	Block(id string) (*domain.Friendship, error)
	Unblock(id string) (*domain.Friendship, error)
	FriendsOf(userID string) []*domain.Friendship
	PendingFor(userID string) []*domain.Friendship
	AreFriends(userID1, userID2 string) bool
}

// MediaStorage persists uploaded media and returns a public location.
type MediaStorage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// Archivist persists serialized entity snapshots for crash recovery. A nil
// Archivist disables archiving.
type Archivist interface {
	Save(ctx context.Context, kind, id string, record domain.Record) error
	Delete(ctx context.Context, kind, id string) error
}
