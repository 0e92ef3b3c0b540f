package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{
		Credentials: deps.Credentials,
		Users:       deps.Users,
		Sessions:    deps.Sessions,
		Archive:     deps.Archive,
		Limiter:     deps.AuthLimiter,
	}
	users := UserHandler{Users: deps.Users, Archive: deps.Archive}
	posts := PostHandler{Posts: deps.Posts, Users: deps.Users, Archive: deps.Archive}
	messages := MessageHandler{Messages: deps.Messages, Users: deps.Users, Archive: deps.Archive}
	videos := VideoHandler{Library: deps.Library, Users: deps.Users, Archive: deps.Archive}
	friends := FriendHandler{Friendships: deps.Friendships, Users: deps.Users, Archive: deps.Archive}
	media := MediaHandler{Storage: deps.Media}
	admin := AdminHandler{
		Users:       deps.Users,
		Posts:       deps.Posts,
		Messages:    deps.Messages,
		Library:     deps.Library,
		Friendships: deps.Friendships,
		Archive:     deps.Archive,
	}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/auth/signup", auth.SignUp)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)
	mux.HandleFunc("/api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("/api/v1/auth/logout", auth.Logout)

	mux.HandleFunc("/api/v1/users", users.List)
	mux.HandleFunc("GET /api/v1/users/{id}", users.Get)
	mux.HandleFunc("PATCH /api/v1/users/{id}", users.Update)
	mux.HandleFunc("PUT /api/v1/users/{id}", users.Update)
	mux.HandleFunc("DELETE /api/v1/users/{id}", users.Delete)
	mux.HandleFunc("/api/v1/users/{id}/presence", users.Presence)

	mux.HandleFunc("POST /api/v1/posts", posts.Create)
	mux.HandleFunc("GET /api/v1/posts", posts.List)
	mux.HandleFunc("GET /api/v1/posts/top", posts.Top)
	mux.HandleFunc("GET /api/v1/posts/{id}", posts.Get)
	mux.HandleFunc("DELETE /api/v1/posts/{id}", posts.Delete)
	mux.HandleFunc("/api/v1/posts/{id}/{action}", posts.React)

	mux.HandleFunc("/api/v1/messages", messages.Send)
	mux.HandleFunc("/api/v1/messages/conversation", messages.Conversation)
	mux.HandleFunc("/api/v1/messages/unread", messages.Unread)
	mux.HandleFunc("/api/v1/messages/{id}/read", messages.MarkRead)

	mux.HandleFunc("POST /api/v1/videos", videos.CreateVideo)
	mux.HandleFunc("GET /api/v1/videos", videos.ListVideos)
	mux.HandleFunc("GET /api/v1/videos/popular", videos.PopularVideos)
	mux.HandleFunc("GET /api/v1/videos/{id}", videos.GetVideo)
	mux.HandleFunc("/api/v1/videos/{id}/{action}", videos.ReactVideo)

	mux.HandleFunc("POST /api/v1/courses", videos.CreateCourse)
	mux.HandleFunc("GET /api/v1/courses", videos.ListCourses)
	mux.HandleFunc("GET /api/v1/courses/{id}", videos.GetCourse)
	mux.HandleFunc("/api/v1/courses/{id}/videos", videos.AddCourseVideo)
	mux.HandleFunc("/api/v1/courses/{id}/enroll", videos.Enroll)

	mux.HandleFunc("GET /api/v1/friends", friends.List)
	mux.HandleFunc("/api/v1/friends/invite", friends.Invite)
	mux.HandleFunc("/api/v1/friends/respond", friends.Respond)
	mux.HandleFunc("/api/v1/friends/pending", friends.Pending)

	mux.HandleFunc("/api/v1/media", media.Upload)

	mux.HandleFunc("/api/v1/admin/snapshot", admin.Snapshot)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Credentials CredentialStore
	Sessions    SessionManager
	Users       UserDirectory
	Posts       PostBoard
	Messages    Messenger
	Library     VideoLibrary
	Friendships FriendshipLedger
	Media       MediaStorage
	Archive     Archivist
	AuthLimiter RateLimiter
}
