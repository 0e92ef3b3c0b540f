package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
)

// VideoHandler implements the lesson video and course endpoints.
type VideoHandler struct {
	Library VideoLibrary
	Users   UserDirectory
	Archive Archivist
}

// CreateVideo handles POST /api/v1/videos requests.
func (h VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rec := domain.Record{
		"title":       req.Title,
		"description": req.Description,
		"thumbnail":   req.Thumbnail,
		"duration":    req.Duration,
		"category":    req.Category,
	}
	if req.Difficulty != "" {
		rec["difficulty"] = req.Difficulty
	}
	if instructorID := strings.TrimSpace(req.InstructorID); instructorID != "" {
		instructor, err := h.Users.Get(instructorID)
		if err != nil {
			logger.Warn("video instructor lookup failed", "instructorId", instructorID, "error", err)
			respondError(ctx, w, err)
			return
		}
		rec["instructor"] = instructor
	}

	video, err := h.Library.CreateVideo(rec)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "videos", video)
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"video": video.Serialize()})
}

// ListVideos handles GET /api/v1/videos. Supports ?category= and
// ?difficulty= filters.
func (h VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var videos []*domain.Video
	switch {
	case strings.TrimSpace(r.URL.Query().Get("category")) != "":
		videos = h.Library.ByCategory(r.URL.Query().Get("category"))
	case strings.TrimSpace(r.URL.Query().Get("difficulty")) != "":
		videos = h.Library.ByDifficulty(r.URL.Query().Get("difficulty"))
	default:
		videos = h.Library.AllVideos()
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": serializeVideos(videos)})
}

// PopularVideos handles GET /api/v1/videos/popular?limit=N, ranked by
// popularity.
func (h VideoHandler) PopularVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": serializeVideos(h.Library.Popular(limit))})
}

// GetVideo handles GET /api/v1/videos/{id}.
func (h VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	video, err := h.Library.GetVideo(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": video.Serialize()})
}

// ReactVideo handles POST /api/v1/videos/{id}/{action} where action is one
// of view, like, or unlike.
func (h VideoHandler) ReactVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	var (
		video *domain.Video
		err   error
	)
	switch r.PathValue("action") {
	case "view":
		video, err = h.Library.AddView(id)
	case "like":
		video, err = h.Library.LikeVideo(id)
	case "unlike":
		video, err = h.Library.UnlikeVideo(id)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unknown reaction"})
		return
	}
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "videos", video)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": video.Serialize()})
}

// CreateCourse handles POST /api/v1/courses requests.
func (h VideoHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid course payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	instructor, err := h.Users.Get(strings.TrimSpace(req.InstructorID))
	if err != nil {
		logger.Warn("course instructor lookup failed", "instructorId", req.InstructorID, "error", err)
		respondError(ctx, w, err)
		return
	}

	videos := make([]*domain.Video, 0, len(req.VideoIDs))
	for _, videoID := range req.VideoIDs {
		video, err := h.Library.GetVideo(videoID)
		if err != nil {
			logger.Warn("course video lookup failed", "videoId", videoID, "error", err)
			respondError(ctx, w, err)
			return
		}
		videos = append(videos, video)
	}

	course, err := h.Library.CreateCourse(domain.Record{
		"title":       req.Title,
		"description": req.Description,
		"instructor":  instructor,
		"videos":      videos,
		"category":    req.Category,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "courses", course)
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"course": course.Serialize()})
}

// ListCourses handles GET /api/v1/courses.
func (h VideoHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	courses := h.Library.AllCourses()
	records := make([]domain.Record, 0, len(courses))
	for _, c := range courses {
		records = append(records, c.Serialize())
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"courses": records})
}

// GetCourse handles GET /api/v1/courses/{id}.
func (h VideoHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	course, err := h.Library.GetCourse(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"course": course.Serialize()})
}

// AddCourseVideo handles POST /api/v1/courses/{id}/videos with {"videoId": id}.
func (h VideoHandler) AddCourseVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req courseVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid course video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	course, err := h.Library.AddVideoToCourse(r.PathValue("id"), strings.TrimSpace(req.VideoID))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "courses", course)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"course": course.Serialize()})
}

// Enroll handles POST /api/v1/courses/{id}/enroll with {"studentId": id}.
func (h VideoHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid enroll payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	studentID := strings.TrimSpace(req.StudentID)
	if h.Users != nil {
		if _, err := h.Users.Get(studentID); err != nil {
			logger.Warn("enroll student lookup failed", "studentId", studentID, "error", err)
			respondError(ctx, w, err)
			return
		}
	}

	course, err := h.Library.Enroll(r.PathValue("id"), studentID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "courses", course)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"course": course.Serialize()})
}

type createVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	Duration     int    `json:"duration"`
	InstructorID string `json:"instructorId"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
}

type createCourseRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	InstructorID string   `json:"instructorId"`
	VideoIDs     []string `json:"videoIds"`
	Category     string   `json:"category"`
}

type courseVideoRequest struct {
	VideoID string `json:"videoId"`
}

type enrollRequest struct {
	StudentID string `json:"studentId"`
}

func serializeVideos(videos []*domain.Video) []domain.Record {
	records := make([]domain.Record, 0, len(videos))
	for _, v := range videos {
		records = append(records, v.Serialize())
	}
	return records
}
