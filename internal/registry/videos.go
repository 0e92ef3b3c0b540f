package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signcircle/backend/internal/domain"
)

// VideoRegistry owns the instructional video catalog and the course
// collection built on top of it.
type VideoRegistry struct {
	mu          sync.RWMutex
	videos      map[string]*domain.Video
	videoOrder  []string
	courses     map[string]*domain.Course
	courseOrder []string
}

// NewVideoRegistry constructs an empty video/course registry.
func NewVideoRegistry() *VideoRegistry {
	return &VideoRegistry{
		videos:  make(map[string]*domain.Video),
		courses: make(map[string]*domain.Course),
	}
}

// CreateVideo validates and registers a new instructional video.
func (r *VideoRegistry) CreateVideo(rec domain.Record) (*domain.Video, error) {
	video := domain.NewVideo(rec)
	if err := video.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.videos[video.ID()]; exists {
		return nil, fmt.Errorf("video %s: %w", video.ID(), ErrConflict)
	}
	r.videos[video.ID()] = video
	r.videoOrder = append(r.videoOrder, video.ID())
	return video, nil
}

// GetVideo returns the video with the given id.
func (r *VideoRegistry) GetVideo(id string) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	video, ok := r.videos[id]
	if !ok {
		return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return video, nil
}

// AllVideos returns a snapshot of the catalog in insertion order.
func (r *VideoRegistry) AllVideos() []*domain.Video {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Video, 0, len(r.videoOrder))
	for _, id := range r.videoOrder {
		out = append(out, r.videos[id])
	}
	return out
}

// ByCategory returns videos in the given category, in insertion order.
func (r *VideoRegistry) ByCategory(category string) []*domain.Video {
	var out []*domain.Video
	for _, video := range r.AllVideos() {
		if video.Category() == category {
			out = append(out, video)
		}
	}
	return out
}

// ByDifficulty returns videos at the given difficulty tier, in insertion
// order.
func (r *VideoRegistry) ByDifficulty(difficulty string) []*domain.Video {
	var out []*domain.Video
	for _, video := range r.AllVideos() {
		if video.Difficulty() == difficulty {
			out = append(out, video)
		}
	}
	return out
}

// Popular returns up to limit videos ordered by descending popularity score,
// ties keeping insertion order. A non-positive limit falls back to
// DefaultTopLimit.
func (r *VideoRegistry) Popular(limit int) []*domain.Video {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	videos := r.AllVideos()
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PopularityScore() > videos[j].PopularityScore()
	})
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos
}

// AddView increments the view counter of the video with the given id.
func (r *VideoRegistry) AddView(id string) (*domain.Video, error) {
	video, err := r.GetVideo(id)
	if err != nil {
		return nil, err
	}
	video.AddView()
	return video, nil
}

// LikeVideo increments the like counter of the video with the given id.
func (r *VideoRegistry) LikeVideo(id string) (*domain.Video, error) {
	video, err := r.GetVideo(id)
	if err != nil {
		return nil, err
	}
	video.Like()
	return video, nil
}

// UnlikeVideo decrements the like counter, flooring at zero.
func (r *VideoRegistry) UnlikeVideo(id string) (*domain.Video, error) {
	video, err := r.GetVideo(id)
	if err != nil {
		return nil, err
	}
	video.Unlike()
	return video, nil
}

// CreateCourse validates and registers a new course.
func (r *VideoRegistry) CreateCourse(rec domain.Record) (*domain.Course, error) {
	course := domain.NewCourse(rec)
	if err := course.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.courses[course.ID()]; exists {
		return nil, fmt.Errorf("course %s: %w", course.ID(), ErrConflict)
	}
	r.courses[course.ID()] = course
	r.courseOrder = append(r.courseOrder, course.ID())
	return course, nil
}

// GetCourse returns the course with the given id.
func (r *VideoRegistry) GetCourse(id string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return course, nil
}

// AllCourses returns a snapshot of every course in insertion order.
func (r *VideoRegistry) AllCourses() []*domain.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Course, 0, len(r.courseOrder))
	for _, id := range r.courseOrder {
		out = append(out, r.courses[id])
	}
	return out
}

// AddVideoToCourse appends a registered video to a registered course.
func (r *VideoRegistry) AddVideoToCourse(courseID, videoID string) (*domain.Course, error) {
	course, err := r.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	video, err := r.GetVideo(videoID)
	if err != nil {
		return nil, err
	}
	if err := course.AddVideo(video); err != nil {
		return nil, err
	}
	return course, nil
}

// Enroll records a member as enrolled in the course. Idempotent.
func (r *VideoRegistry) Enroll(courseID, studentID string) (*domain.Course, error) {
	course, err := r.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	course.EnrollStudent(studentID)
	return course, nil
}
