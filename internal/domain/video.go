package domain

import (
	"fmt"
	"strings"
)

// Difficulty tiers for instructional videos.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DifficultyOrdinal maps a tier label to the 1/2/3 ordinal used for
// averaging. Unknown labels map to 0.
func DifficultyOrdinal(difficulty string) int {
	switch difficulty {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	}
	return 0
}

// Video is an instructional sign-language video taught by an instructor.
type Video struct {
	entity
	title       string
	description string
	thumbnail   string
	duration    int
	instructor  User
	category    string
	difficulty  string
	views       int
	likes       int
}

// NewVideo constructs a video from a plain record. Difficulty defaults to
// beginner; "instructor" holds a live User reference.
func NewVideo(rec Record) *Video {
	return &Video{
		entity:      newEntity(rec),
		title:       rec.stringOr("title", ""),
		description: rec.stringOr("description", ""),
		thumbnail:   rec.stringOr("thumbnail", ""),
		duration:    rec.intOr("duration", 0),
		instructor:  rec.user("instructor"),
		category:    rec.stringOr("category", ""),
		difficulty:  rec.stringOr("difficulty", DifficultyBeginner),
		views:       rec.intOr("views", 0),
		likes:       rec.intOr("likes", 0),
	}
}

func (v *Video) Thumbnail() string { return v.thumbnail }
func (v *Video) Duration() int     { return v.duration }
func (v *Video) Instructor() User  { return v.instructor }

func (v *Video) Title() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.title
}

func (v *Video) Description() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.description
}

func (v *Video) Category() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.category
}

func (v *Video) Difficulty() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.difficulty
}

func (v *Video) Views() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.views
}

func (v *Video) Likes() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.likes
}

func (v *Video) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalidf("video title must not be empty")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title = title
	v.touch()
	return nil
}

func (v *Video) SetDescription(description string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.description = description
	v.touch()
}

func (v *Video) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.category = category
	v.touch()
}

// SetDifficulty replaces the tier label, rejecting unknown labels.
func (v *Video) SetDifficulty(difficulty string) error {
	if DifficultyOrdinal(difficulty) == 0 {
		return invalidf("unknown difficulty level %q", difficulty)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.difficulty = difficulty
	v.touch()
	return nil
}

func (v *Video) AddView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.views++
	v.touch()
}

func (v *Video) Like() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.likes++
	v.touch()
}

// Unlike decrements the like counter, flooring at zero.
func (v *Video) Unlike() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.likes > 0 {
		v.likes--
		v.touch()
	}
}

// FormattedDuration renders the length as minutes:seconds.
func (v *Video) FormattedDuration() string {
	return formatClock(v.duration)
}

// PopularityScore weights likes over raw views.
func (v *Video) PopularityScore() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.popularityScore()
}

// popularityScore computes the formula. Callers hold at least the read lock.
func (v *Video) popularityScore() float64 {
	return float64(v.views)*0.5 + float64(v.likes)*2
}

// DifficultyOrdinal returns this video's 1/2/3 tier ordinal.
func (v *Video) DifficultyOrdinal() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return DifficultyOrdinal(v.difficulty)
}

func (v *Video) Validate() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if strings.TrimSpace(v.title) == "" {
		return invalidf("video title is required")
	}
	if v.category == "" {
		return invalidf("video category is required")
	}
	if v.duration <= 0 {
		return invalidf("video duration must be positive")
	}
	return nil
}

func (v *Video) Serialize() Record {
	v.mu.RLock()
	defer v.mu.RUnlock()
	rec := v.baseRecord()
	rec["title"] = v.title
	rec["description"] = v.description
	rec["thumbnail"] = v.thumbnail
	rec["duration"] = v.duration
	rec["formattedDuration"] = v.FormattedDuration()
	rec["instructor"] = serializeRef(v.instructor)
	rec["category"] = v.category
	rec["difficulty"] = v.difficulty
	rec["views"] = v.views
	rec["likes"] = v.likes
	rec["popularityScore"] = v.popularityScore()
	return rec
}

// Course aggregates an ordered list of videos under one instructor. The course
// owns its video list but not the videos themselves; a video may exist outside
// any course.
type Course struct {
	entity
	title       string
	description string
	instructor  User
	videos      []*Video
	enrolled    []string
	category    string
}

// NewCourse constructs a course from a plain record. "videos" holds live
// Video references, "enrolledStudents" a list of member ids.
func NewCourse(rec Record) *Course {
	return &Course{
		entity:      newEntity(rec),
		title:       rec.stringOr("title", ""),
		description: rec.stringOr("description", ""),
		instructor:  rec.user("instructor"),
		videos:      rec.videos("videos"),
		enrolled:    rec.stringsOr("enrolledStudents", nil),
		category:    rec.stringOr("category", ""),
	}
}

func (c *Course) Title() string       { return c.title }
func (c *Course) Description() string { return c.description }
func (c *Course) Instructor() User    { return c.instructor }
func (c *Course) Category() string    { return c.category }

// Videos returns a copy of the member video list in course order.
func (c *Course) Videos() []*Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Video, len(c.videos))
	copy(out, c.videos)
	return out
}

// EnrolledStudents returns a copy of the enrolled member ids.
func (c *Course) EnrolledStudents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyStrings(c.enrolled)
}

func (c *Course) EnrolledCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.enrolled)
}

// AddVideo appends a video to the course.
func (c *Course) AddVideo(v *Video) error {
	if v == nil {
		return invalidf("course video must not be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos = append(c.videos, v)
	c.touch()
	return nil
}

// RemoveVideo drops the video with the given id from the course list.
func (c *Course) RemoveVideo(videoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.videos[:0]
	for _, v := range c.videos {
		if v.ID() != videoID {
			kept = append(kept, v)
		}
	}
	c.videos = kept
	c.touch()
}

// EnrollStudent records a member id as enrolled. Re-enrolling is a no-op.
func (c *Course) EnrollStudent(studentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.enrolled {
		if id == studentID {
			return
		}
	}
	c.enrolled = append(c.enrolled, studentID)
	c.touch()
}

func (c *Course) VideoCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.videos)
}

// TotalDuration sums the member video durations in seconds.
func (c *Course) TotalDuration() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalDuration()
}

func (c *Course) totalDuration() int {
	total := 0
	for _, v := range c.videos {
		total += v.Duration()
	}
	return total
}

// FormattedTotalDuration renders the total length as "Xh Ym".
func (c *Course) FormattedTotalDuration() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return formatCourseDuration(c.totalDuration())
}

func formatCourseDuration(total int) string {
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}

// AverageDifficulty is the mean tier ordinal across member videos, 0 for a
// course with no videos.
func (c *Course) AverageDifficulty() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.averageDifficulty()
}

func (c *Course) averageDifficulty() float64 {
	if len(c.videos) == 0 {
		return 0
	}
	sum := 0
	for _, v := range c.videos {
		sum += v.DifficultyOrdinal()
	}
	return float64(sum) / float64(len(c.videos))
}

func (c *Course) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if strings.TrimSpace(c.title) == "" {
		return invalidf("course title is required")
	}
	if c.instructor == nil {
		return invalidf("course instructor is required")
	}
	if len(c.videos) == 0 {
		return invalidf("course requires at least one video")
	}
	return nil
}

func (c *Course) Serialize() Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	serialized := make([]Record, 0, len(c.videos))
	for _, v := range c.videos {
		serialized = append(serialized, v.Serialize())
	}
	total := c.totalDuration()

	rec := c.baseRecord()
	rec["title"] = c.title
	rec["description"] = c.description
	rec["instructor"] = serializeRef(c.instructor)
	rec["videos"] = serialized
	rec["videoCount"] = len(c.videos)
	rec["totalDuration"] = total
	rec["formattedTotalDuration"] = formatCourseDuration(total)
	rec["enrolledStudents"] = copyStrings(c.enrolled)
	rec["category"] = c.category
	rec["averageDifficulty"] = c.averageDifficulty()
	return rec
}
