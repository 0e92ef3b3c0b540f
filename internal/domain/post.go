package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPostContentLength caps post content at 500 characters.
const MaxPostContentLength = 500

// Post is the capability shared by feed post variants.
type Post interface {
	Model
	Author() User
	Content() string
	Likes() int
	Comments() int
	Shares() int
	Public() bool
	SetContent(string) error
	SetPublic(bool)
	Like()
	Unlike()
	AddComment()
	Share()
	EngagementScore() float64
	FormattedAge() string
}

// TextPost is a regular feed post.
type TextPost struct {
	entity
	author   User
	content  string
	likes    int
	comments int
	shares   int
	public   bool
}

// NewTextPost constructs a post from a plain record. The "author" key holds a
// live User reference; posts default to public.
func NewTextPost(rec Record) *TextPost {
	return &TextPost{
		entity:   newEntity(rec),
		author:   rec.user("author"),
		content:  rec.stringOr("content", ""),
		likes:    rec.intOr("likes", 0),
		comments: rec.intOr("comments", 0),
		shares:   rec.intOr("shares", 0),
		public:   rec.boolOr("isPublic", true),
	}
}

// Author is fixed at construction; no lock needed.
func (p *TextPost) Author() User { return p.author }

func (p *TextPost) Content() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.content
}

func (p *TextPost) Likes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.likes
}

func (p *TextPost) Comments() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.comments
}

func (p *TextPost) Shares() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shares
}

func (p *TextPost) Public() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.public
}

// SetContent replaces the post body. Empty or oversized content is rejected
// and the prior content kept.
func (p *TextPost) SetContent(v string) error {
	if strings.TrimSpace(v) == "" {
		return invalidf("post content must not be empty")
	}
	if utf8.RuneCountInString(v) > MaxPostContentLength {
		return invalidf("post content too long (max %d characters)", MaxPostContentLength)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = v
	p.touch()
	return nil
}

func (p *TextPost) SetPublic(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.public = v
	p.touch()
}

func (p *TextPost) Like() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.likes++
	p.touch()
}

// Unlike decrements the like counter, flooring at zero.
func (p *TextPost) Unlike() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.likes > 0 {
		p.likes--
		p.touch()
	}
}

func (p *TextPost) AddComment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments++
	p.touch()
}

func (p *TextPost) Share() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shares++
	p.touch()
}

// EngagementScore weights shares over comments over likes: distribution beats
// passive approval.
func (p *TextPost) EngagementScore() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.engagementScore()
}

// engagementScore computes the base formula. Callers hold at least the read
// lock.
func (p *TextPost) engagementScore() float64 {
	return float64(p.likes*1 + p.comments*2 + p.shares*3)
}

// FormattedAge renders the elapsed time since creation bucketed as minutes,
// hours, or days.
func (p *TextPost) FormattedAge() string {
	return formatAge(time.Since(p.createdAt))
}

func (p *TextPost) Validate() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.author == nil {
		return invalidf("post author is required")
	}
	if strings.TrimSpace(p.content) == "" {
		return invalidf("post content is required")
	}
	if utf8.RuneCountInString(p.content) > MaxPostContentLength {
		return invalidf("post content too long (max %d characters)", MaxPostContentLength)
	}
	return nil
}

// record builds the shared portion of a post record. Callers hold at least
// the read lock.
func (p *TextPost) record(score float64) Record {
	rec := p.baseRecord()
	rec["author"] = serializeRef(p.author)
	rec["content"] = p.content
	rec["likes"] = p.likes
	rec["comments"] = p.comments
	rec["shares"] = p.shares
	rec["isPublic"] = p.public
	rec["engagementScore"] = score
	return rec
}

func (p *TextPost) Serialize() Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.record(p.engagementScore())
}

// VideoPost is a post carrying a video: media URL is mandatory and view count
// feeds the engagement score.
type VideoPost struct {
	TextPost
	videoURL  string
	thumbnail string
	duration  int
	views     int
}

// NewVideoPost constructs a video post from a plain record.
func NewVideoPost(rec Record) *VideoPost {
	return &VideoPost{
		TextPost:  *NewTextPost(rec),
		videoURL:  rec.stringOr("videoUrl", ""),
		thumbnail: rec.stringOr("thumbnail", ""),
		duration:  rec.intOr("duration", 0),
		views:     rec.intOr("views", 0),
	}
}

func (p *VideoPost) VideoURL() string  { return p.videoURL }
func (p *VideoPost) Thumbnail() string { return p.thumbnail }
func (p *VideoPost) Duration() int     { return p.duration }

func (p *VideoPost) Views() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.views
}

func (p *VideoPost) AddView() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views++
	p.touch()
}

// FormattedDuration renders the video length as minutes:seconds.
func (p *VideoPost) FormattedDuration() string {
	return formatClock(p.duration)
}

// EngagementScore adds half a point per view on top of the base formula.
func (p *VideoPost) EngagementScore() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.engagementScore()
}

func (p *VideoPost) engagementScore() float64 {
	return p.TextPost.engagementScore() + float64(p.views)*0.5
}

func (p *VideoPost) Validate() error {
	if err := p.TextPost.Validate(); err != nil {
		return err
	}
	if p.videoURL == "" {
		return invalidf("video post requires a video url")
	}
	return nil
}

func (p *VideoPost) Serialize() Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec := p.record(p.engagementScore())
	rec["videoUrl"] = p.videoURL
	rec["thumbnail"] = p.thumbnail
	rec["duration"] = p.duration
	rec["formattedDuration"] = p.FormattedDuration()
	rec["views"] = p.views
	rec["type"] = "video"
	return rec
}

func formatAge(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	hours := int(elapsed.Hours())
	days := int(elapsed.Hours() / 24)

	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", days)
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
