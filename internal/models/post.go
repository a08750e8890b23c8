package models

import (
	"fmt"
	"time"
)

// Post is a short feed entry a user shares with everyone else, optionally
// tagged with the song they are listening to.
type Post struct {
	id            string
	sequence      int
	authorID      string
	authorName    string
	content       string
	currentSong   string
	likeCount     int
	likedByViewer bool
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewPost creates a feed post for the given author.
func NewPost(sequence int, authorID, content, currentSong string) *Post {
	now := time.Now()
	return &Post{
		sequence:    sequence,
		authorID:    authorID,
		content:     content,
		currentSong: currentSong,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (p *Post) ID() string            { return p.id }
func (p *Post) Sequence() int         { return p.sequence }
func (p *Post) AuthorID() string      { return p.authorID }
func (p *Post) AuthorName() string    { return p.authorName }
func (p *Post) Content() string       { return p.content }
func (p *Post) CurrentSong() string   { return p.currentSong }
func (p *Post) LikeCount() int        { return p.likeCount }
func (p *Post) LikedByViewer() bool   { return p.likedByViewer }
func (p *Post) CreatedAt() time.Time  { return p.createdAt }
func (p *Post) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Post) DeletedAt() *time.Time { return p.deletedAt }

func (p *Post) SetID(id string)             { p.id = id }
func (p *Post) SetAuthorName(name string)   { p.authorName = name }
func (p *Post) SetLikeCount(count int)      { p.likeCount = count }
func (p *Post) SetLikedByViewer(liked bool) { p.likedByViewer = liked }
func (p *Post) SetCreatedAt(t time.Time)    { p.createdAt = t }
func (p *Post) SetUpdatedAt(t time.Time)    { p.updatedAt = t }
func (p *Post) SetDeletedAt(t *time.Time)   { p.deletedAt = t }

// Validate checks required fields before persistence.
func (p *Post) Validate() error {
	if p.authorID == "" {
		return fmt.Errorf("author id is required")
	}
	if p.content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}
