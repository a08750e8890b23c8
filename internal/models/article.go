package models

import (
	"fmt"
	"time"
)

// ArticleCategories is the fixed set of categories an article may belong to.
var ArticleCategories = []string{
	"Music News",
	"Artist Spotlight",
	"Industry Trends",
	"Reviews",
	"Tutorials",
}

// Article is a blog entry written by a user.
type Article struct {
	id         string
	sequence   int
	authorID   string
	authorName string
	title      string
	summary    string
	content    string
	category   string
	tags       []string
	viewCount  int
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewArticle creates an article for the given author.
func NewArticle(sequence int, authorID, title, summary, content, category string) *Article {
	now := time.Now()
	return &Article{
		sequence:  sequence,
		authorID:  authorID,
		title:     title,
		summary:   summary,
		content:   content,
		category:  category,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Article) ID() string            { return a.id }
func (a *Article) Sequence() int         { return a.sequence }
func (a *Article) AuthorID() string      { return a.authorID }
func (a *Article) AuthorName() string    { return a.authorName }
func (a *Article) Title() string         { return a.title }
func (a *Article) Summary() string       { return a.summary }
func (a *Article) Content() string       { return a.content }
func (a *Article) Category() string      { return a.category }
func (a *Article) Tags() []string        { return a.tags }
func (a *Article) ViewCount() int        { return a.viewCount }
func (a *Article) CreatedAt() time.Time  { return a.createdAt }
func (a *Article) UpdatedAt() time.Time  { return a.updatedAt }
func (a *Article) DeletedAt() *time.Time { return a.deletedAt }

func (a *Article) SetID(id string)           { a.id = id }
func (a *Article) SetAuthorName(name string) { a.authorName = name }
func (a *Article) SetTitle(title string)     { a.title = title }
func (a *Article) SetSummary(summary string) { a.summary = summary }
func (a *Article) SetContent(content string) { a.content = content }
func (a *Article) SetCategory(c string)      { a.category = c }
func (a *Article) SetTags(tags []string)     { a.tags = tags }
func (a *Article) SetViewCount(count int)    { a.viewCount = count }
func (a *Article) SetCreatedAt(t time.Time)  { a.createdAt = t }
func (a *Article) SetUpdatedAt(t time.Time)  { a.updatedAt = t }
func (a *Article) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// Validate checks required fields and that the category is one of the known set.
func (a *Article) Validate() error {
	if a.authorID == "" {
		return fmt.Errorf("author id is required")
	}
	if a.title == "" || a.summary == "" || a.content == "" {
		return fmt.Errorf("title, summary and content are required")
	}
	for _, category := range ArticleCategories {
		if a.category == category {
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", a.category)
}
