// Package feed builds the view-ready post list. It only reads the collections
// it is given.
package feed

import (
	"bytes"
	"html"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
)

// UnknownAuthor is shown when a post's author resolves to no ambassador or user.
const UnknownAuthor = "Unknown"

// Aggregator renders descriptions as sanitized HTML and annotates posts.
type Aggregator struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewAggregator() *Aggregator {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &Aggregator{md: md, policy: policy}
}

// RenderDescription converts markdown to HTML with user-content sanitizing.
// On a conversion failure the escaped source is returned.
func (a *Aggregator) RenderDescription(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := a.md.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return string(a.policy.SanitizeBytes(buf.Bytes()))
}

// List returns every post, newest first with ties broken by id, annotated for
// viewerID. An empty viewerID never counts as having voted.
func (a *Aggregator) List(c *store.Collections, viewerID string) []ports.FeedItem {
	voteCounts := make(map[string]int, len(c.Posts))
	viewerVoted := make(map[string]bool)
	for _, v := range c.Votes {
		voteCounts[v.PostID]++
		if viewerID != "" && v.VoterID == viewerID {
			viewerVoted[v.PostID] = true
		}
	}
	commentCounts := make(map[string]int, len(c.Posts))
	for _, cm := range c.Comments {
		commentCounts[cm.PostID]++
	}

	items := make([]ports.FeedItem, 0, len(c.Posts))
	for _, p := range c.Posts {
		item := ports.FeedItem{
			PostID:          p.ID,
			Title:           p.Title,
			Description:     p.Description,
			DescriptionHTML: a.RenderDescription(p.Description),
			Image:           p.Image,
			CreatedAt:       p.CreatedAt,
			AuthorID:        p.AuthorID,
			AuthorName:      UnknownAuthor,
			VoteCount:       voteCounts[p.ID],
			ViewerHasVoted:  viewerVoted[p.ID],
			CommentCount:    commentCounts[p.ID],
		}
		if amb := c.Ambassador(p.AuthorID); amb != nil {
			item.AuthorName = amb.DisplayName
			item.AuthorWallet = amb.WalletAddress
		} else if u := c.User(p.AuthorID); u != nil {
			item.AuthorName = u.DisplayName
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].PostID < items[j].PostID
	})
	return items
}
