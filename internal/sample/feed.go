// Package sample bundles the static demo dataset served when the store is
// unreachable. Sample data is never merged with live data in the same view.
package sample

import (
	"time"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
)

// Feed returns the bundled confession feed, timestamped relative to now so
// clients render plausible ages and expiries.
func Feed(now time.Time) []dto.ConfessionResponse {
	posts := []struct {
		id        uint
		content   string
		tag       string
		roast     string
		reactions map[string]int64
		poll      map[string]int64
		age       time.Duration
	}{
		{
			id:      1,
			content: "My boyfriend keeps 'forgetting' to introduce me to his friends after 8 months of dating. When I brought it up, he said I'm being too clingy. Am I overreacting?",
			tag:     "#RedFlag",
			roast:   "His memory works fine when he wants to hide you. Maybe he 'forgot' he's in a relationship too?",
			reactions: map[string]int64{
				models.ReactionLaugh: 342, models.ReactionSkull: 128,
				models.ReactionShocked: 89, models.ReactionCry: 67,
			},
			poll: map[string]int64{models.PollYou: 274, models.PollThem: 972, models.PollBoth: 0},
			age:  2 * time.Hour,
		},
		{
			id:      2,
			content: "I spent $300 on concert tickets for my girlfriend's birthday. She said she'd rather have gotten jewelry instead and seemed disappointed. Should I be upset?",
			tag:     "#Ungrateful",
			roast:   "Congrats on buying yourself concert tickets with extra steps. Next time try asking what she wants instead of guessing.",
			reactions: map[string]int64{
				models.ReactionLaugh: 217, models.ReactionSkull: 89,
				models.ReactionShocked: 64, models.ReactionCry: 156,
			},
			poll: map[string]int64{models.PollYou: 312, models.PollThem: 375, models.PollBoth: 205},
			age:  4 * time.Hour,
		},
		{
			id:      3,
			content: "My roommate keeps eating my food without asking and denies it when confronted. I've started labeling everything but it still disappears. What should I do?",
			tag:     "#Boundaries",
			roast:   "Time to spice things up – literally. Ghost pepper hot sauce makes a great food detective. What disappears today will burn tomorrow.",
			reactions: map[string]int64{
				models.ReactionLaugh: 423, models.ReactionSkull: 67,
				models.ReactionShocked: 176, models.ReactionCry: 89,
			},
			poll: map[string]int64{models.PollYou: 188, models.PollThem: 1379, models.PollBoth: 0},
			age:  6 * time.Hour,
		},
		{
			id:      4,
			content: "I found out my best friend has been secretly dating my ex for 3 months. They both claim it 'just happened' and they didn't want to hurt me. Should I forgive them?",
			tag:     "#Betrayal",
			roast:   "Things that 'just happen': rain, flat tires, hiccups. Things that don't: secretly dating your best friend's ex for a quarter of a year. Upgrade your friend circle, not your forgiveness policy.",
			reactions: map[string]int64{
				models.ReactionLaugh: 156, models.ReactionSkull: 347,
				models.ReactionShocked: 219, models.ReactionCry: 289,
			},
			poll: map[string]int64{models.PollYou: 105, models.PollThem: 589, models.PollBoth: 1409},
			age:  8 * time.Hour,
		},
	}

	out := make([]dto.ConfessionResponse, 0, len(posts))
	for _, post := range posts {
		createdAt := now.Add(-post.age)
		out = append(out, dto.ConfessionResponse{
			ID:        post.id,
			Content:   post.content,
			Tag:       post.tag,
			Roast:     post.roast,
			Reactions: post.reactions,
			Poll:      post.poll,
			CreatedAt: createdAt,
			ExpiresAt: models.ExpiryFrom(createdAt),
		})
	}

	return out
}
