package status

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"show-status/internal/cache"
	"show-status/internal/common/logging"
)

// ShowUpdate is one watchlist entry submitted for a briefing.
type ShowUpdate struct {
	Title       string `json:"title"`
	NextAirDate string `json:"nextAirDate"`
}

// Briefing fallback texts. The briefing endpoint never fails; the worst case
// is one of these instead of generated copy.
const (
	briefingNoShows     = "No upcoming shows found."
	briefingQuiet       = "It's quiet for now. Nothing on your list is airing in the next 30 days."
	briefingBadDates    = "Unable to calculate dates."
	briefingUnavailable = "Your shows are coming back soon! Check the list below."
)

const briefingSystem = "You are a hype-man for TV shows."

// Briefings classify as non-terminal, so they live in the fast tier only:
// a briefing is stale the moment the date window moves.
const briefingClassification = "briefing"

const dateLayout = "2006-01-02"

type upcomingShow struct {
	title    string
	airDate  time.Time
	daysDiff int
}

// GenerateBriefing produces a short "morning briefing" for the shows airing
// within the next 30 days. Briefings are cached under a composite key over
// the selected titles plus the user's date, so the same watchlist on the
// same day reuses one generation.
func (s *Service) GenerateBriefing(ctx context.Context, updates []ShowUpdate, userDate string) (string, bool) {
	if len(updates) == 0 {
		return briefingNoShows, false
	}

	if userDate == "" {
		userDate = s.now().Format(dateLayout)
	}
	parsedUserDate, err := time.Parse(dateLayout, userDate)
	if err != nil {
		return briefingBadDates, false
	}

	shows := upcomingShows(updates, parsedUserDate)
	if len(shows) == 0 {
		return briefingQuiet, false
	}
	if len(shows) > 5 {
		shows = shows[:5]
	}

	titles := make([]string, len(shows))
	for i, show := range shows {
		titles[i] = show.title
	}
	key := cache.DeriveCompositeKey(titles, userDate)

	if payload, status := s.cache.Lookup(ctx, key); status.Found() {
		var cached struct {
			Briefing string `json:"briefing"`
		}
		if err := json.Unmarshal(payload, &cached); err == nil && cached.Briefing != "" {
			return cached.Briefing, true
		}
	}

	briefing, err := s.model.Complete(ctx, briefingSystem, briefingPrompt(shows, userDate), 150, 0.7)
	if err != nil || briefing == "" {
		s.logger.Warn("briefing generation failed", logging.Err(err))
		return briefingUnavailable, false
	}

	if payload, err := json.Marshal(map[string]string{"briefing": briefing}); err == nil {
		s.cache.Populate(ctx, key, payload, briefingClassification)
	}

	return briefing, false
}

// upcomingShows keeps entries airing between yesterday and 30 days out,
// sorted soonest first. Entries with missing or invalid dates are skipped.
func upcomingShows(updates []ShowUpdate, userDate time.Time) []upcomingShow {
	shows := make([]upcomingShow, 0, len(updates))
	for _, u := range updates {
		if u.Title == "" || u.NextAirDate == "" {
			continue
		}
		airDate, err := time.Parse(dateLayout, u.NextAirDate)
		if err != nil {
			continue
		}

		days := int(airDate.Sub(userDate).Hours() / 24)
		if days >= -1 && days <= 30 {
			shows = append(shows, upcomingShow{title: u.Title, airDate: airDate, daysDiff: days})
		}
	}

	sort.Slice(shows, func(i, j int) bool {
		return shows[i].airDate.Before(shows[j].airDate)
	})

	return shows
}

func briefingPrompt(shows []upcomingShow, userDate string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user tracks these TV shows which are airing very soon (Today is %s):\n", userDate)
	for _, show := range shows {
		fmt.Fprintf(&b, "- %s (%s)\n", show.title, relativeDate(show))
	}
	b.WriteString(`
Write a short, high-energy "Morning Briefing" (2-3 sentences max).
- Prioritize the shows airing TODAY or TOMORROW if any.
- Be conversational (e.g., "Clear your schedule for tonight", "The wait is finally over").
- Mention specific show names.
- Ignore shows that are weeks away unless there is nothing else.`)

	return b.String()
}

func relativeDate(show upcomingShow) string {
	switch {
	case show.daysDiff <= 0:
		return "TODAY"
	case show.daysDiff == 1:
		return "Tomorrow"
	case show.daysDiff < 7:
		return "this " + show.airDate.Weekday().String()
	default:
		return "on " + show.airDate.Format("Jan 02")
	}
}
