// Package format renders fetched records into platform-specific message text.
// Discord gets markdown; Telegram gets the HTML subset its parse mode accepts.
package format

import (
	"fmt"
	"html"
	"strings"

	"github.com/artcast/artcast/internal/content"
	"github.com/artcast/artcast/internal/schedule"
)

// Text renders rec for the given platform.
func Text(rec *content.Record, platform schedule.Platform) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("no record to render")
	}

	switch rec.Kind {
	case schedule.FetchArtist:
		if platform == schedule.PlatformTelegram {
			return artistHTML(rec), nil
		}
		return artistMarkdown(rec), nil
	case schedule.FetchNFT:
		if platform == schedule.PlatformTelegram {
			return listingHTML(rec), nil
		}
		return listingMarkdown(rec), nil
	default:
		return "", fmt.Errorf("unknown record kind %q", rec.Kind)
	}
}

func artistMarkdown(rec *content.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎨 **%s**", rec.Name)
	if rec.Handle != "" {
		fmt.Fprintf(&b, " (%s)", rec.Handle)
	}
	b.WriteString("\n")
	if rec.Bio != "" {
		fmt.Fprintf(&b, "%s\n", rec.Bio)
	}
	if rec.Followers > 0 {
		fmt.Fprintf(&b, "Followers: %d\n", rec.Followers)
	}
	if rec.ProfileURL != "" {
		b.WriteString(rec.ProfileURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func artistHTML(rec *content.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎨 <b>%s</b>", html.EscapeString(rec.Name))
	if rec.Handle != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(rec.Handle))
	}
	b.WriteString("\n")
	if rec.Bio != "" {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(rec.Bio))
	}
	if rec.Followers > 0 {
		fmt.Fprintf(&b, "Followers: %d\n", rec.Followers)
	}
	if rec.ProfileURL != "" {
		fmt.Fprintf(&b, `<a href="%s">Profile</a>`, rec.ProfileURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listingMarkdown(rec *content.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🖼 **%s**", rec.Title)
	if rec.Collection != "" {
		fmt.Fprintf(&b, " — %s", rec.Collection)
	}
	b.WriteString("\n")
	if rec.Price != "" {
		fmt.Fprintf(&b, "Price: %s %s\n", rec.Price, rec.Currency)
	}
	if rec.Seller != "" {
		fmt.Fprintf(&b, "Seller: %s\n", rec.Seller)
	}
	if rec.ListingURL != "" {
		b.WriteString(rec.ListingURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listingHTML(rec *content.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🖼 <b>%s</b>", html.EscapeString(rec.Title))
	if rec.Collection != "" {
		fmt.Fprintf(&b, " — %s", html.EscapeString(rec.Collection))
	}
	b.WriteString("\n")
	if rec.Price != "" {
		fmt.Fprintf(&b, "Price: %s %s\n", html.EscapeString(rec.Price), html.EscapeString(rec.Currency))
	}
	if rec.Seller != "" {
		fmt.Fprintf(&b, "Seller: %s\n", html.EscapeString(rec.Seller))
	}
	if rec.ListingURL != "" {
		fmt.Fprintf(&b, `<a href="%s">View listing</a>`, rec.ListingURL)
	}
	return strings.TrimRight(b.String(), "\n")
}
