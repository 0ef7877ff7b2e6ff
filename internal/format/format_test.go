package format

import (
	"strings"
	"testing"

	"github.com/artcast/artcast/internal/content"
	"github.com/artcast/artcast/internal/schedule"
)

func TestArtistRendering(t *testing.T) {
	rec := &content.Record{
		Kind:       schedule.FetchArtist,
		Name:       "Ana <3",
		Handle:     "@ana",
		Bio:        "paints dawns",
		Followers:  12,
		ProfileURL: "https://m/ana",
	}

	md, err := Text(rec, schedule.PlatformDiscord)
	if err != nil {
		t.Fatalf("discord render: %v", err)
	}
	if !strings.Contains(md, "**Ana <3**") || !strings.Contains(md, "paints dawns") {
		t.Errorf("unexpected markdown: %q", md)
	}

	tg, err := Text(rec, schedule.PlatformTelegram)
	if err != nil {
		t.Fatalf("telegram render: %v", err)
	}
	if !strings.Contains(tg, "<b>Ana &lt;3</b>") {
		t.Errorf("telegram render must escape HTML: %q", tg)
	}
	if !strings.Contains(tg, `<a href="https://m/ana">`) {
		t.Errorf("telegram render missing profile link: %q", tg)
	}
}

func TestListingRendering(t *testing.T) {
	rec := &content.Record{
		Kind:       schedule.FetchNFT,
		Title:      "Dawn #4",
		Collection: "Dawns",
		Price:      "0.8",
		Currency:   "ETH",
		ListingURL: "https://m/4",
	}

	md, err := Text(rec, schedule.PlatformDiscord)
	if err != nil {
		t.Fatalf("discord render: %v", err)
	}
	for _, want := range []string{"**Dawn #4**", "Dawns", "0.8 ETH", "https://m/4"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q: %q", want, md)
		}
	}
}

func TestTextErrors(t *testing.T) {
	if _, err := Text(nil, schedule.PlatformDiscord); err == nil {
		t.Error("nil record should error")
	}
	if _, err := Text(&content.Record{Kind: "weather"}, schedule.PlatformDiscord); err == nil {
		t.Error("unknown kind should error")
	}
}
