package model

import (
	"testing"
)

func TestTrackTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		task := &TrackTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestTrackTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		output   string
		url      string
		expected string
	}{
		{"Track Title", "", "https://music.youtube.com/watch?v=123", "Track Title"},
		{"", "", "https://music.youtube.com/watch?v=123", "https://music.youtube.com/watch?v=123"},
		{"", "/music/Some Track.opus", "https://music.youtube.com/watch?v=123", "Some Track"},
		{"http://not-a-title", "", "https://music.youtube.com/watch?v=456", "https://music.youtube.com/watch?v=456"},
	}

	for _, test := range tests {
		task := &TrackTask{
			Metadata:   TrackMetadata{Title: test.title},
			OutputPath: test.output,
			URL:        test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title=%q, output=%q = %q, expected %q",
				test.title, test.output, result, test.expected)
		}
	}
}

func TestTrackMetadata_Date(t *testing.T) {
	tests := []struct {
		year     string
		date     string
		expected string
	}{
		{"2021", "20210506", "2021"},
		{"", "20210506", "20210506"},
		{"", "", ""},
	}

	for _, test := range tests {
		m := TrackMetadata{ReleaseYear: test.year, ReleaseDate: test.date}
		if result := m.Date(); result != test.expected {
			t.Errorf("Date() with year=%q date=%q = %q, expected %q", test.year, test.date, result, test.expected)
		}
	}
}

func TestPlaylist_Progress(t *testing.T) {
	p := NewPlaylist("https://music.youtube.com/playlist?list=PL123")
	if p.Progress() != 0 {
		t.Errorf("empty playlist progress = %v, expected 0", p.Progress())
	}

	p.AddEntry(PlaylistEntry{VideoID: "a", Title: "One"})
	p.AddEntry(PlaylistEntry{VideoID: "b", Title: "Two"})
	p.Downloaded = 1

	if got := p.Progress(); got != 50 {
		t.Errorf("playlist progress = %v, expected 50", got)
	}
	if p.Total() != 2 {
		t.Errorf("playlist total = %d, expected 2", p.Total())
	}
}
