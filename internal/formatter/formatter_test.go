package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	th "github.com/desertthunder/moodmix/internal/testing"
)

func testListing() Listing {
	return Listing{
		Title: "Seventies Jazz",
		Tracks: []models.Track{
			{
				ID:         "track1",
				Name:       "Song One",
				Artists:    []string{"Artist One", "Guest"},
				Album:      models.Album{Name: "Album One", ReleaseDate: "1972-03-01", CoverURL: "https://img/1.jpg"},
				DurationMs: 185000,
				Popularity: 61,
			},
			{
				ID:         "track2",
				Name:       "Song, Two",
				Artists:    []string{"Artist Two"},
				Album:      models.Album{Name: "Album Two", ReleaseDate: "1975"},
				DurationMs: 62000,
				Popularity: 45,
			},
		},
		IsFavorite: func(id string) bool { return id == "track2" },
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{ms: 0, want: "0:00"},
		{ms: 999, want: "0:00"},
		{ms: 62000, want: "1:02"},
		{ms: 185000, want: "3:05"},
		{ms: 3600000, want: "60:00"},
		{ms: -5, want: "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d): expected %s, got %s", tt.ms, tt.want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{in: "", want: Text},
		{in: "TEXT", want: Text},
		{in: "markdown", want: Markdown},
		{in: "md", want: Markdown},
		{in: "csv", want: CSV},
		{in: " json ", want: JSON},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q): expected %s, got %s (%v)", tt.in, tt.want, got, err)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testListing())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Artists,Album,Released,Duration,Popularity,Favorite" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][2] != "Artist One, Guest" || records[1][5] != "3:05" || records[1][7] != "false" {
			t.Errorf("unexpected first row %v", records[1])
		}
		if records[2][1] != "Song, Two" || records[2][7] != "true" {
			t.Errorf("unexpected second row %v", records[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testListing(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Seventies Jazz",
			"![Cover](cover.jpg)",
			"**Tracks**: 2",
			"**Length**: 4m7s",
			"1. Artist One, Guest - Song One (Album One) [3:05]\n",
			"2. Artist Two - Song, Two (Album Two) [1:02] ★",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Without Cover", func(t *testing.T) {
		data, err := ExportToMarkdown(testListing(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "![Cover]") {
			t.Error("expected no cover image")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testListing())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Seventies Jazz") || !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing header, got:\n%s", output)
		}
		if !strings.Contains(output, "   1. Artist One, Guest - Song One [3:05] (track1)") {
			t.Errorf("Text missing first track, got:\n%s", output)
		}
		if !strings.Contains(output, "*  2. Artist Two - Song, Two [1:02] (track2)") {
			t.Errorf("Text missing favorite marker, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testListing())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Title  string `json:"title"`
			Count  int    `json:"count"`
			Tracks []struct {
				ID       string `json:"id"`
				Favorite bool   `json:"favorite"`
				Album    struct {
					ReleaseDate string `json:"releaseDate"`
				} `json:"album"`
			} `json:"tracks"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to decode JSON: %v", err)
		}

		if decoded.Title != "Seventies Jazz" || decoded.Count != 2 || len(decoded.Tracks) != 2 {
			t.Fatalf("unexpected listing %+v", decoded)
		}
		if decoded.Tracks[0].Favorite || !decoded.Tracks[1].Favorite {
			t.Errorf("unexpected favorite flags %+v", decoded.Tracks)
		}
		if decoded.Tracks[0].Album.ReleaseDate != "1972-03-01" {
			t.Errorf("unexpected release date %s", decoded.Tracks[0].Album.ReleaseDate)
		}
	})

	t.Run("Empty Listing", func(t *testing.T) {
		for _, format := range []Format{Text, Markdown, CSV, JSON} {
			if _, err := Export(Listing{Title: "Empty"}, format); err != nil {
				t.Errorf("%s export of empty listing failed: %v", format, err)
			}
		}
	})

	t.Run("Render", func(t *testing.T) {
		var buf strings.Builder
		if err := Render(&buf, testListing(), CSV); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "ID,Title") {
			t.Errorf("expected CSV output, got %s", buf.String())
		}

		if err := Render(&th.FWriter{}, testListing(), Text); err == nil {
			t.Error("expected write error")
		}
		if err := Render(&buf, testListing(), Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlist.csv")
		if err := WriteExport(testListing(), CSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "track1") {
			t.Errorf("expected track1 in file, got %s", content)
		}
	})

	t.Run("WriteMarkdownExport With Cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		listing := testListing()
		listing.Tracks[0].Album.CoverURL = server.URL + "/cover"

		dir := filepath.Join(t.TempDir(), "export")
		result, err := WriteMarkdownExport(listing, dir, server.Client(), nil)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if len(result.Files) != 2 || result.CoverImage == "" {
			t.Fatalf("expected cover and README, got %+v", result)
		}
		if content := th.MustReadFile(t, filepath.Join(dir, "README.md")); !strings.Contains(content, "![Cover](cover.jpg)") {
			t.Errorf("expected cover reference, got %s", content)
		}
		if data, _ := os.ReadFile(result.CoverImage); string(data) != "jpeg-bytes" {
			t.Errorf("unexpected cover bytes %q", data)
		}
	})

	t.Run("WriteMarkdownExport Cover Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		listing := testListing()
		listing.Tracks[0].Album.CoverURL = server.URL + "/missing"

		var warned error
		result, err := WriteMarkdownExport(listing, t.TempDir(), server.Client(), func(err error) { warned = err })
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if warned == nil {
			t.Error("expected a warning for the missing cover")
		}
		if result.CoverImage != "" || len(result.Files) != 1 {
			t.Errorf("expected README only, got %+v", result)
		}
	})

	t.Run("DownloadImage Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(nil, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
