// package formatter renders playlists to plain text, Markdown, CSV and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Format names an output format.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "md"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat accepts "text", "md"/"markdown", "csv" and "json". An empty string is text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "md", "markdown":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Listing is a titled track list with optional favorite markers.
type Listing struct {
	Title  string
	Tracks []models.Track
	// IsFavorite marks favorite rows when set.
	IsFavorite func(id string) bool
}

func (l Listing) favorite(id string) bool {
	return l.IsFavorite != nil && l.IsFavorite(id)
}

// CoverURL returns the first track cover in the listing.
func (l Listing) CoverURL() string {
	for _, t := range l.Tracks {
		if t.Album.CoverURL != "" {
			return t.Album.CoverURL
		}
	}
	return ""
}

// TotalDuration sums track durations.
func (l Listing) TotalDuration() time.Duration {
	var total int
	for _, t := range l.Tracks {
		total += t.DurationMs
	}
	return time.Duration(total) * time.Millisecond
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Export renders listing in format.
func Export(listing Listing, format Format) ([]byte, error) {
	switch format {
	case Text:
		return ExportToText(listing)
	case Markdown:
		return ExportToMarkdown(listing, "")
	case CSV:
		return ExportToCSV(listing)
	case JSON:
		return ExportToJSON(listing)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// Render writes listing to w in format.
func Render(w io.Writer, listing Listing, format Format) error {
	data, err := Export(listing, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ExportToCSV converts a listing to CSV with columns: ID, Title, Artists, Album, Released, Duration, Popularity, Favorite
func ExportToCSV(listing Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "Released", "Duration", "Popularity", "Favorite"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range listing.Tracks {
		record := []string{
			track.ID,
			track.Name,
			track.ArtistNames(),
			track.Album.Name,
			track.Album.ReleaseDate,
			FormatDuration(track.DurationMs),
			strconv.Itoa(track.Popularity),
			strconv.FormatBool(listing.favorite(track.ID)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a listing to Markdown with an optional cover image
func ExportToMarkdown(listing Listing, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", listing.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(listing.Tracks))
	fmt.Fprintf(&buf, "**Length**: %s\n\n", listing.TotalDuration().Round(time.Second))

	buf.WriteString("## Tracks\n\n")
	for i, track := range listing.Tracks {
		star := ""
		if listing.favorite(track.ID) {
			star = " ★"
		}
		albumPart := ""
		if track.Album.Name != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album.Name)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]%s\n", i+1, track.ArtistNames(), track.Name, albumPart, FormatDuration(track.DurationMs), star)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a listing to plain text
func ExportToText(listing Listing) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", listing.Title)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(listing.Tracks))

	for i, track := range listing.Tracks {
		marker := " "
		if listing.favorite(track.ID) {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s %2d. %s - %s [%s] (%s)\n", marker, i+1, track.ArtistNames(), track.Name, FormatDuration(track.DurationMs), track.ID)
	}

	return buf.Bytes(), nil
}

type jsonTrack struct {
	models.Track
	Favorite bool `json:"favorite"`
}

type jsonListing struct {
	Title  string      `json:"title"`
	Count  int         `json:"count"`
	Tracks []jsonTrack `json:"tracks"`
}

// ExportToJSON converts a listing to indented JSON
func ExportToJSON(listing Listing) ([]byte, error) {
	out := jsonListing{Title: listing.Title, Count: len(listing.Tracks), Tracks: make([]jsonTrack, 0, len(listing.Tracks))}
	for _, t := range listing.Tracks {
		out.Tracks = append(out.Tracks, jsonTrack{Track: t, Favorite: listing.favorite(t.ID)})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when the listing has a cover, {dir}/cover.jpg.
//
// A cover that fails to download is reported through warn and skipped.
func WriteMarkdownExport(listing Listing, outputDir string, client *http.Client, warn func(error)) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if url := listing.CoverURL(); url != "" {
		imageData, err := DownloadImage(client, url)
		if err == nil {
			coverPath := filepath.Join(outputDir, "cover.jpg")
			err = os.WriteFile(coverPath, imageData, 0644)
			if err == nil {
				coverImageFilename = "cover.jpg"
				result.CoverImage = coverPath
				result.Files = append(result.Files, coverPath)
			}
		}
		if err != nil && warn != nil {
			warn(fmt.Errorf("cover image skipped: %w", err))
		}
	}

	mdData, err := ExportToMarkdown(listing, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteExport writes listing in format to path.
func WriteExport(listing Listing, format Format, path string) error {
	data, err := Export(listing, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
