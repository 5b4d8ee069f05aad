// package formatter provides functions to export favorite movies to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// FavoritesExport is a user's favorite movies resolved against the catalog.
type FavoritesExport struct {
	User       models.User
	Movies     models.Movies
	ExportedAt time.Time
}

// NewFavoritesExport keeps the catalog movies whose identifiers are in the user's favorites.
func NewFavoritesExport(user models.User, catalog models.Movies) *FavoritesExport {
	return &FavoritesExport{
		User:       user.Snapshot(),
		Movies:     catalog.Filter(user.FavoriteMovies),
		ExportedAt: time.Now().UTC(),
	}
}

// ExportToCSV converts a FavoritesExport to CSV format with columns: ID, Title, Genre, Director, Featured, ImagePath
func ExportToCSV(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Director", "Featured", "ImagePath"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Genre.Name,
			movie.Director.Name,
			strconv.FormatBool(movie.Featured),
			movie.ImagePath,
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

// ExportToMarkdown converts a FavoritesExport to Markdown format with an optional poster image
func ExportToMarkdown(export *FavoritesExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s's favorite movies\n\n", export.User.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Movies**: %d\n", len(export.Movies))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339))
	}
	buf.WriteString("\n## Movies\n\n")

	for i, movie := range export.Movies {
		fmt.Fprintf(&buf, "%d. **%s**", i+1, movie.Title)
		if movie.Genre.Name != "" {
			fmt.Fprintf(&buf, " (%s)", movie.Genre.Name)
		}
		if movie.Director.Name != "" {
			fmt.Fprintf(&buf, " - %s", movie.Director.Name)
		}
		buf.WriteString("\n")
		if movie.Description != "" {
			fmt.Fprintf(&buf, "   %s\n", movie.Description)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FavoritesExport to plain text format
func ExportToText(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "User: %s\n", export.User.Name)
	fmt.Fprintf(&buf, "Favorites: %d\n\n", len(export.Movies))

	for i, movie := range export.Movies {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, movie.Title, movie.Director.Name)
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
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

// ToMetadataJSON generates a JSON representation of the exported user profile (without movies)
func ToMetadataJSON(export *FavoritesExport) ([]byte, error) {
	return shared.MarshalJSON(struct {
		User       models.User `json:"user"`
		Count      int         `json:"count"`
		ExportedAt time.Time   `json:"exported_at"`
	}{export.User, len(export.Movies), export.ExportedAt}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports favorites to CSV format with accompanying metadata JSON file.
//
// Defaults to the username as the base filename & creates {base}_favorites.csv and {base}_metadata.json
func WriteCSVExport(export *FavoritesExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.User.Name
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_favorites.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Poster    string
	// Warnings lists non-fatal failures such as a poster that could not be fetched.
	Warnings []string
}

// WriteMarkdownExport exports favorites to Markdown format in a dedicated directory.
//
// Directory name defaults to "{username}_favorites". When posters is true the first favorite's
// ImagePath is downloaded with client. Creates {dir}/README.md and optionally {dir}/poster.jpg
func WriteMarkdownExport(export *FavoritesExport, outputDir string, client *http.Client, posters bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.User.Name + "_favorites"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var posterFilename string
	if posters && len(export.Movies) > 0 && export.Movies[0].ImagePath != "" {
		imageData, err := DownloadImage(client, export.Movies[0].ImagePath)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to download poster: %v", err))
		} else {
			posterFilename = "poster.jpg"
			posterPath := filepath.Join(outputDir, posterFilename)
			if err := os.WriteFile(posterPath, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to save poster: %v", err))
				posterFilename = ""
			} else {
				result.Poster = posterPath
				result.Files = append(result.Files, posterPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, posterFilename)
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

// WriteTextExport exports favorites to plain text format.
//
// Defaults to {username}_favorites.txt as the filename.
func WriteTextExport(export *FavoritesExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_favorites.txt", export.User.Name)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// ExportToJSON converts a FavoritesExport to indented JSON including the movies
func ExportToJSON(export *FavoritesExport) ([]byte, error) {
	return shared.MarshalJSON(struct {
		User       models.User   `json:"user"`
		Movies     models.Movies `json:"movies"`
		ExportedAt time.Time     `json:"exported_at"`
	}{export.User, export.Movies, export.ExportedAt}, true)
}

// WriteJSONExport exports favorites to a JSON file, defaulting to {username}_favorites.json.
func WriteJSONExport(export *FavoritesExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_favorites.json", export.User.Name)
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}
