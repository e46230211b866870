// Package storage persists extraction results as CSV datasets. Every
// field is quoted. Files are written UTF-8 with a byte order mark so
// spreadsheet tools detect the encoding; if that fails, one fallback
// attempt is made in Latin-1 before the failure is reported.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"redditextract/pkg/logger"
	"redditextract/pkg/models"
	"redditextract/pkg/normalize"
)

// ErrNoRecords signals an empty record set; writing it is a no-op
var ErrNoRecords = errors.New("no records to write")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// postColumns is the post dataset header, in record field order, with
// the cleaned text columns appended.
var postColumns = []string{
	"post_id", "title", "text", "score", "upvote_ratio", "created_utc",
	"num_comments", "permalink", "subreddit", "author", "search_term",
	"title_length", "text_length", "total_length", "word_count",
	"has_url", "is_self", "is_video", "is_stickied", "domain",
	"title_clean", "text_clean",
}

// commentColumns is the comment dataset header
var commentColumns = []string{
	"comment_id", "post_id", "text", "score", "created_utc", "author",
	"is_submitter", "permalink", "text_length", "word_count", "has_url",
	"is_stickied", "depth", "controversiality", "text_clean",
}

const timestampLayout = "2006-01-02 15:04:05"

// Manager writes extraction datasets into an output directory
type Manager struct {
	outputDir string
	logger    logger.Logger
}

// NewManager creates a storage manager, creating the directory if needed
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{outputDir: outputDir, logger: log}, nil
}

// WritePosts writes the post dataset, returning the file path. The
// cleaned text columns are derived here, outside the extraction run.
func (m *Manager) WritePosts(posts []models.Post, suffix string) (string, error) {
	if len(posts) == 0 {
		m.logger.Warn("no post records to write")
		return "", ErrNoRecords
	}

	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			p.PostID,
			p.Title,
			p.Text,
			strconv.Itoa(p.Score),
			formatFloat(p.UpvoteRatio),
			p.CreatedUTC.Format(timestampLayout),
			strconv.Itoa(p.NumComments),
			p.Permalink,
			p.Subreddit,
			p.Author,
			p.SearchTerm,
			strconv.Itoa(p.TitleLength),
			strconv.Itoa(p.TextLength),
			strconv.Itoa(p.TotalLength),
			strconv.Itoa(p.WordCount),
			strconv.Itoa(p.HasURL),
			strconv.FormatBool(p.IsSelf),
			strconv.FormatBool(p.IsVideo),
			strconv.FormatBool(p.IsStickied),
			p.Domain,
			normalize.Clean(p.Title),
			normalize.Clean(p.Text),
		})
	}

	return m.writeDataset(datasetFilename("reddit_posts_data", suffix), postColumns, rows)
}

// WriteComments writes the comment dataset, returning the file path
func (m *Manager) WriteComments(comments []models.Comment, suffix string) (string, error) {
	if len(comments) == 0 {
		m.logger.Warn("no comment records to write")
		return "", ErrNoRecords
	}

	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{
			strconv.Itoa(c.CommentID),
			c.PostID,
			c.Text,
			strconv.Itoa(c.Score),
			c.CreatedUTC.Format(timestampLayout),
			c.Author,
			strconv.FormatBool(c.IsSubmitter),
			c.Permalink,
			strconv.Itoa(c.TextLength),
			strconv.Itoa(c.WordCount),
			strconv.Itoa(c.HasURL),
			strconv.FormatBool(c.IsStickied),
			strconv.Itoa(c.Depth),
			strconv.Itoa(c.Controversiality),
			normalize.Clean(c.Text),
		})
	}

	return m.writeDataset(datasetFilename("reddit_comments_data", suffix), commentColumns, rows)
}

// datasetFilename builds a dataset file name, with or without a suffix
func datasetFilename(stem, suffix string) string {
	if suffix == "" {
		return stem + ".csv"
	}
	return fmt.Sprintf("%s_%s.csv", stem, suffix)
}

// writeDataset renders and writes one dataset, falling back to Latin-1
// when the default encoding attempt fails.
func (m *Manager) writeDataset(filename string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(m.outputDir, filename)
	content := renderCSV(header, rows)

	if err := m.writeFile(path, append(append([]byte{}, utf8BOM...), content...)); err == nil {
		m.logger.InfoWithFields("dataset written", map[string]interface{}{
			"path": path,
			"rows": len(rows),
		})
		return path, nil
	} else {
		m.logger.WarnWithFields("write failed, retrying with fallback encoding", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("fallback encoding failed: %w", err)
	}
	if err := m.writeFile(path, encoded); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}

	m.logger.InfoWithFields("dataset written with fallback encoding", map[string]interface{}{
		"path": path,
		"rows": len(rows),
	})
	return path, nil
}

// writeFile writes data through a temp file and an atomic rename
func (m *Manager) writeFile(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// renderCSV renders rows with every field quoted
func renderCSV(header []string, rows [][]string) []byte {
	var b strings.Builder

	writeRow := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteString("\r\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}

	return []byte(b.String())
}

// formatFloat renders a float without trailing zero noise
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
