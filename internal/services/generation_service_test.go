package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aristath/marketcal/internal/ical"
	"github.com/aristath/marketcal/internal/modules/artifacts"
	"github.com/aristath/marketcal/internal/modules/market_calendar"
	testingpkg "github.com/aristath/marketcal/internal/testing"
)

// MockArtifactStore is a mock archive for testing
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Save(ctx context.Context, a *artifacts.Artifact) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = "artifact-1"
	}
	return args.Error(0)
}

func (m *MockArtifactStore) MarkPublished(ctx context.Context, id, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

// MockPublisher is a mock bucket publisher for testing
type MockPublisher struct {
	mock.Mock
	body string
}

func (m *MockPublisher) Publish(ctx context.Context, name string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	m.body = string(data)
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func newTestService(t *testing.T, outputDir string, store ArtifactStore, pub *MockPublisher) *GenerationService {
	t.Helper()
	s := NewGenerationService(market_calendar.DefaultTables, outputDir, ical.StyleReference, store, nil, zerolog.Nop())
	if pub != nil {
		s.publisher = pub
	}
	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "us_stock_market_calendar_2025.ics", OutputFileName(2025))
}

func TestGenerationService_Render(t *testing.T) {
	s := newTestService(t, t.TempDir(), nil, nil)

	rendered, err := s.Render()
	require.NoError(t, err)

	assert.Equal(t, 2025, rendered.Tables.Year)
	assert.Len(t, rendered.Events, 263)
	assert.Equal(t, 263, rendered.Counts.Total())

	body := string(rendered.Body)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR\nVERSION:2.0\n"))
	assert.True(t, strings.HasSuffix(body, "\nEND:VCALENDAR"))
	assert.Equal(t, 263, strings.Count(body, "BEGIN:VEVENT"))
}

func TestGenerationService_GenerateToFile(t *testing.T) {
	dir := t.TempDir()
	s := newTestService(t, dir, nil, nil)

	result, err := s.GenerateToFile(context.Background())
	require.NoError(t, err)

	expectedPath := filepath.Join(dir, "us_stock_market_calendar_2025.ics")
	assert.Equal(t, expectedPath, result.Path)

	data, err := os.ReadFile(expectedPath)
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), result.SHA256)
	assert.Equal(t, int64(len(data)), result.SizeBytes)
	assert.Equal(t, 263, result.Counts.Total())
	assert.Empty(t, result.ArtifactID)
	assert.Empty(t, result.PublishedKey)
}

func TestGenerationService_GenerateToFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, OutputFileName(2025))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale ", 100000)), 0644))

	s := newTestService(t, dir, nil, nil)
	result, err := s.GenerateToFile(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, result.SizeBytes, int64(len(data)))
	assert.NotContains(t, string(data), "stale")
}

func TestGenerationService_GenerateToFile_WriteError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	s := newTestService(t, missing, nil, nil)

	_, err := s.GenerateToFile(context.Background())
	require.Error(t, err)

	var writeErr *market_calendar.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, filepath.Join(missing, OutputFileName(2025)), writeErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerationService_GenerateToFile_InvalidTables(t *testing.T) {
	loader := func() (*market_calendar.Tables, error) {
		return testingpkg.NewCollidingTablesFixture(t), nil
	}
	dir := t.TempDir()
	s := NewGenerationService(loader, dir, ical.StyleReference, nil, nil, zerolog.Nop())

	_, err := s.GenerateToFile(context.Background())
	var cfgErr *market_calendar.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	// Nothing is written for invalid tables
	_, statErr := os.Stat(filepath.Join(dir, OutputFileName(2025)))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerationService_ArchiveAndPublish(t *testing.T) {
	store := new(MockArtifactStore)
	pub := new(MockPublisher)

	store.On("Save", mock.Anything, mock.MatchedBy(func(a *artifacts.Artifact) bool {
		return a.Year == 2025 && a.Style == "reference" && len(a.Events) == 263 && a.SHA256 != ""
	})).Return(nil)
	pub.On("Publish", mock.Anything, "us_stock_market_calendar_2025.ics").Return("feeds/us_stock_market_calendar_2025.ics", nil)
	store.On("MarkPublished", mock.Anything, "artifact-1", "feeds/us_stock_market_calendar_2025.ics").Return(nil)

	s := newTestService(t, t.TempDir(), store, pub)
	result, err := s.GenerateToFile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "artifact-1", result.ArtifactID)
	assert.Equal(t, "feeds/us_stock_market_calendar_2025.ics", result.PublishedKey)
	assert.True(t, strings.HasPrefix(pub.body, "BEGIN:VCALENDAR"))

	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestGenerationService_ArchiveFailure(t *testing.T) {
	store := new(MockArtifactStore)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	dir := t.TempDir()
	s := newTestService(t, dir, store, nil)

	result, err := s.GenerateToFile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// The calendar file is still on disk
	require.NotNil(t, result)
	_, statErr := os.Stat(result.Path)
	assert.NoError(t, statErr)
}

func TestGenerationService_PublishFailure(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return("", errors.New("access denied"))

	s := newTestService(t, t.TempDir(), nil, pub)

	_, err := s.GenerateToFile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestGenerationService_CustomYear(t *testing.T) {
	loader := func() (*market_calendar.Tables, error) {
		return testingpkg.NewMinimalTablesFixture(), nil
	}
	dir := t.TempDir()
	s := NewGenerationService(loader, dir, ical.StyleStrict, nil, nil, zerolog.Nop())

	result, err := s.GenerateToFile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "us_stock_market_calendar_2026.ics"), result.Path)
	assert.Equal(t, 263, result.Counts.Total())

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "X-WR-CALNAME:US Stock Market Schedule 2026\r\n")
	assert.Contains(t, string(data), "DTSTAMP:20250101T000000Z")
}
