package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

const (
	facultyCacheTTL     = 12 * time.Hour
	facultyFetchTimeout = 15 * time.Second
	facultyRange        = "Faculty!A2:E"
)

var ErrSheetsNotConfigured = errors.New("faculty directory not configured")

// FacultyService reads the professor directory from a Google Sheet. Results
// are cached in Redis for 12h; on fetch failure the last successful result
// is served stale rather than erroring out.
type FacultyService struct {
	mu       sync.RWMutex
	lastGood map[string][]models.Professor // campus -> rows
	sheetID  string
	apiKey   string
}

func NewFacultyService() *FacultyService {
	cfg := config.AppConfig
	return &FacultyService{
		lastGood: make(map[string][]models.Professor),
		sheetID:  cfg.FacultySheetID,
		apiKey:   cfg.SheetsAPIKey,
	}
}

// Professors returns the directory rows for one campus.
func (s *FacultyService) Professors(ctx context.Context, campus string) ([]models.Professor, error) {
	if s.sheetID == "" || s.apiKey == "" {
		return nil, ErrSheetsNotConfigured
	}

	campus = strings.ToUpper(strings.TrimSpace(campus))
	cacheKey := "faculty:" + campus

	var cached []models.Professor
	if err := database.CacheGet(cacheKey, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	profs, err := s.fetch(ctx, campus)
	if err != nil {
		logger.Error().Err(err).Str("campus", campus).Msg("Faculty sheet fetch failed")
		s.mu.RLock()
		stale, ok := s.lastGood[campus]
		s.mu.RUnlock()
		if ok {
			return stale, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.lastGood[campus] = profs
	s.mu.Unlock()

	_ = database.CacheSet(cacheKey, profs, facultyCacheTTL)
	return profs, nil
}

func (s *FacultyService) fetch(ctx context.Context, campus string) ([]models.Professor, error) {
	ctx, cancel := context.WithTimeout(ctx, facultyFetchTimeout)
	defer cancel()

	svc, err := sheets.NewService(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(s.sheetID, facultyRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets read: %w", err)
	}

	var profs []models.Professor
	for _, row := range resp.Values {
		p := models.Professor{
			Name:       cell(row, 0),
			Campus:     strings.ToUpper(cell(row, 1)),
			Department: cell(row, 2),
			Email:      cell(row, 3),
			Profile:    cell(row, 4),
		}
		if p.Name == "" {
			continue
		}
		if campus == "" || p.Campus == campus {
			profs = append(profs, p)
		}
	}
	return profs, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}
