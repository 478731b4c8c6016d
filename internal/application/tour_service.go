package application

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/helpers"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// TourService owns the tour catalog: CRUD, list queries, cover image
// storage and full-text search. Rating fields are read-only here; they
// belong to ReviewService.
type TourService struct {
	Tours        repository.TourRepository
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESToursIndex string
	Logger       *logrus.Logger
}

func NewTourService(tours repository.TourRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esToursIndex string, logger *logrus.Logger) *TourService {
	return &TourService{
		Tours:        tours,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		ES:           es,
		ESToursIndex: esToursIndex,
		Logger:       logger,
	}
}

type TourInput struct {
	Name         string
	Duration     int
	MaxGroupSize int
	Difficulty   string
	Price        float64
	Summary      string
	Description  string
	ImageCover   string
	// StartDates replaces the whole departure schedule when non-nil.
	StartDates []time.Time
}

func (s *TourService) CreateTour(ctx context.Context, in TourInput) (*entity.Tour, error) {
	t := &entity.Tour{
		Name:         in.Name,
		Slug:         helpers.Slugify(in.Name),
		Duration:     in.Duration,
		MaxGroupSize: in.MaxGroupSize,
		Difficulty:   in.Difficulty,
		Price:        in.Price,
		Summary:      in.Summary,
		Description:  in.Description,
		ImageCover:   in.ImageCover,
	}
	if err := s.Tours.Create(ctx, t); err != nil {
		return nil, err
	}
	if len(in.StartDates) > 0 {
		if err := s.Tours.ReplaceStartDates(ctx, t.ID, in.StartDates); err != nil {
			return nil, err
		}
		t.StartDates = in.StartDates
	}
	s.indexTour(ctx, t)
	return t, nil
}

func (s *TourService) GetTour(ctx context.Context, id string) (*entity.Tour, error) {
	t, err := s.Tours.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No tour found with that ID", err)
	}
	dates, err := s.Tours.GetStartDates(ctx, id)
	if err != nil {
		return nil, err
	}
	t.StartDates = dates
	return t, nil
}

func (s *TourService) ListTours(ctx context.Context, d query.Descriptor) ([]*entity.Tour, error) {
	return s.Tours.List(ctx, d)
}

func (s *TourService) UpdateTour(ctx context.Context, id string, in TourInput) (*entity.Tour, error) {
	t, err := s.Tours.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No tour found with that ID", err)
	}
	if in.Name != "" {
		t.Name = in.Name
		t.Slug = helpers.Slugify(in.Name)
	}
	if in.Duration != 0 {
		t.Duration = in.Duration
	}
	if in.MaxGroupSize != 0 {
		t.MaxGroupSize = in.MaxGroupSize
	}
	if in.Difficulty != "" {
		t.Difficulty = in.Difficulty
	}
	if in.Price != 0 {
		t.Price = in.Price
	}
	if in.Summary != "" {
		t.Summary = in.Summary
	}
	if in.Description != "" {
		t.Description = in.Description
	}
	if err := s.Tours.Update(ctx, t); err != nil {
		return nil, err
	}
	if in.StartDates != nil {
		if err := s.Tours.ReplaceStartDates(ctx, t.ID, in.StartDates); err != nil {
			return nil, err
		}
		t.StartDates = in.StartDates
	}
	s.indexTour(ctx, t)
	return t, nil
}

func (s *TourService) DeleteTour(ctx context.Context, id string) error {
	if err := s.Tours.Delete(ctx, id); err != nil {
		return apperror.Wrap(apperror.KindNotFound, "No tour found with that ID", err)
	}
	return nil
}

// TourStats returns the per-difficulty aggregation over the well-rated
// part of the catalog.
func (s *TourService) TourStats(ctx context.Context) ([]entity.TourStats, error) {
	return s.Tours.Stats(ctx)
}

// MonthlyPlan returns the departure counts per month of a year, busiest
// month first.
func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlanEntry, error) {
	return s.Tours.MonthlyPlan(ctx, year)
}

// UploadCover stores a cover image in GCS and records its public URL.
func (s *TourService) UploadCover(ctx context.Context, tourID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperror.New(apperror.KindValidation, "image storage is not configured")
	}
	if _, err := s.Tours.GetByID(ctx, tourID); err != nil {
		return "", apperror.Wrap(apperror.KindNotFound, "No tour found with that ID", err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("covers", tourID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Tours.SetImageCover(ctx, tourID, url); err != nil {
		return "", err
	}
	return url, nil
}

// indexTour pushes the tour document to Elasticsearch, best effort; the
// catalog in Postgres stays the source of truth.
func (s *TourService) indexTour(ctx context.Context, t *entity.Tour) {
	if s.ES == nil || s.ESToursIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"slug":        t.Slug,
		"difficulty":  t.Difficulty,
		"price":       t.Price,
		"summary":     t.Summary,
		"description": t.Description,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESToursIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("tour_id", t.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("tour_id", t.ID).Warn("es index response error")
	}
}

// SearchTours performs a multi_match search over name, summary and
// description.
func (s *TourService) SearchTours(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESToursIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESToursIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
