package application

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/query"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeUserRepo is an in-memory UserRepository mirroring the store's
// behavior: lookups skip deactivated accounts, missing rows are
// pgx.ErrNoRows, duplicate emails are a unique violation.
type fakeUserRepo struct {
	seq   int
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return &pgconn.PgError{Code: "23505", Detail: fmt.Sprintf("Key (email)=(%s) already exists.", u.Email)}
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.Active = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok || !u.Active {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, _ query.Descriptor) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		if u.Active {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	ex, ok := f.users[u.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ex.Name = u.Name
	ex.Email = u.Email
	ex.Role = u.Role
	ex.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Password = hash
	t := changedAt
	u.PasswordChangedAt = &t
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id, digest string, expires time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	d := digest
	e := expires
	u.PasswordResetToken = &d
	u.PasswordResetExpires = &e
	return nil
}

func (f *fakeUserRepo) ClearResetToken(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	return nil
}

func (f *fakeUserRepo) GetByResetDigest(_ context.Context, digest string, now time.Time) (*entity.User, error) {
	for _, u := range f.users {
		if u.Active && u.PasswordResetToken != nil && *u.PasswordResetToken == digest &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Active = false
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeTourRepo records UpdateRatingStats calls so tests can assert on the
// written summary. Start dates live in a side map like the child table.
type fakeTourRepo struct {
	seq        int
	tours      map[string]*entity.Tour
	startDates map[string][]time.Time
	statCalls  []statCall
}

type statCall struct {
	tourID   string
	quantity int
	average  float64
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: map[string]*entity.Tour{}, startDates: map[string][]time.Time{}}
}

func (f *fakeTourRepo) Create(_ context.Context, t *entity.Tour) error {
	f.seq++
	t.ID = fmt.Sprintf("tour-%d", f.seq)
	t.RatingsAverage = entity.DefaultRatingsAverage
	t.RatingsQuantity = entity.DefaultRatingsQuantity
	cp := *t
	f.tours[t.ID] = &cp
	return nil
}

func (f *fakeTourRepo) GetByID(_ context.Context, id string) (*entity.Tour, error) {
	t, ok := f.tours[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTourRepo) List(_ context.Context, _ query.Descriptor) ([]*entity.Tour, error) {
	out := make([]*entity.Tour, 0, len(f.tours))
	for _, t := range f.tours {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTourRepo) Update(_ context.Context, t *entity.Tour) error {
	if _, ok := f.tours[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *t
	f.tours[t.ID] = &cp
	return nil
}

func (f *fakeTourRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tours[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tours, id)
	delete(f.startDates, id)
	return nil
}

func (f *fakeTourRepo) UpdateRatingStats(_ context.Context, id string, quantity int, average float64) error {
	t, ok := f.tours[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.RatingsQuantity = quantity
	t.RatingsAverage = average
	f.statCalls = append(f.statCalls, statCall{tourID: id, quantity: quantity, average: average})
	return nil
}

func (f *fakeTourRepo) SetImageCover(_ context.Context, id, url string) error {
	t, ok := f.tours[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.ImageCover = url
	return nil
}

func (f *fakeTourRepo) ReplaceStartDates(_ context.Context, tourID string, dates []time.Time) error {
	if _, ok := f.tours[tourID]; !ok {
		return pgx.ErrNoRows
	}
	f.startDates[tourID] = append([]time.Time(nil), dates...)
	sort.Slice(f.startDates[tourID], func(i, j int) bool {
		return f.startDates[tourID][i].Before(f.startDates[tourID][j])
	})
	return nil
}

func (f *fakeTourRepo) GetStartDates(_ context.Context, tourID string) ([]time.Time, error) {
	return append([]time.Time(nil), f.startDates[tourID]...), nil
}

// Stats mirrors the store's per-difficulty aggregation, default rating
// filter included.
func (f *fakeTourRepo) Stats(_ context.Context) ([]entity.TourStats, error) {
	byDiff := map[string]*entity.TourStats{}
	for _, t := range f.tours {
		if t.RatingsAverage < entity.DefaultRatingsAverage {
			continue
		}
		key := strings.ToUpper(t.Difficulty)
		st, ok := byDiff[key]
		if !ok {
			st = &entity.TourStats{Difficulty: key, MinPrice: t.Price, MaxPrice: t.Price}
			byDiff[key] = st
		}
		st.NumTours++
		st.NumRatings += t.RatingsQuantity
		st.AvgRating += t.RatingsAverage
		st.AvgPrice += t.Price
		if t.Price < st.MinPrice {
			st.MinPrice = t.Price
		}
		if t.Price > st.MaxPrice {
			st.MaxPrice = t.Price
		}
	}
	out := make([]entity.TourStats, 0, len(byDiff))
	for _, st := range byDiff {
		st.AvgRating /= float64(st.NumTours)
		st.AvgPrice /= float64(st.NumTours)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvgPrice < out[j].AvgPrice })
	return out, nil
}

func (f *fakeTourRepo) MonthlyPlan(_ context.Context, year int) ([]entity.MonthlyPlanEntry, error) {
	byMonth := map[int]*entity.MonthlyPlanEntry{}
	for id, dates := range f.startDates {
		for _, d := range dates {
			if d.Year() != year {
				continue
			}
			m := int(d.Month())
			e, ok := byMonth[m]
			if !ok {
				e = &entity.MonthlyPlanEntry{Month: m}
				byMonth[m] = e
			}
			e.NumTourStarts++
			e.Tours = append(e.Tours, f.tours[id].Name)
		}
	}
	out := make([]entity.MonthlyPlanEntry, 0, len(byMonth))
	for _, e := range byMonth {
		sort.Strings(e.Tours)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NumTourStarts != out[j].NumTourStarts {
			return out[i].NumTourStarts > out[j].NumTourStarts
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

var _ repository.TourRepository = (*fakeTourRepo)(nil)

// fakeReviewRepo keeps reviews in memory and computes Stats from them, the
// same COUNT/AVG the store runs.
type fakeReviewRepo struct {
	seq     int
	reviews map[string]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*entity.Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, r *entity.Review) error {
	for _, ex := range f.reviews {
		if ex.TourID == r.TourID && ex.UserID == r.UserID {
			return &pgconn.PgError{Code: "23505", Detail: "Key (tour_id, user_id) already exists."}
		}
	}
	f.seq++
	r.ID = fmt.Sprintf("review-%d", f.seq)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (*entity.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) ListByTour(_ context.Context, tourID string, _ query.Descriptor) ([]*entity.Review, error) {
	out := []*entity.Review{}
	for _, r := range f.reviews {
		if tourID == "" || r.TourID == tourID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r *entity.Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *r
	cp.UpdatedAt = time.Now()
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) Stats(_ context.Context, tourID string) (int, float64, error) {
	count := 0
	sum := 0
	for _, r := range f.reviews {
		if r.TourID == tourID {
			count++
			sum += r.Rating
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, float64(sum) / float64(count), nil
}

var _ repository.ReviewRepository = (*fakeReviewRepo)(nil)
