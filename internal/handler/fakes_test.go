package handler_test

// In-memory fakes standing in for the Mongo-backed repositories, plus a
// helper that wires them into a fully configured engine. Tests exercise the
// real router, validator, middleware and error handler; only persistence is
// substituted.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devfolio/backend/internal/config"
	"github.com/devfolio/backend/internal/handler"
	"github.com/devfolio/backend/internal/model"
	"github.com/devfolio/backend/internal/repository"
	"github.com/devfolio/backend/internal/router"
	"github.com/devfolio/backend/internal/utils"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      testSecret,
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     4, // keep hashing fast in tests
		CORSOrigins:    []string{"http://localhost:3000"},
		FrontendURL:    "http://localhost:3000",
	}
}

type fixtures struct {
	items      *fakeItemStore
	users      *fakeUserStore
	resumes    *fakeResumeStore
	portfolios *fakePortfolioStore
	health     *handler.HealthHandler
	uploads    *handler.UploadHandler
}

func newTestEngine() (*echo.Echo, *fixtures) {
	f := &fixtures{
		items:      &fakeItemStore{items: map[string]model.Item{}},
		users:      &fakeUserStore{users: map[string]userRecord{}},
		resumes:    &fakeResumeStore{resumes: map[string]model.Resume{}},
		portfolios: &fakePortfolioStore{portfolios: map[string]model.Portfolio{}},
	}
	f.health = &handler.HealthHandler{}
	f.uploads = handler.NewUploadHandler(nil)
	cfg := testConfig()
	e := router.New(router.Deps{
		Cfg:        cfg,
		Health:     f.health,
		Items:      handler.NewItemHandler(f.items, nil),
		Auth:       handler.NewAuthHandler(cfg, f.users),
		Resumes:    handler.NewResumeHandler(f.resumes, nil),
		Portfolios: handler.NewPortfolioHandler(f.portfolios, nil),
		Uploads:    f.uploads,
	})
	return e, f
}

func accessToken(userID string) string {
	tok, err := utils.NewAccessToken(testSecret, userID, 15)
	if err != nil {
		panic(err)
	}
	return tok
}

func newID() string { return primitive.NewObjectID().Hex() }

// ----- items -----

type fakeItemStore struct {
	mu    sync.Mutex
	items map[string]model.Item
	order []string
}

func (s *fakeItemStore) Insert(_ context.Context, in model.ItemInput) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := model.Item{
		ID:          newID(),
		Name:        in.Name,
		Description: in.DescriptionOrEmpty(),
		Price:       in.PriceValue(),
	}
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return item, nil
}

func (s *fakeItemStore) List(_ context.Context, limit, offset int64) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Item{}
	for i, id := range s.order {
		if int64(i) < offset {
			continue
		}
		if int64(len(out)) == limit {
			break
		}
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *fakeItemStore) Get(_ context.Context, id string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, found := s.items[id]
	if !found {
		return model.Item{}, repository.ErrNotFound
	}
	return item, nil
}

func (s *fakeItemStore) Replace(_ context.Context, id string, in model.ItemInput) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.items[id]; !found {
		return model.Item{}, repository.ErrNotFound
	}
	item := model.Item{
		ID:          id,
		Name:        in.Name,
		Description: in.DescriptionOrEmpty(),
		Price:       in.PriceValue(),
	}
	s.items[id] = item
	return item, nil
}

func (s *fakeItemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.items[id]; !found {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeItemStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// ----- users -----

type userRecord struct {
	user         model.User
	passwordHash string
	githubID     string
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]userRecord
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, fullName string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if r.user.Email == email {
			return model.User{}, repository.ErrDuplicate
		}
	}
	u := model.User{
		ID:        newID(),
		Email:     email,
		FullName:  fullName,
		Provider:  model.ProviderEmail,
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = userRecord{user: u, passwordHash: passwordHash}
	return u, nil
}

func (s *fakeUserStore) GetCredentialsByEmail(_ context.Context, email string) (repository.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if r.user.Email == email {
			return repository.Credentials{User: r.user, PasswordHash: r.passwordHash}, nil
		}
	}
	return repository.Credentials{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, found := s.users[id]
	if !found {
		return model.User{}, repository.ErrNotFound
	}
	return r.user, nil
}

func (s *fakeUserStore) UpsertGitHub(_ context.Context, githubID, email, fullName, avatarURL string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.users {
		if r.githubID == githubID || r.user.Email == email {
			r.githubID = githubID
			r.user.AvatarURL = avatarURL
			if fullName != "" {
				r.user.FullName = fullName
			}
			s.users[id] = r
			return r.user, nil
		}
	}
	u := model.User{
		ID:        newID(),
		Email:     email,
		FullName:  fullName,
		AvatarURL: avatarURL,
		Provider:  model.ProviderGitHub,
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = userRecord{user: u, githubID: githubID}
	return u, nil
}

// ----- resumes -----

type fakeResumeStore struct {
	mu      sync.Mutex
	resumes map[string]model.Resume
	deleted map[string]bool
}

func (s *fakeResumeStore) Create(_ context.Context, userID string, in model.ResumeInput) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	theme := map[string]any{}
	if in.TemplateID != "" {
		theme["template_id"] = in.TemplateID
	}
	now := time.Now().UTC()
	r := model.Resume{
		ID:          newID(),
		UserID:      userID,
		Title:       in.Title,
		Content:     map[string]any{},
		ThemeConfig: theme,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.resumes[r.ID] = r
	return r, nil
}

func (s *fakeResumeStore) ListByOwner(_ context.Context, userID string, limit, offset int64) ([]model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []model.Resume{}
	for id, r := range s.resumes {
		if r.UserID == userID && !s.deleted[id] {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	out := []model.Resume{}
	for i, r := range all {
		if int64(i) < offset {
			continue
		}
		if int64(len(out)) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeResumeStore) get(id, userID string) (model.Resume, error) {
	r, found := s.resumes[id]
	if !found || r.UserID != userID || s.deleted[id] {
		return model.Resume{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *fakeResumeStore) Get(_ context.Context, id, userID string) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id, userID)
}

func (s *fakeResumeStore) Update(_ context.Context, id, userID string, in model.ResumeUpdate) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id, userID)
	if err != nil {
		return model.Resume{}, err
	}
	if in.Slug != nil {
		for otherID, other := range s.resumes {
			if otherID != id && other.Slug == *in.Slug {
				return model.Resume{}, repository.ErrDuplicate
			}
		}
		r.Slug = *in.Slug
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Content != nil {
		r.Content = *in.Content
	}
	if in.ThemeConfig != nil {
		r.ThemeConfig = *in.ThemeConfig
	}
	if in.IsPublic != nil {
		r.IsPublic = *in.IsPublic
	}
	r.UpdatedAt = time.Now().UTC()
	s.resumes[id] = r
	return r, nil
}

func (s *fakeResumeStore) SoftDelete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(id, userID); err != nil {
		return err
	}
	if s.deleted == nil {
		s.deleted = map[string]bool{}
	}
	s.deleted[id] = true
	return nil
}

func (s *fakeResumeStore) Duplicate(_ context.Context, id, userID string) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, err := s.get(id, userID)
	if err != nil {
		return model.Resume{}, err
	}
	now := time.Now().UTC()
	cp := model.Resume{
		ID:          newID(),
		UserID:      src.UserID,
		Title:       src.Title + " (copy)",
		Content:     src.Content,
		ThemeConfig: src.ThemeConfig,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.resumes[cp.ID] = cp
	return cp, nil
}

// ----- portfolios -----

type fakePortfolioStore struct {
	mu         sync.Mutex
	portfolios map[string]model.Portfolio
}

func (s *fakePortfolioStore) Create(_ context.Context, userID string, in model.PortfolioInput) (model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.portfolios {
		if p.Subdomain == in.Subdomain {
			return model.Portfolio{}, repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	p := model.Portfolio{
		ID:          newID(),
		UserID:      userID,
		Title:       in.Title,
		Subdomain:   in.Subdomain,
		Content:     map[string]any{},
		ThemeConfig: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.portfolios[p.ID] = p
	return p, nil
}

func (s *fakePortfolioStore) ListByOwner(_ context.Context, userID string) ([]model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Portfolio{}
	for _, p := range s.portfolios {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakePortfolioStore) get(id, userID string) (model.Portfolio, error) {
	p, found := s.portfolios[id]
	if !found || p.UserID != userID {
		return model.Portfolio{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *fakePortfolioStore) Get(_ context.Context, id, userID string) (model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id, userID)
}

func (s *fakePortfolioStore) Update(_ context.Context, id, userID string, in model.PortfolioUpdate) (model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(id, userID)
	if err != nil {
		return model.Portfolio{}, err
	}
	if in.Subdomain != nil {
		for otherID, other := range s.portfolios {
			if otherID != id && other.Subdomain == *in.Subdomain {
				return model.Portfolio{}, repository.ErrDuplicate
			}
		}
		p.Subdomain = *in.Subdomain
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.ThemeConfig != nil {
		p.ThemeConfig = *in.ThemeConfig
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	p.UpdatedAt = time.Now().UTC()
	s.portfolios[id] = p
	return p, nil
}

func (s *fakePortfolioStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(id, userID); err != nil {
		return err
	}
	delete(s.portfolios, id)
	return nil
}
