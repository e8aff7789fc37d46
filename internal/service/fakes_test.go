package service

import (
	"context"
	"sort"
	"time"

	"gooxalert/internal/model"
	"gooxalert/internal/repository"
	"gooxalert/internal/utils"
)

// In-memory fakes for the repository and collaborator interfaces.

type fakeUserRepo struct {
	nextID int
	users  map[int]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Telephone == user.Telephone {
			return repository.ErrPhoneTaken
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByPhone(ctx context.Context, telephone string) (*model.User, error) {
	for _, u := range r.users {
		if u.Telephone == telephone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) PhoneInUseByOther(ctx context.Context, telephone string, excludeID int) (bool, error) {
	for _, u := range r.users {
		if u.Telephone == telephone && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdatePersonalInfo(ctx context.Context, user *model.User) error {
	stored := r.users[user.ID]
	stored.FullName = user.FullName
	stored.Telephone = user.Telephone
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	stored := r.users[user.ID]
	stored.FullName = user.FullName
	stored.Commune = user.Commune
	stored.ImageURL = user.ImageURL
	stored.Terms = user.Terms
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	r.users[id].PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, user *model.User) error {
	stored := r.users[user.ID]
	stored.Role = user.Role
	stored.IsStaff = user.IsStaff
	stored.IsSuperuser = user.IsSuperuser
	return nil
}

type fakeSignalementRepo struct {
	nextID       int64
	signalements map[int64]*model.Signalement
}

func newFakeSignalementRepo() *fakeSignalementRepo {
	return &fakeSignalementRepo{nextID: 1, signalements: map[int64]*model.Signalement{}}
}

func (r *fakeSignalementRepo) Create(ctx context.Context, s *model.Signalement) error {
	s.ID = r.nextID
	r.nextID++
	cp := *s
	r.signalements[s.ID] = &cp
	return nil
}

func (r *fakeSignalementRepo) FindByIDAndUser(ctx context.Context, id int64, userID int) (*model.Signalement, error) {
	if s, ok := r.signalements[id]; ok && s.UserID == userID {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSignalementRepo) FindByUser(ctx context.Context, userID int) ([]model.Signalement, error) {
	var out []model.Signalement
	for _, s := range r.signalements {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSignalementRepo) Update(ctx context.Context, s *model.Signalement) error {
	stored, ok := r.signalements[s.ID]
	if !ok || stored.UserID != s.UserID {
		return ErrSignalementNotFound
	}
	stored.Title = s.Title
	stored.Description = s.Description
	stored.ImageURL = s.ImageURL
	stored.Location = s.Location
	stored.Category = s.Category
	return nil
}

func (r *fakeSignalementRepo) Delete(ctx context.Context, id int64, userID int) error {
	if s, ok := r.signalements[id]; ok && s.UserID == userID {
		delete(r.signalements, id)
		return nil
	}
	return ErrSignalementNotFound
}

type fakeCodeStore struct {
	codes map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: map[string]string{}}
}

func (s *fakeCodeStore) Save(ctx context.Context, telephone, code string) error {
	s.codes[telephone] = code
	return nil
}

func (s *fakeCodeStore) Consume(ctx context.Context, telephone, code string) (bool, error) {
	stored, ok := s.codes[telephone]
	if !ok {
		return false, nil
	}
	delete(s.codes, telephone)
	return stored == code, nil
}

type fakeSms struct {
	sent map[string]string // telephone -> last code
}

func newFakeSms() *fakeSms {
	return &fakeSms{sent: map[string]string{}}
}

func (f *fakeSms) SendResetCode(ctx context.Context, telephone, code string) error {
	f.sent[telephone] = code
	return nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func testJWTUtil() *utils.JWTUtil {
	return utils.NewJWTUtil("test-secret", time.Hour, 24*time.Hour)
}
