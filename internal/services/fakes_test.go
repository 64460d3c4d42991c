package services

import (
	"context"
	"strings"
	"time"

	"etugal/internal/models"
)

// In-memory repository fakes shared by the service tests. They implement just
// enough of the persistence contracts to exercise the business rules.

type fakeUserRepo struct {
	users    map[int64]*models.User
	profiles map[int64]*models.UserProfile
	nextID   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[int64]*models.User),
		profiles: make(map[int64]*models.UserProfile),
	}
}

func (r *fakeUserRepo) addProfile(p *models.UserProfile) *models.UserProfile {
	r.nextID++
	p.ID = r.nextID
	if p.User == nil {
		p.User = &models.User{ID: r.nextID, Email: "user@example.com"}
	}
	p.UserID = p.User.ID
	r.users[p.User.ID] = p.User
	r.profiles[p.ID] = p
	return p
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) CreateProfile(_ context.Context, profile *models.UserProfile) error {
	r.nextID++
	profile.ID = r.nextID
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindProfileByID(_ context.Context, id int64) (*models.UserProfile, error) {
	return r.profiles[id], nil
}

func (r *fakeUserRepo) FindProfileByUserID(_ context.Context, userID int64) (*models.UserProfile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindProfileByUsername(_ context.Context, email string) (*models.UserProfile, error) {
	for _, p := range r.profiles {
		if p.User != nil && p.User.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateTrust(_ context.Context, profile *models.UserProfile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) UpdateVerification(_ context.Context, profile *models.UserProfile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) SearchProfilesByName(_ context.Context, query string) ([]*models.UserProfile, error) {
	var out []*models.UserProfile
	for _, p := range r.profiles {
		if p.User != nil && strings.Contains(strings.ToLower(p.User.FullName()), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTaskRepo struct {
	tasks  map[int64]*models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]*models.Task)}
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	r.nextID++
	task.ID = r.nextID
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.ProviderID != nil && t.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.PerformerID != nil && (t.PerformerID == nil || *t.PerformerID != *filter.PerformerID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.CategoryID != nil && t.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Unassigned && t.PerformerID != nil {
			continue
		}
		if filter.ExcludeProvider != nil && t.ProviderID == *filter.ExcludeProvider {
			continue
		}
		if filter.TitleSearch != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.TitleSearch)) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, to models.TaskStatus) error {
	r.tasks[id].Status = to
	return nil
}

func (r *fakeTaskRepo) UpdatePerformer(_ context.Context, id int64, performerID int64, to models.TaskStatus) error {
	r.tasks[id].PerformerID = &performerID
	r.tasks[id].Status = to
	return nil
}

func (r *fakeTaskRepo) UpdateDonePerform(_ context.Context, id int64, done bool) error {
	r.tasks[id].IsDonePerform = done
	return nil
}

type fakeApplicantRepo struct {
	applicants []*models.TaskApplicant
	nextID     int64
}

func (r *fakeApplicantRepo) Store(_ context.Context, a *models.TaskApplicant) error {
	r.nextID++
	a.ID = r.nextID
	r.applicants = append(r.applicants, a)
	return nil
}

func (r *fakeApplicantRepo) Exists(_ context.Context, taskID, performerID int64) (bool, error) {
	for _, a := range r.applicants {
		if a.TaskID == taskID && a.PerformerID == performerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicantRepo) ListByTask(_ context.Context, taskID int64) ([]models.TaskApplicant, error) {
	var out []models.TaskApplicant
	for _, a := range r.applicants {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicantRepo) ListByPerformer(_ context.Context, performerID int64, _ *models.TaskStatus, _ bool) ([]models.TaskApplicant, error) {
	var out []models.TaskApplicant
	for _, a := range r.applicants {
		if a.PerformerID == performerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	reviews map[int64]*models.TaskReview // keyed by task ID
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int64]*models.TaskReview)}
}

func (r *fakeReviewRepo) FindByTask(_ context.Context, taskID int64) (*models.TaskReview, error) {
	rv, ok := r.reviews[taskID]
	if !ok {
		return nil, nil
	}
	copied := *rv
	return &copied, nil
}

func (r *fakeReviewRepo) Store(_ context.Context, review *models.TaskReview) error {
	r.nextID++
	review.ID = r.nextID
	copied := *review
	r.reviews[review.TaskID] = &copied
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *models.TaskReview) error {
	copied := *review
	r.reviews[review.TaskID] = &copied
	return nil
}

func (r *fakeReviewRepo) ListForPerformer(_ context.Context, _ int64) ([]models.TaskReview, error) {
	return nil, nil
}

func (r *fakeReviewRepo) ListForProvider(_ context.Context, _ int64) ([]models.TaskReview, error) {
	return nil, nil
}

type storedMessage struct {
	msg models.ChatMessage
	at  time.Time
}

type fakeChatRepo struct {
	sessions []*models.ChatSession
	messages []storedMessage
	nextID   int64
}

func (r *fakeChatRepo) FindSession(_ context.Context, taskID, providerID, performerID int64) (*models.ChatSession, error) {
	for _, s := range r.sessions {
		if s.TaskID == taskID && s.ProviderID == providerID && s.PerformerID == performerID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) FindSessionByID(_ context.Context, id int64) (*models.ChatSession, error) {
	for _, s := range r.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) FindSessionByRoomName(_ context.Context, roomName string) (*models.ChatSession, error) {
	for _, s := range r.sessions {
		if s.RoomName == roomName {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) CreateSession(_ context.Context, session *models.ChatSession) error {
	r.nextID++
	session.ID = r.nextID
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeChatRepo) ListSessionsForProfile(_ context.Context, profileID int64) ([]*models.ChatSession, error) {
	var out []*models.ChatSession
	for _, s := range r.sessions {
		if s.ProviderID == profileID || s.PerformerID == profileID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, message *models.ChatMessage) error {
	r.nextID++
	message.ID = r.nextID
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	r.messages = append(r.messages, storedMessage{msg: *message, at: time.Now()})
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, sessionID int64) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].msg.SessionID == sessionID {
			copied := r.messages[i].msg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) HasRecentDuplicate(_ context.Context, sessionID, profileID int64, text string, window time.Duration) (bool, error) {
	cutoff := time.Now().Add(-window)
	for _, m := range r.messages {
		if m.msg.SessionID == sessionID && m.msg.ProfileID == profileID && m.msg.Message == text && m.at.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

// fakeEmailService records sends instead of dialing SMTP.
type fakeEmailService struct {
	welcome      []string
	verification []string
	suspension   []string
	termination  []string
}

func (s *fakeEmailService) SendWelcomeEmail(email, _ string) error {
	s.welcome = append(s.welcome, email)
	return nil
}

func (s *fakeEmailService) SendVerificationEmail(email string, _ models.VerificationStatus, _ string) error {
	s.verification = append(s.verification, email)
	return nil
}

func (s *fakeEmailService) SendSuspensionEmail(email, _ string) error {
	s.suspension = append(s.suspension, email)
	return nil
}

func (s *fakeEmailService) SendTerminationEmail(email, _ string) error {
	s.termination = append(s.termination, email)
	return nil
}

// fakeNotifier records pushes.
type fakeNotifier struct {
	pushes []string
}

func (n *fakeNotifier) Push(_ *models.UserProfile, _, body string, _ map[string]string) {
	n.pushes = append(n.pushes, body)
}
