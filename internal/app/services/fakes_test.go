package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/joblink/internal/app/auth"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/auth"
	"github.com/yigit/joblink/internal/pkg/notification"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

// passThroughTx runs fn directly; the fakes below are individually atomic
type passThroughTx struct{}

func (passThroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	u.ResumeURL = &url
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) add(t *testing.T, u models.User) *models.User {
	t.Helper()
	if u.Email == "" {
		u.Email = fmt.Sprintf("%s.%s@example.com", strings.ToLower(u.FirstName), strings.ToLower(string(u.RoleType)))
	}
	if err := r.Create(context.Background(), &u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return &u
}

// --- jobs ---

type fakeJobRepo struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]models.JobPosting
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[int64]models.JobPosting{}}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = r.nextID
	job.CreatedAt = time.Now().Add(time.Duration(job.ID) * time.Millisecond)
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &j, nil
}

func (r *fakeJobRepo) List(ctx context.Context, filter repositories.JobFilter) ([]*models.JobPosting, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.JobPosting
	for _, j := range r.jobs {
		j := j
		if filter.RecruiterID != nil && j.RecruiterID != *filter.RecruiterID {
			continue
		}
		if filter.Industry != "" && !strings.EqualFold(j.Industry, filter.Industry) {
			continue
		}
		if filter.EmploymentType != "" && string(j.EmploymentType) != filter.EmploymentType {
			continue
		}
		matched = append(matched, &j)
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].ID > matched[b].ID })

	total := int64(len(matched))
	start := int(filter.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(filter.Limit)
	if filter.Limit == 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeJobRepo) add(t *testing.T, recruiterID int64, title string, reqs ...string) *models.JobPosting {
	t.Helper()
	j := &models.JobPosting{
		RecruiterID:    recruiterID,
		Title:          title,
		Company:        "Acme",
		EmploymentType: models.EmploymentInternship,
		Requirements:   models.NormalizeRequirements(reqs),
	}
	if err := r.Create(context.Background(), j); err != nil {
		t.Fatalf("seeding job: %v", err)
	}
	return j
}

// --- applications ---

type appKey struct{ job, student int64 }

type fakeApplicationRepo struct {
	mu     sync.Mutex
	nextID int64
	apps   map[appKey]models.Application
	users  *fakeUserRepo
	jobs   *fakeJobRepo
}

func newFakeApplicationRepo(users *fakeUserRepo, jobs *fakeJobRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[appKey]models.Application{}, users: users, jobs: jobs}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	if _, err := r.jobs.GetByID(ctx, app.JobID); err != nil {
		return apperrors.ErrResourceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := appKey{app.JobID, app.StudentID}
	if _, dup := r.apps[key]; dup {
		return apperrors.ErrAlreadyApplied
	}
	r.nextID++
	app.ID = r.nextID
	app.AppliedAt = time.Now()
	app.UpdatedAt = app.AppliedAt
	r.apps[key] = *app
	return nil
}

func (r *fakeApplicationRepo) Get(ctx context.Context, jobID, studentID int64) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[appKey{jobID, studentID}]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &a, nil
}

func (r *fakeApplicationRepo) GetForUpdate(ctx context.Context, jobID, studentID int64) (*models.Application, error) {
	return r.Get(ctx, jobID, studentID)
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, jobID, studentID int64, status models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := appKey{jobID, studentID}
	a, ok := r.apps[key]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	r.apps[key] = a
	return nil
}

func (r *fakeApplicationRepo) ListApplicants(ctx context.Context, jobID int64) ([]*models.Applicant, error) {
	r.mu.Lock()
	var apps []models.Application
	for k, a := range r.apps {
		if k.job == jobID {
			apps = append(apps, a)
		}
	}
	r.mu.Unlock()

	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	out := make([]*models.Applicant, 0, len(apps))
	for _, a := range apps {
		u, err := r.users.GetByID(ctx, a.StudentID)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.Applicant{
			Application:  a,
			StudentName:  u.FullName(),
			StudentEmail: u.Email,
			CGPA:         u.CGPA,
			ResumeURL:    u.ResumeURL,
		})
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentApplication, error) {
	r.mu.Lock()
	var apps []models.Application
	for k, a := range r.apps {
		if k.student == studentID {
			apps = append(apps, a)
		}
	}
	r.mu.Unlock()

	sort.Slice(apps, func(i, j int) bool { return apps[i].ID > apps[j].ID })
	out := make([]*models.StudentApplication, 0, len(apps))
	for _, a := range apps {
		j, err := r.jobs.GetByID(ctx, a.JobID)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.StudentApplication{Application: a, Job: *j})
	}
	return out, nil
}

func (r *fakeApplicationRepo) status(jobID, studentID int64) models.ApplicationStatus {
	a, err := r.Get(context.Background(), jobID, studentID)
	if err != nil {
		return ""
	}
	return a.Status
}

// --- conversations ---

type convKey struct{ student, job int64 }

type fakeConversationRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]models.Conversation
	byKey  map[convKey]int64
	msgs   *fakeMessageRepo

	// staleReads makes the next n lookups by key miss, like a reader racing a concurrent insert
	staleReads int
	inserts    int
}

func newFakeConversationRepo(msgs *fakeMessageRepo) *fakeConversationRepo {
	return &fakeConversationRepo{byID: map[int64]models.Conversation{}, byKey: map[convKey]int64{}, msgs: msgs}
}

func (r *fakeConversationRepo) Insert(ctx context.Context, conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	key := convKey{conv.StudentID, conv.JobID}
	if _, exists := r.byKey[key]; exists {
		return apperrors.ErrConflictRace
	}
	r.nextID++
	conv.ID = r.nextID
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	r.byID[conv.ID] = *conv
	r.byKey[key] = conv.ID
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &c, nil
}

func (r *fakeConversationRepo) GetByStudentAndJob(ctx context.Context, studentID, jobID int64) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staleReads > 0 {
		r.staleReads--
		return nil, apperrors.ErrResourceNotFound
	}
	id, ok := r.byKey[convKey{studentID, jobID}]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	c := r.byID[id]
	return &c, nil
}

func (r *fakeConversationRepo) LockForAppend(ctx context.Context, id int64) (*models.Conversation, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeConversationRepo) Touch(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	c.UpdatedAt = time.Now()
	r.byID[id] = c
	return nil
}

func (r *fakeConversationRepo) ListForParticipant(ctx context.Context, userID int64, role models.SenderRole) ([]*models.ConversationSummary, error) {
	r.mu.Lock()
	var convs []models.Conversation
	for _, c := range r.byID {
		if c.HasParticipant(userID, role) {
			convs = append(convs, c)
		}
	}
	r.mu.Unlock()

	sort.Slice(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
	out := make([]*models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		n, _ := r.msgs.Count(ctx, c.ID)
		out = append(out, &models.ConversationSummary{Conversation: c, MessageCount: n})
	}
	return out, nil
}

// addEmpty creates a conversation without the seed message
func (r *fakeConversationRepo) addEmpty(t *testing.T, studentID, recruiterID, jobID int64) *models.Conversation {
	t.Helper()
	c := &models.Conversation{StudentID: studentID, RecruiterID: recruiterID, JobID: jobID}
	if err := r.Insert(context.Background(), c); err != nil {
		t.Fatalf("seeding conversation: %v", err)
	}
	return c
}

func (r *fakeConversationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// --- messages ---

type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID int64
	byConv map[int64][]models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byConv: map[int64][]models.Message{}}
}

func (r *fakeMessageRepo) Append(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	msg.ID = r.nextID
	msg.Seq = len(r.byConv[msg.ConversationID]) + 1
	msg.CreatedAt = time.Now()
	r.byConv[msg.ConversationID] = append(r.byConv[msg.ConversationID], *msg)
	return nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, conversationID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byConv[conversationID]), nil
}

func (r *fakeMessageRepo) ListAfter(ctx context.Context, conversationID int64, afterSeq int, limit int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.byConv[conversationID] {
		if m.Seq <= afterSeq {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- collaborators ---

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Notify(ev notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) all() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Event(nil), n.events...)
}

// countingLimiter allows the first limit calls per key
type countingLimiter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (l *countingLimiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.calls == nil {
		l.calls = map[string]int{}
	}
	l.calls[key]++
	return l.calls[key] <= limit
}

type memStorage struct {
	mu      sync.Mutex
	n       int
	files   map[string][]byte
	deleted []string
}

func (s *memStorage) Save(ctx context.Context, filename string, r io.Reader, subPath string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.n++
	url := fmt.Sprintf("mem://%s/%d-%s", subPath, s.n, filename)
	s.files[url] = data
	return url, nil
}

func (s *memStorage) DeleteFile(fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, fileURL)
	s.deleted = append(s.deleted, fileURL)
	return nil
}

// --- harness ---

type harness struct {
	users    *fakeUserRepo
	jobs     *fakeJobRepo
	apps     *fakeApplicationRepo
	convs    *fakeConversationRepo
	msgs     *fakeMessageRepo
	notifier *recordingNotifier
	limiter  *countingLimiter

	conversations ConversationService
	applications  ApplicationService
}

func newHarness() *harness {
	h := &harness{
		users:    newFakeUserRepo(),
		jobs:     newFakeJobRepo(),
		msgs:     newFakeMessageRepo(),
		notifier: &recordingNotifier{},
		limiter:  &countingLimiter{},
	}
	h.apps = newFakeApplicationRepo(h.users, h.jobs)
	h.convs = newFakeConversationRepo(h.msgs)

	logger := zerolog.Nop()
	authz := appauth.NewAuthorizationService(h.jobs, logger)
	h.conversations = NewConversationService(passThroughTx{}, h.convs, h.msgs, authz, h.limiter,
		MessageRateLimit{Limit: 100, Window: time.Minute}, logger)
	h.applications = NewApplicationService(passThroughTx{}, h.apps, h.jobs, h.users, authz, h.conversations, h.notifier, logger)
	return h
}

func ptr[T any](v T) *T { return &v }
