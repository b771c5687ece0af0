// Package testutil provides in-memory repositories for service and handler
// tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
)

// Memory is a shared in-memory store. Each repository field views the same
// data, so a user created through Users has statistics visible through
// Statistics.
type Memory struct {
	mu  sync.Mutex
	seq int64

	users         map[int64]*models.User
	profiles      map[int64]*models.Profile
	stats         map[int64]*models.Statistics
	plans         []*models.StudyPlan
	days          []*models.DailyPlan
	sessions      []*models.StudySession
	attempts      []*models.QuizAttempt
	quizzes       []*models.Quiz
	cards         map[int64]*models.Flashcard
	progress      []*models.Progress
	notifications []*models.Notification
	topics        []*models.CurriculumTopic

	// FailWith, when set, is returned by every repository call
	FailWith error

	Users         *UserRepo
	Profiles      *ProfileRepo
	StudyPlans    *StudyPlanRepo
	Statistics    *StatisticsRepo
	Quizzes       *QuizRepo
	Flashcards    *FlashcardRepo
	Progress      *ProgressRepo
	Notifications *NotificationRepo
	Curriculum    *CurriculumRepo
}

var (
	_ repositories.IUserRepository         = (*UserRepo)(nil)
	_ repositories.IProfileRepository      = (*ProfileRepo)(nil)
	_ repositories.IStudyPlanRepository    = (*StudyPlanRepo)(nil)
	_ repositories.IStatisticsRepository   = (*StatisticsRepo)(nil)
	_ repositories.IQuizRepository         = (*QuizRepo)(nil)
	_ repositories.IFlashcardRepository    = (*FlashcardRepo)(nil)
	_ repositories.IProgressRepository     = (*ProgressRepo)(nil)
	_ repositories.INotificationRepository = (*NotificationRepo)(nil)
	_ repositories.ICurriculumRepository   = (*CurriculumRepo)(nil)
)

// NewMemory returns an empty store
func NewMemory() *Memory {
	m := &Memory{
		users:    map[int64]*models.User{},
		profiles: map[int64]*models.Profile{},
		stats:    map[int64]*models.Statistics{},
		cards:    map[int64]*models.Flashcard{},
	}
	m.Users = &UserRepo{m}
	m.Profiles = &ProfileRepo{m}
	m.StudyPlans = &StudyPlanRepo{m}
	m.Statistics = &StatisticsRepo{m}
	m.Quizzes = &QuizRepo{m}
	m.Flashcards = &FlashcardRepo{m}
	m.Progress = &ProgressRepo{m}
	m.Notifications = &NotificationRepo{m}
	m.Curriculum = &CurriculumRepo{m}
	return m
}

func (m *Memory) lock() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Memory) nextID() int64 {
	m.seq++
	return m.seq
}

// AddQuiz stores a catalog quiz and returns its id
func (m *Memory) AddQuiz(q models.Quiz) int64 {
	defer m.lock()()
	q.ID = m.nextID()
	q.CreatedAt = time.Now()
	for i := range q.Questions {
		q.Questions[i].ID = m.nextID()
		q.Questions[i].QuizID = q.ID
	}
	m.quizzes = append(m.quizzes, &q)
	return q.ID
}

// AddNotification stores a notification and returns its id
func (m *Memory) AddNotification(n models.Notification) int64 {
	defer m.lock()()
	n.ID = m.nextID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notifications = append(m.notifications, &n)
	return n.ID
}

// UserCount returns the number of stored users
func (m *Memory) UserCount() int {
	defer m.lock()()
	return len(m.users)
}

// Notification returns a copy of a stored notification
// DropStatistics removes the statistics row of a user
func (m *Memory) DropStatistics(userID int64) {
	defer m.lock()()
	delete(m.stats, userID)
}

func (m *Memory) Notification(id int64) (models.Notification, bool) {
	defer m.lock()()
	for _, n := range m.notifications {
		if n.ID == id {
			return *n, true
		}
	}
	return models.Notification{}, false
}

// UserRepo implements repositories.IUserRepository
type UserRepo struct{ m *Memory }

func (r *UserRepo) CreateWithStatistics(_ context.Context, u *models.User) error {
	m := r.m
	defer m.lock()()
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, other := range m.users {
		if other.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.StudentCode != nil && other.StudentCode != nil && *other.StudentCode == *u.StudentCode {
			return apperrors.ErrStudentCodeTaken
		}
	}
	u.ID = m.nextID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	m.stats[u.ID] = &models.Statistics{UserID: u.ID, UpdatedAt: u.CreatedAt}
	return nil
}

func (r *UserRepo) find(match func(*models.User) bool) (*models.User, bool) {
	for _, u := range r.m.users {
		if match(u) {
			cp := *u
			return &cp, true
		}
	}
	return nil, false
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	if u, ok := r.find(func(u *models.User) bool { return u.Email == email }); ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return false, r.m.FailWith
	}
	_, ok := r.find(func(u *models.User) bool { return u.Email == email })
	return ok, nil
}

func (r *UserRepo) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	defer r.m.lock()()
	if u, ok := r.m.users[userID]; ok {
		u.LastLogin = &at
	}
	return r.m.FailWith
}

func (r *UserRepo) findStudent(match func(*models.User) bool) (int64, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return 0, r.m.FailWith
	}
	u, ok := r.find(func(u *models.User) bool { return u.UserType == models.RoleStudent && match(u) })
	if !ok {
		return 0, apperrors.ErrStudentNotFound
	}
	return u.ID, nil
}

func (r *UserRepo) FindStudentIDByCode(_ context.Context, code string) (int64, error) {
	return r.findStudent(func(u *models.User) bool { return u.StudentCode != nil && *u.StudentCode == code })
}

func (r *UserRepo) FindStudentIDByEmail(_ context.Context, email string) (int64, error) {
	return r.findStudent(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepo) LinkStudent(_ context.Context, parentID, studentID int64, relationship *string) error {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return r.m.FailWith
	}
	u, ok := r.m.users[parentID]
	if !ok || u.UserType != models.RoleParent {
		return apperrors.ErrUserNotFound
	}
	u.StudentID = &studentID
	if relationship != nil {
		u.Relationship = relationship
	}
	return nil
}

func (r *UserRepo) GetLinkedStudentID(_ context.Context, parentID int64) (int64, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return 0, r.m.FailWith
	}
	u, ok := r.m.users[parentID]
	if !ok || u.StudentID == nil {
		return 0, apperrors.ErrNoLinkedStudent
	}
	return *u.StudentID, nil
}

// ProfileRepo implements repositories.IProfileRepository
type ProfileRepo struct{ m *Memory }

func (r *ProfileRepo) GetByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	p, ok := r.m.profiles[userID]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	cp := *p
	if u, ok := r.m.users[userID]; ok {
		cp.Email = u.Email
		cp.StudentCode = u.StudentCode
	}
	return &cp, nil
}

func (r *ProfileRepo) Upsert(_ context.Context, p *models.Profile) (bool, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return false, r.m.FailWith
	}
	now := time.Now()
	existing, ok := r.m.profiles[p.UserID]
	if ok {
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		p.ID, p.CreatedAt = r.m.nextID(), now
	}
	p.UpdatedAt = now
	cp := *p
	r.m.profiles[p.UserID] = &cp
	return !ok, nil
}

func (r *ProfileRepo) Exists(_ context.Context, userID int64) (bool, error) {
	defer r.m.lock()()
	_, ok := r.m.profiles[userID]
	return ok, r.m.FailWith
}

// StatisticsRepo implements repositories.IStatisticsRepository
type StatisticsRepo struct{ m *Memory }

func (r *StatisticsRepo) GetByUserID(_ context.Context, userID int64) (*models.Statistics, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	s, ok := r.m.stats[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Statistics not found")
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) statsFor(userID int64) *models.Statistics {
	s, ok := m.stats[userID]
	if !ok {
		s = &models.Statistics{UserID: userID}
		m.stats[userID] = s
	}
	return s
}

// StudyPlanRepo implements repositories.IStudyPlanRepository
type StudyPlanRepo struct{ m *Memory }

func (r *StudyPlanRepo) CreatePlan(_ context.Context, plan *models.StudyPlan) (int64, error) {
	m := r.m
	defer m.lock()()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	now := time.Now()
	plan.ID, plan.CreatedAt = m.nextID(), now
	m.plans = append(m.plans, &models.StudyPlan{
		ID: plan.ID, UserID: plan.UserID, StartDate: plan.StartDate,
		EndDate: plan.EndDate, TotalDays: plan.TotalDays, CreatedAt: now,
	})
	for i := range plan.DailyPlans {
		d := &plan.DailyPlans[i]
		d.ID, d.StudyPlanID, d.UserID, d.CreatedAt = m.nextID(), plan.ID, plan.UserID, now
		dc := *d
		dc.Sessions = nil
		m.days = append(m.days, &dc)
		for j := range d.Sessions {
			s := &d.Sessions[j]
			s.ID, s.DailyPlanID, s.UserID, s.CreatedAt = m.nextID(), d.ID, plan.UserID, now
			sc := *s
			m.sessions = append(m.sessions, &sc)
		}
	}
	return plan.ID, nil
}

func (r *StudyPlanRepo) GetLatestPlan(_ context.Context, userID int64) (*models.StudyPlan, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	var latest *models.StudyPlan
	for _, p := range r.m.plans {
		if p.UserID != userID {
			continue
		}
		if latest == nil || latest.StartDate.Before(p.StartDate) ||
			(latest.StartDate.Equal(p.StartDate.Time) && p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return nil, apperrors.ErrStudyPlanNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *StudyPlanRepo) ListDailyPlans(_ context.Context, planID int64) ([]models.DailyPlan, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.DailyPlan{}
	for _, d := range r.m.days {
		if d.StudyPlanID == planID {
			out = append(out, *d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].DayNumber < out[j].DayNumber
	})
	return out, nil
}

func (r *StudyPlanRepo) ListSessions(_ context.Context, dailyPlanID int64) ([]models.StudySession, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.StudySession{}
	for _, s := range r.m.sessions {
		if s.DailyPlanID == dailyPlanID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *StudyPlanRepo) UpdateSession(_ context.Context, userID, sessionID int64, upd models.SessionUpdate) (*models.StudySession, error) {
	m := r.m
	defer m.lock()()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if upd.Empty() {
		return nil, apperrors.ErrNoUpdates
	}
	for _, s := range m.sessions {
		if s.ID != sessionID {
			continue
		}
		owned := false
		for _, d := range m.days {
			if d.ID == s.DailyPlanID && d.UserID == userID {
				owned = true
			}
		}
		if !owned {
			break
		}
		if upd.Completed != nil {
			s.Completed = *upd.Completed
			s.CompletedAt = upd.CompletedAt
		}
		if upd.Duration != nil {
			s.Duration = *upd.Duration
		}
		cp := *s
		return &cp, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

// Session returns a copy of a stored session
func (m *Memory) Session(id int64) (models.StudySession, bool) {
	defer m.lock()()
	for _, s := range m.sessions {
		if s.ID == id {
			return *s, true
		}
	}
	return models.StudySession{}, false
}

// QuizRepo implements repositories.IQuizRepository
type QuizRepo struct{ m *Memory }

func (r *QuizRepo) RecordAttempt(_ context.Context, a *models.QuizAttempt) (int64, error) {
	m := r.m
	defer m.lock()()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	a.ID = m.nextID()
	a.CreatedAt = time.Now()
	cp := *a
	m.attempts = append(m.attempts, &cp)
	m.statsFor(a.UserID).RecordQuiz(a.Score)
	return a.ID, nil
}

func (r *QuizRepo) ListAttempts(_ context.Context, userID int64, offset, limit uint64) ([]models.QuizAttempt, int64, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, 0, r.m.FailWith
	}
	var all []models.QuizAttempt
	for i := len(r.m.attempts) - 1; i >= 0; i-- {
		if a := r.m.attempts[i]; a.UserID == userID {
			all = append(all, *a)
		}
	}
	total := int64(len(all))
	page := []models.QuizAttempt{}
	for i := offset; i < uint64(len(all)) && i < offset+limit; i++ {
		page = append(page, all[i])
	}
	return page, total, nil
}

func (r *QuizRepo) ListQuizzes(_ context.Context, subjectID string) ([]models.Quiz, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.Quiz{}
	for _, q := range r.m.quizzes {
		if subjectID == "" || q.SubjectID == subjectID {
			cp := *q
			cp.Questions = nil
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *QuizRepo) GetQuiz(_ context.Context, id int64) (*models.Quiz, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	for _, q := range r.m.quizzes {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, apperrors.ErrQuizNotFound
}

// FlashcardRepo implements repositories.IFlashcardRepository
type FlashcardRepo struct{ m *Memory }

func (r *FlashcardRepo) ListSubjects(_ context.Context, userID int64) ([]string, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	seen := map[string]bool{}
	out := []string{}
	for _, c := range r.m.cards {
		if c.UserID == userID && !seen[c.SubjectID] {
			seen[c.SubjectID] = true
			out = append(out, c.SubjectID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *FlashcardRepo) ListBySubject(_ context.Context, userID int64, subjectID string) ([]models.Flashcard, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.Flashcard{}
	for _, c := range r.m.cards {
		if c.UserID == userID && c.SubjectID == subjectID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FlashcardRepo) Create(_ context.Context, card *models.Flashcard) (int64, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return 0, r.m.FailWith
	}
	card.ID = r.m.nextID()
	card.CreatedAt = time.Now()
	cp := *card
	r.m.cards[card.ID] = &cp
	return card.ID, nil
}

func (r *FlashcardRepo) Review(_ context.Context, userID, id int64, fn func(*models.Flashcard)) (*models.Flashcard, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	c, ok := r.m.cards[id]
	if !ok || c.UserID != userID {
		return nil, apperrors.ErrFlashcardNotFound
	}
	cp := *c
	fn(&cp)
	stored := cp
	r.m.cards[id] = &stored
	return &cp, nil
}

func (r *FlashcardRepo) Delete(_ context.Context, userID, id int64) error {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return r.m.FailWith
	}
	c, ok := r.m.cards[id]
	if !ok || c.UserID != userID {
		return apperrors.ErrFlashcardNotFound
	}
	delete(r.m.cards, id)
	return nil
}

// ProgressRepo implements repositories.IProgressRepository
type ProgressRepo struct{ m *Memory }

func (r *ProgressRepo) ListByUser(_ context.Context, userID int64) ([]models.Progress, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.Progress{}
	for _, p := range r.m.progress {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *ProgressRepo) Record(_ context.Context, userID int64, upd models.ProgressUpdate) (*models.Progress, bool, error) {
	m := r.m
	defer m.lock()()
	if m.FailWith != nil {
		return nil, false, m.FailWith
	}

	var row *models.Progress
	for _, p := range m.progress {
		if p.UserID == userID && p.TopicID == upd.TopicID {
			row = p
		}
	}
	created := row == nil
	if created {
		row = &models.Progress{ID: m.nextID(), UserID: userID, TopicID: upd.TopicID, CreatedAt: upd.StudiedAt}
		m.progress = append(m.progress, row)
	}
	row.TimeSpent += upd.TimeSpent
	if upd.MasteryLevel != nil {
		row.MasteryLevel = *upd.MasteryLevel
	}
	at := upd.StudiedAt
	row.LastStudied = &at

	if upd.TimeSpent > 0 {
		m.statsFor(userID).RecordStudy(upd.TimeSpent, models.NewDate(upd.StudiedAt))
	}
	cp := *row
	return &cp, created, nil
}

// NotificationRepo implements repositories.INotificationRepository
type NotificationRepo struct{ m *Memory }

func visible(n *models.Notification, userID int64) bool {
	return n.UserID == nil || *n.UserID == userID
}

func (r *NotificationRepo) ListForUser(_ context.Context, userID int64, limit uint64) ([]models.Notification, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.Notification{}
	for i := len(r.m.notifications) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if n := r.m.notifications[i]; visible(n, userID) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, userID, id int64) error {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return r.m.FailWith
	}
	for _, n := range r.m.notifications {
		if n.ID == id && visible(n, userID) {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (r *NotificationRepo) Create(_ context.Context, n *models.Notification) (int64, error) {
	if r.m.FailWith != nil {
		return 0, r.m.FailWith
	}
	n.ID = r.m.AddNotification(*n)
	return n.ID, nil
}

// CurriculumRepo implements repositories.ICurriculumRepository
type CurriculumRepo struct{ m *Memory }

func (r *CurriculumRepo) List(_ context.Context) ([]models.CurriculumTopic, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return nil, r.m.FailWith
	}
	out := []models.CurriculumTopic{}
	for i := len(r.m.topics) - 1; i >= 0; i-- {
		out = append(out, *r.m.topics[i])
	}
	return out, nil
}

func (r *CurriculumRepo) exists(t *models.CurriculumTopic) bool {
	for _, o := range r.m.topics {
		if o.Subject == t.Subject && o.Chapter == t.Chapter && o.Topic == t.Topic {
			return true
		}
	}
	return false
}

func (r *CurriculumRepo) CreateWithNotification(_ context.Context, t *models.CurriculumTopic, n *models.Notification) (int64, error) {
	m := r.m
	defer m.lock()()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	if r.exists(t) {
		return 0, apperrors.NewConflictError("Topic already exists in curriculum")
	}
	now := time.Now()
	t.ID, t.CreatedAt = m.nextID(), now
	tc := *t
	m.topics = append(m.topics, &tc)
	n.ID, n.CreatedAt = m.nextID(), now
	nc := *n
	m.notifications = append(m.notifications, &nc)
	return t.ID, nil
}

func (r *CurriculumRepo) Delete(_ context.Context, id int64) error {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return r.m.FailWith
	}
	for i, t := range r.m.topics {
		if t.ID == id {
			r.m.topics = append(r.m.topics[:i], r.m.topics[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrTopicNotFound
}

func (r *CurriculumRepo) EnsureTopics(_ context.Context, topics []models.CurriculumTopic) (int, error) {
	defer r.m.lock()()
	if r.m.FailWith != nil {
		return 0, r.m.FailWith
	}
	added := 0
	for _, t := range topics {
		if r.exists(&t) {
			continue
		}
		t.ID, t.CreatedAt = r.m.nextID(), time.Now()
		tc := t
		r.m.topics = append(r.m.topics, &tc)
		added++
	}
	return added, nil
}
