package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/events"
	"github.com/campusworks/college-portal/internal/repository"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) UpdateRole(_ context.Context, id int64, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Role = role
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// countingVerifier stores secrets in the clear and counts comparisons.
type countingVerifier struct {
	verifies int
}

func (v *countingVerifier) Hash(secret string) (string, error) { return "hash:" + secret, nil }

func (v *countingVerifier) Verify(secret, hash string) bool {
	v.verifies++
	return hash == "hash:"+secret
}

func (v *countingVerifier) DummyHash() string { return "dummy" }

type stubTokens struct {
	subject string
	role    domain.Role
}

func (s *stubTokens) Encode(subject string, role domain.Role, now time.Time) (string, time.Time, error) {
	s.subject, s.role = subject, role
	return "token-for-" + subject, now.Truncate(time.Second).Add(time.Hour), nil
}

type memGuard struct {
	failures map[string]int
	max      int
	resets   int
}

func newMemGuard(max int) *memGuard {
	return &memGuard{failures: make(map[string]int), max: max}
}

func (g *memGuard) Locked(_ context.Context, email string) (bool, error) {
	return g.failures[email] >= g.max, nil
}

func (g *memGuard) RecordFailure(_ context.Context, email string) error {
	g.failures[email]++
	return nil
}

func (g *memGuard) Reset(_ context.Context, email string) error {
	delete(g.failures, email)
	g.resets++
	return nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type memCourseRepo struct {
	nextID  int64
	courses map[int64]*domain.Course
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[int64]*domain.Course)}
}

func (r *memCourseRepo) Create(_ context.Context, course *domain.Course) error {
	for _, existing := range r.courses {
		if existing.Code == course.Code {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	course.ID = r.nextID
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id int64) (*domain.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *course
	return &clone, nil
}

func (r *memCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0, len(r.courses))
	for _, course := range r.courses {
		clone := *course
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memCourseRepo) Update(_ context.Context, course *domain.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.courses {
		if id != course.ID && existing.Code == course.Code {
			return repository.ErrDuplicate
		}
	}
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *memCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

type attendanceKey struct {
	courseID, studentID int64
	date                string
}

type memAttendanceRepo struct {
	students map[int64]bool
	records  map[attendanceKey]*domain.Attendance
	nextID   int64
}

func newMemAttendanceRepo(students ...int64) *memAttendanceRepo {
	known := make(map[int64]bool, len(students))
	for _, id := range students {
		known[id] = true
	}
	return &memAttendanceRepo{students: known, records: make(map[attendanceKey]*domain.Attendance)}
}

func (r *memAttendanceRepo) UpsertMany(_ context.Context, courseID int64, date time.Time, marks []domain.AttendanceMark) error {
	for _, mark := range marks {
		if !r.students[mark.StudentID] {
			return repository.ErrBrokenReference
		}
	}
	for _, mark := range marks {
		key := attendanceKey{courseID, mark.StudentID, date.Format(time.DateOnly)}
		if rec, ok := r.records[key]; ok {
			rec.Status = mark.Status
			continue
		}
		r.nextID++
		r.records[key] = &domain.Attendance{ID: r.nextID, CourseID: courseID, StudentID: mark.StudentID, Date: date, Status: mark.Status}
	}
	return nil
}

func (r *memAttendanceRepo) ListForStudent(_ context.Context, studentID, courseID int64) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	for _, rec := range r.records {
		if rec.StudentID == studentID && rec.CourseID == courseID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type memGradeRepo struct {
	students map[int64]bool
	grades   []*domain.Grade
	nextID   int64
}

func (r *memGradeRepo) Upsert(_ context.Context, grade *domain.Grade) error {
	if !r.students[grade.StudentID] {
		return repository.ErrBrokenReference
	}
	for _, existing := range r.grades {
		if existing.CourseID == grade.CourseID && existing.StudentID == grade.StudentID && existing.AssignmentName == grade.AssignmentName {
			existing.Score, existing.Comments = grade.Score, grade.Comments
			grade.ID = existing.ID
			return nil
		}
	}
	r.nextID++
	grade.ID = r.nextID
	clone := *grade
	r.grades = append(r.grades, &clone)
	return nil
}

func (r *memGradeRepo) ListForStudent(_ context.Context, studentID int64) ([]*domain.Grade, error) {
	var out []*domain.Grade
	for _, g := range r.grades {
		if g.StudentID == studentID {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}
