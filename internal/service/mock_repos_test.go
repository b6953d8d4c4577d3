package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	classrooms map[string]*model.Classroom
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{classrooms: make(map[string]*model.Classroom)}
}

func (m *mockClassroomRepo) Create(_ context.Context, classroom *model.Classroom) error {
	if classroom.ClassroomID == "" {
		classroom.ClassroomID = "room-" + classroom.Code
	}
	m.classrooms[classroom.ClassroomID] = classroom
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if c, ok := m.classrooms[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) List(_ context.Context, includeInactive bool) ([]model.Classroom, error) {
	result := make([]model.Classroom, 0, len(m.classrooms))
	for _, c := range m.classrooms {
		if !includeInactive && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockClassroomRepo) Update(_ context.Context, classroom *model.Classroom) error {
	m.classrooms[classroom.ClassroomID] = classroom
	return nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.classrooms, id)
	return nil
}

// ── Mock ScheduleSessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.ScheduleSession
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.ScheduleSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.ScheduleSession) error {
	if session.SessionID == "" {
		session.SessionID = fmt.Sprintf("sess-%d", len(m.sessions)+1)
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) BatchCreate(_ context.Context, sessions []model.ScheduleSession) error {
	for i := range sessions {
		if sessions[i].SessionID == "" {
			sessions[i].SessionID = fmt.Sprintf("sess-%d", len(m.sessions)+1)
		}
		s := sessions[i]
		m.sessions[s.SessionID] = &s
	}
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.ScheduleSession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) List(_ context.Context, classroomID string) ([]model.ScheduleSession, error) {
	var result []model.ScheduleSession
	for _, s := range m.sessions {
		if classroomID == "" || s.ClassroomID == classroomID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSessionRepo) ListForClassroomAndDate(_ context.Context, classroomID string, date time.Time) ([]model.ScheduleSession, error) {
	var result []model.ScheduleSession
	for _, s := range m.sessions {
		if s.ClassroomID == classroomID && s.MatchesDate(date) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (m *mockSessionRepo) ListForTeacherAndDate(_ context.Context, teacherID string, date time.Time) ([]model.ScheduleSession, error) {
	var result []model.ScheduleSession
	for _, s := range m.sessions {
		if s.TeacherID == teacherID && s.MatchesDate(date) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sessions, id)
	return nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	reservations map[string]*model.Reservation
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*model.Reservation)}
}

func (m *mockReservationRepo) Insert(_ context.Context, reservation *model.Reservation) error {
	if reservation.ReservationID == "" {
		reservation.ReservationID = fmt.Sprintf("resv-%d", len(m.reservations)+1)
	}
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) ListActiveForClassroom(_ context.Context, classroomID string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.ClassroomID == classroomID && r.IsActive() {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) List(_ context.Context) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockReservationRepo) Update(_ context.Context, reservation *model.Reservation) error {
	if _, ok := m.reservations[reservation.ReservationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	getHook func(id string) // GetByID 前调用，用于模拟读取间隙的并发修改
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) Insert(_ context.Context, record *model.AttendanceRecord) error {
	if record.AttendanceID == "" {
		record.AttendanceID = fmt.Sprintf("att-%d", len(m.records)+1)
	}
	m.records[record.AttendanceID] = record
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if m.getHook != nil {
		m.getHook(id)
	}
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) FindOpen(_ context.Context, sessionID string, date time.Time) (*model.AttendanceRecord, error) {
	day := date.Format("2006-01-02")
	for _, r := range m.records {
		if r.SessionID == sessionID && r.SessionDate.Format("2006-01-02") == day && r.State == model.AttendanceOpen {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) FindForSessionAndDate(_ context.Context, sessionID string, date time.Time) (*model.AttendanceRecord, error) {
	day := date.Format("2006-01-02")
	for _, r := range m.records {
		if r.SessionID == sessionID && r.SessionDate.Format("2006-01-02") == day {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Close(_ context.Context, record *model.AttendanceRecord, exitAt time.Time) error {
	stored, ok := m.records[record.AttendanceID]
	if !ok || stored.State != model.AttendanceOpen {
		return gorm.ErrRecordNotFound
	}
	stored.ExitAt = &exitAt
	stored.State = model.AttendanceClosed
	record.ExitAt = &exitAt
	record.State = model.AttendanceClosed
	return nil
}

func (m *mockAttendanceRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if !r.SessionDate.Before(from) && !r.SessionDate.After(to) {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── 测试用聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user        *mockUserRepo
	classroom   *mockClassroomRepo
	session     *mockSessionRepo
	reservation *mockReservationRepo
	attendance  *mockAttendanceRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:        newMockUserRepo(),
		classroom:   newMockClassroomRepo(),
		session:     newMockSessionRepo(),
		reservation: newMockReservationRepo(),
		attendance:  newMockAttendanceRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:            r.user,
		Classroom:       r.classroom,
		ScheduleSession: r.session,
		Reservation:     r.reservation,
		Attendance:      r.attendance,
	}
}
