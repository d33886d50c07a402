package services

import (
	"context"
	"io"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

const testDomain = "iiitdmj.ac.in"

var testLogger = zerolog.New(io.Discard)

// fixedClock returns a clock that advances by one second per call
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(time.Second)
		return t
	}
}

// Roles

type fakeRoleStore struct {
	mu    sync.Mutex
	roles map[string]models.Role
	err   error
	calls int
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: map[string]models.Role{}}
}

func (f *fakeRoleStore) GetRole(ctx context.Context, email string) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[email]
	if !ok {
		return "", apperrors.ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeRoleStore) Upsert(ctx context.Context, a *models.RoleAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.roles[a.Email] = a.Role
	a.AssignedAt = time.Now()
	return nil
}

func (f *fakeRoleStore) List(ctx context.Context) ([]*models.RoleAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.RoleAssignment{}
	for email, role := range f.roles {
		out = append(out, &models.RoleAssignment{Email: email, Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Students

type fakeStudentStore struct {
	mu       sync.Mutex
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]*models.Student{}}
}

func copyStudent(s *models.Student) *models.Student {
	c := *s
	if s.RoomNumber != nil {
		room := *s.RoomNumber
		c.RoomNumber = &room
	}
	return &c
}

// add seeds a student directly
func (f *fakeStudentStore) add(rollNo, room string) *models.Student {
	s := &models.Student{RollNo: rollNo, Email: rollNo + "@" + testDomain, FullName: "Student " + rollNo}
	if room != "" {
		s.RoomNumber = &room
	}
	if err := f.Create(context.Background(), s); err != nil {
		panic(err)
	}
	return s
}

func (f *fakeStudentStore) roomTakenLocked(room string, except int64) bool {
	for id, s := range f.students {
		if id != except && s.RoomNumber != nil && *s.RoomNumber == room {
			return true
		}
	}
	return false
}

func (f *fakeStudentStore) Create(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.students {
		if existing.RollNo == s.RollNo || existing.Email == s.Email {
			return apperrors.ErrStudentAlreadyExists
		}
	}
	if s.RoomNumber != nil && f.roomTakenLocked(*s.RoomNumber, 0) {
		return apperrors.ErrRoomOccupied
	}
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	f.students[s.ID] = copyStudent(s)
	return nil
}

func (f *fakeStudentStore) GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.RollNo == rollNo {
			return copyStudent(s), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) Update(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.students[s.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	updated := copyStudent(s)
	updated.RoomNumber = existing.RoomNumber
	f.students[s.ID] = updated
	return nil
}

func (f *fakeStudentStore) List(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []*models.Student{}
	for _, s := range f.students {
		all = append(all, copyStudent(s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RollNo < all[j].RollNo })
	total := int64(len(all))
	start := int(offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeStudentStore) IsRoomOccupied(ctx context.Context, room string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roomTakenLocked(room, 0), nil
}

func (f *fakeStudentStore) AssignRoom(ctx context.Context, studentID int64, room *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignRoomLocked(studentID, room)
}

func (f *fakeStudentStore) assignRoomLocked(studentID int64, room *string) error {
	s, ok := f.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if room != nil && f.roomTakenLocked(*room, studentID) {
		return apperrors.ErrRoomOccupied
	}
	if room == nil {
		s.RoomNumber = nil
		return nil
	}
	r := *room
	s.RoomNumber = &r
	return nil
}

// Complaints

type fakeComplaintStore struct {
	mu         sync.Mutex
	complaints map[int64]*models.Complaint
	nextID     int64
	createErr  error
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{complaints: map[int64]*models.Complaint{}}
}

func (f *fakeComplaintStore) Create(ctx context.Context, c *models.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	c.ID = f.nextID
	stored := *c
	f.complaints[c.ID] = &stored
	return nil
}

func (f *fakeComplaintStore) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return nil, apperrors.ErrComplaintNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeComplaintStore) sorted(keep func(*models.Complaint) bool) []*models.Complaint {
	out := []*models.Complaint{}
	for _, c := range f.complaints {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeComplaintStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(c *models.Complaint) bool { return c.StudentID == studentID }), nil
}

func (f *fakeComplaintStore) List(ctx context.Context, filter models.ComplaintFilter) ([]*models.Complaint, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(c *models.Complaint) bool {
		return (filter.StudentID == nil || c.StudentID == *filter.StudentID) &&
			(filter.Status == nil || c.Status == *filter.Status) &&
			(filter.Type == nil || c.Type == *filter.Type)
	})
	return all, int64(len(all)), nil
}

func (f *fakeComplaintStore) UpdateStatus(ctx context.Context, c *models.Complaint, from models.ComplaintStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.complaints[c.ID]
	if !ok {
		return apperrors.ErrComplaintNotFound
	}
	if stored.Status != from {
		return apperrors.ErrComplaintStatusChanged
	}
	updated := *c
	f.complaints[c.ID] = &updated
	return nil
}

// Room change requests. The store mutex plays the part of the per-room
// advisory lock, so check and insert are one step.

type fakeRoomChangeStore struct {
	mu       sync.Mutex
	students *fakeStudentStore
	requests map[int64]*models.RoomChangeRequest
	nextID   int64
}

func newFakeRoomChangeStore(students *fakeStudentStore) *fakeRoomChangeStore {
	return &fakeRoomChangeStore{students: students, requests: map[int64]*models.RoomChangeRequest{}}
}

func (f *fakeRoomChangeStore) CreateIfRoomFree(ctx context.Context, req *models.RoomChangeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	occupied, _ := f.students.IsRoomOccupied(ctx, req.PreferredRoom)
	if occupied {
		return apperrors.ErrRoomOccupied
	}
	for _, r := range f.requests {
		if r.Status != models.RoomChangePending {
			continue
		}
		if r.PreferredRoom == req.PreferredRoom {
			return apperrors.ErrRoomAlreadyRequested
		}
		if r.StudentID == req.StudentID {
			return apperrors.ErrPendingRequestExists
		}
	}

	f.nextID++
	req.ID = f.nextID
	req.Status = models.RoomChangePending
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeRoomChangeStore) GetByID(ctx context.Context, id int64) (*models.RoomChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRoomChangeRequestNotFound
	}
	out := *r
	return &out, nil
}

func (f *fakeRoomChangeStore) filter(keep func(*models.RoomChangeRequest) bool) []*models.RoomChangeRequest {
	out := []*models.RoomChangeRequest{}
	for _, r := range f.requests {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRoomChangeStore) ListPending(ctx context.Context) ([]*models.RoomChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(r *models.RoomChangeRequest) bool { return r.Status == models.RoomChangePending }), nil
}

func (f *fakeRoomChangeStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.RoomChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(r *models.RoomChangeRequest) bool { return r.StudentID == studentID }), nil
}

func (f *fakeRoomChangeStore) decide(id int64, status models.RoomChangeStatus, at time.Time, apply func(*models.RoomChangeRequest) error) (*models.RoomChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRoomChangeRequestNotFound
	}
	if r.Status != models.RoomChangePending {
		return nil, apperrors.ErrRequestNotPending
	}
	if apply != nil {
		if err := apply(r); err != nil {
			return nil, err
		}
	}
	r.Status = status
	r.DecidedAt = &at
	out := *r
	return &out, nil
}

func (f *fakeRoomChangeStore) Approve(ctx context.Context, id int64, at time.Time) (*models.RoomChangeRequest, error) {
	return f.decide(id, models.RoomChangeApproved, at, func(r *models.RoomChangeRequest) error {
		room := r.PreferredRoom
		return f.students.AssignRoom(ctx, r.StudentID, &room)
	})
}

func (f *fakeRoomChangeStore) Reject(ctx context.Context, id int64, at time.Time) (*models.RoomChangeRequest, error) {
	return f.decide(id, models.RoomChangeRejected, at, nil)
}

// Notifications

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = int64(len(f.notifications) + 1)
	stored := *n
	f.notifications = append(f.notifications, &stored)
	return nil
}

func (f *fakeNotificationStore) List(ctx context.Context) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Notification, 0, len(f.notifications))
	for _, n := range f.notifications {
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.After(out[j].SentAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Visitors

type fakeVisitorStore struct {
	mu     sync.Mutex
	visits map[int64]*models.VisitorLog
	nextID int64
}

func newFakeVisitorStore() *fakeVisitorStore {
	return &fakeVisitorStore{visits: map[int64]*models.VisitorLog{}}
}

func (f *fakeVisitorStore) Create(ctx context.Context, v *models.VisitorLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v.ID = f.nextID
	stored := *v
	f.visits[v.ID] = &stored
	return nil
}

func (f *fakeVisitorStore) CheckOut(ctx context.Context, id int64, at time.Time) (*models.VisitorLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.visits[id]
	if !ok {
		return nil, apperrors.ErrVisitNotFound
	}
	if v.CheckedOutAt != nil {
		return nil, apperrors.ErrAlreadyCheckedOut
	}
	v.CheckedOutAt = &at
	out := *v
	return &out, nil
}

func (f *fakeVisitorStore) ListActive(ctx context.Context) ([]*models.VisitorLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.VisitorLog{}
	for _, v := range f.visits {
		if v.CheckedOutAt == nil {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeVisitorStore) List(ctx context.Context, offset uint64, limit int) ([]*models.VisitorLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.VisitorLog{}
	for _, v := range f.visits {
		cp := *v
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// Mail and blobs

type fakeMailer struct {
	mu        sync.Mutex
	err       error
	sent      [][]string
	deadlines []bool
	// release, when set, holds every send until it is closed
	release chan struct{}
}

func (f *fakeMailer) SendNotification(ctx context.Context, recipients []string, subject, message string) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.sent = append(f.sent, recipients)
	f.deadlines = append(f.deadlines, hasDeadline)
	return f.err
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePublisher struct {
	mu        sync.Mutex
	published map[int64][]string
}

func (f *fakePublisher) Publish(recipients []string, n *models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.published == nil {
		f.published = make(map[int64][]string)
	}
	f.published[n.ID] = recipients
}

type fakeBlobStore struct {
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeBlobStore) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := "http://localhost:8080/uploads/" + subPath + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeBlobStore) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}
