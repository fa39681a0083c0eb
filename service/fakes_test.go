package service

import (
	"fmt"
	"sjdportal/models"
	"sync"
	"time"
)

// In-memory store fakes. They mirror the repository contracts, including the
// version compare-and-set and the wrapped sentinel errors, so service tests
// exercise the same failure surface the MySQL repositories produce.

type fakeSequenceStore struct {
	mu   sync.Mutex
	seqs map[int]int64
}

func newFakeSequenceStore() *fakeSequenceStore {
	return &fakeSequenceStore{seqs: make(map[int]int64)}
}

func (f *fakeSequenceStore) NextSequence(year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqs[year]++
	return f.seqs[year], nil
}

type fakeAccountStore struct {
	accounts map[int64]models.Account
}

func newFakeAccountStore(accounts ...models.Account) *fakeAccountStore {
	f := &fakeAccountStore{accounts: make(map[int64]models.Account)}
	for _, a := range accounts {
		f.accounts[a.AccountID] = a
	}
	return f
}

func (f *fakeAccountStore) RoleExists(role models.ActorRole, id int64) (bool, error) {
	a, ok := f.accounts[id]
	return ok && a.Role == role, nil
}

func (f *fakeAccountStore) GetName(id int64) (string, error) {
	return f.accounts[id].Name, nil
}

func (f *fakeAccountStore) GetByEmail(email string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			copy := a
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", email, models.ErrNotFound)
}

type fakeComplaintStore struct {
	mu         sync.Mutex
	nextID     int64
	complaints map[int64]*models.Complaint
	updates    map[int64][]models.ComplaintUpdate
	forwards   map[int64][]models.ComplaintForward
	clock      time.Time
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{
		complaints: make(map[int64]*models.Complaint),
		updates:    make(map[int64][]models.ComplaintUpdate),
		forwards:   make(map[int64][]models.ComplaintForward),
		clock:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so append order is
// unambiguous in timeline assertions.
func (f *fakeComplaintStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeComplaintStore) CreateComplaint(c *models.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ComplaintID = f.nextID
	c.Version = 1
	c.CreatedAt = f.tick()
	stored := *c
	f.complaints[c.ComplaintID] = &stored
	return nil
}

func (f *fakeComplaintStore) GetComplaintByID(id int64) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return nil, fmt.Errorf("complaint %d: %w", id, models.ErrNotFound)
	}
	copy := *c
	return &copy, nil
}

func (f *fakeComplaintStore) GetComplaintByTrackingID(trackingID string) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.complaints {
		if c.TrackingID == trackingID {
			copy := *c
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("tracking id %q: %w", trackingID, models.ErrNotFound)
}

func (f *fakeComplaintStore) AppendStatusUpdate(u *models.ComplaintUpdate, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[u.ComplaintID]
	if !ok {
		return fmt.Errorf("complaint %d: %w", u.ComplaintID, models.ErrNotFound)
	}
	if c.Version != expectedVersion {
		return fmt.Errorf("complaint %d: %w", u.ComplaintID, models.ErrConflict)
	}
	c.Version++
	c.Status = u.Status
	u.UpdateID = int64(len(f.updates[u.ComplaintID]) + 1)
	u.CreatedAt = f.tick()
	f.updates[u.ComplaintID] = append(f.updates[u.ComplaintID], *u)
	return nil
}

func (f *fakeComplaintStore) AppendForward(fw *models.ComplaintForward, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[fw.ComplaintID]
	if !ok {
		return fmt.Errorf("complaint %d: %w", fw.ComplaintID, models.ErrNotFound)
	}
	if c.Version != expectedVersion {
		return fmt.Errorf("complaint %d: %w", fw.ComplaintID, models.ErrConflict)
	}
	c.Version++
	c.Status = models.StatusForwarded
	fw.ForwardID = int64(len(f.forwards[fw.ComplaintID]) + 1)
	fw.CreatedAt = f.tick()
	f.forwards[fw.ComplaintID] = append(f.forwards[fw.ComplaintID], *fw)
	return nil
}

func (f *fakeComplaintStore) GetUpdates(id int64) ([]models.ComplaintUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ComplaintUpdate(nil), f.updates[id]...), nil
}

func (f *fakeComplaintStore) GetForwards(id int64) ([]models.ComplaintForward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ComplaintForward(nil), f.forwards[id]...), nil
}

func (f *fakeComplaintStore) GetLatestForward(id int64) (*models.ComplaintForward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fws := f.forwards[id]
	if len(fws) == 0 {
		return nil, nil
	}
	copy := fws[len(fws)-1]
	return &copy, nil
}

func (f *fakeComplaintStore) ListForActor(actor models.Actor) ([]models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Complaint
	for _, c := range f.complaints {
		switch actor.Role {
		case models.RoleCitizen:
			if c.CitizenID.Valid && c.CitizenID.Int64 == actor.ID {
				out = append(out, *c)
			}
		case models.RoleDM, models.RoleSuperadmin:
			out = append(out, *c)
		default:
			if c.FiledByOfficerID.Valid && c.FiledByOfficerID.Int64 == actor.ID {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (f *fakeComplaintStore) StatsForDate(officerID *int64, date time.Time) (models.VisitStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.VisitStats
	for _, c := range f.complaints {
		if officerID != nil {
			if !c.FiledByOfficerID.Valid || c.FiledByOfficerID.Int64 != *officerID {
				continue
			}
		}
		y1, m1, d1 := c.CreatedAt.Date()
		y2, m2, d2 := date.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			continue
		}
		stats.Total++
		switch c.Status {
		case models.StatusResolved:
			stats.Solved++
		case models.StatusPending:
			stats.Pending++
		case models.StatusForwarded:
			stats.Forwarded++
		case models.StatusRejected:
			stats.Rejected++
		case models.StatusInProgress:
			stats.InProgress++
		}
	}
	return stats, nil
}

type fakeVisitStore struct {
	mu          sync.Mutex
	nextID      int64
	assignments map[int64]*models.VisitAssignment
	reports     map[int64]*models.VisitReport
}

func newFakeVisitStore() *fakeVisitStore {
	return &fakeVisitStore{
		assignments: make(map[int64]*models.VisitAssignment),
		reports:     make(map[int64]*models.VisitReport),
	}
}

func (f *fakeVisitStore) CreateAssignment(a *models.VisitAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.AssignmentID = f.nextID
	a.CreatedAt = time.Now()
	stored := *a
	f.assignments[a.AssignmentID] = &stored
	return nil
}

func (f *fakeVisitStore) GetAssignmentByID(id int64) (*models.VisitAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, fmt.Errorf("visit assignment %d: %w", id, models.ErrNotFound)
	}
	copy := *a
	if rep, ok := f.reports[id]; ok {
		repCopy := *rep
		copy.Report = &repCopy
	}
	return &copy, nil
}

func (f *fakeVisitStore) ListByDM(dmID int64) ([]models.VisitAssignment, error) {
	return f.list(func(a *models.VisitAssignment) bool { return a.DMID == dmID })
}

func (f *fakeVisitStore) ListByOfficer(officerID int64) ([]models.VisitAssignment, error) {
	return f.list(func(a *models.VisitAssignment) bool { return a.OfficerID == officerID })
}

func (f *fakeVisitStore) list(match func(*models.VisitAssignment) bool) ([]models.VisitAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VisitAssignment
	for _, a := range f.assignments {
		if match(a) {
			copy := *a
			if rep, ok := f.reports[a.AssignmentID]; ok {
				repCopy := *rep
				copy.Report = &repCopy
			}
			out = append(out, copy)
		}
	}
	return out, nil
}

func (f *fakeVisitStore) UpsertReport(r *models.VisitReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *r
	f.reports[r.AssignmentID] = &stored
	return nil
}
