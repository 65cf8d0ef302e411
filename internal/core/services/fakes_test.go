package services

import (
	"context"
	"sort"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/core/domain"

	"gorm.io/gorm"
)

// store is the shared in-memory backing for the repository fakes.
type store struct {
	users        map[uint]*models.User
	sessions     map[uint]*models.Session
	clients      map[uint]*models.Client
	applications map[uint]*models.Application
	loans        map[uint]*models.Loan
	activities   []*models.Activity
	products     map[string]*models.LoanProduct
	nextID       uint
}

func newStore() *store {
	return &store{
		users:        map[uint]*models.User{},
		sessions:     map[uint]*models.Session{},
		clients:      map[uint]*models.Client{},
		applications: map[uint]*models.Application{},
		loans:        map[uint]*models.Loan{},
		products:     map[string]*models.LoanProduct{},
	}
}

func (s *store) id() uint {
	s.nextID++
	return s.nextID
}

// newFakeRepos wires every repository fake around one store and returns
// the bundle plus a transaction manager that runs the callback against
// the same bundle. Transactionality itself is exercised against a real
// database; here the fakes give the services deterministic storage.
func newFakeRepos() (*repositories.Repositories, *store) {
	s := newStore()
	repos := &repositories.Repositories{
		Users:        &fakeUsers{s: s},
		Sessions:     &fakeSessions{s: s},
		Clients:      &fakeClients{s: s},
		Applications: &fakeApplications{s: s},
		Loans:        &fakeLoans{s: s},
		Activities:   &fakeActivities{s: s},
		LoanProducts: &fakeProducts{s: s},
	}
	return repos, s
}

type fakeTxManager struct {
	repos *repositories.Repositories
}

func (m *fakeTxManager) Do(_ context.Context, fn func(tx *repositories.Repositories) error) error {
	return fn(m.repos)
}

// ---- users ----

type fakeUsers struct{ s *store }

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	user.ID = f.s.id()
	user.CreatedAt = time.Now()
	f.s.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

// ---- sessions ----

type fakeSessions struct{ s *store }

func (f *fakeSessions) Create(_ context.Context, session *models.Session) error {
	session.ID = f.s.id()
	session.CreatedAt = time.Now()
	f.s.sessions[session.ID] = session
	return nil
}

func (f *fakeSessions) GetByTokenHash(_ context.Context, tokenHash string) (*models.Session, error) {
	for _, sess := range f.s.sessions {
		if sess.TokenHash == tokenHash {
			return sess, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessions) Delete(_ context.Context, id uint) error {
	delete(f.s.sessions, id)
	return nil
}

func (f *fakeSessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	for id, sess := range f.s.sessions {
		if sess.TokenHash == tokenHash {
			delete(f.s.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context) error {
	for id, sess := range f.s.sessions {
		if sess.IsExpired() {
			delete(f.s.sessions, id)
		}
	}
	return nil
}

// ---- clients ----

type fakeClients struct{ s *store }

func (f *fakeClients) Create(_ context.Context, client *models.Client) error {
	client.ID = f.s.id()
	client.CreatedAt = time.Now()
	f.s.clients[client.ID] = client
	return nil
}

func (f *fakeClients) GetByID(_ context.Context, id uint) (*models.Client, error) {
	if c, ok := f.s.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClients) GetByEmail(_ context.Context, email string) (*models.Client, error) {
	for _, c := range f.s.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClients) List(_ context.Context) ([]*models.Client, error) {
	out := make([]*models.Client, 0, len(f.s.clients))
	for _, c := range f.s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClients) Update(_ context.Context, client *models.Client) error {
	f.s.clients[client.ID] = client
	return nil
}

func (f *fakeClients) UpdateProfileByEmail(_ context.Context, email string, fields map[string]interface{}) error {
	for _, c := range f.s.clients {
		if c.Email != email {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			c.Name = v
		}
		if v, ok := fields["phone"].(string); ok {
			c.Phone = v
		}
		if v, ok := fields["type"].(string); ok {
			c.Type = v
		}
	}
	return nil
}

func (f *fakeClients) Delete(_ context.Context, id uint) error {
	delete(f.s.clients, id)
	return nil
}

func (f *fakeClients) Count(_ context.Context) (int64, error) {
	return int64(len(f.s.clients)), nil
}

func (f *fakeClients) IncrementLoanStats(_ context.Context, id uint, amount float64) error {
	c, ok := f.s.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.ActiveLoans++
	c.TotalLoans++
	c.TotalBorrowed += amount
	return nil
}

// ---- applications ----

type fakeApplications struct{ s *store }

func (f *fakeApplications) Create(_ context.Context, app *models.Application) error {
	app.ID = f.s.id()
	app.CreatedAt = time.Now()
	f.s.applications[app.ID] = app
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id uint) (*models.Application, error) {
	if a, ok := f.s.applications[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApplications) List(_ context.Context) ([]*models.Application, error) {
	out := make([]*models.Application, 0, len(f.s.applications))
	for _, a := range f.s.applications {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeApplications) ListByEmail(_ context.Context, email string) ([]*models.Application, error) {
	var out []*models.Application
	for _, a := range f.s.applications {
		if a.Email == email {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeApplications) UpdateStatusIf(_ context.Context, id uint, expected, newStatus string) (bool, error) {
	a, ok := f.s.applications[id]
	if !ok || a.Status != expected {
		return false, nil
	}
	a.Status = newStatus
	return true, nil
}

func (f *fakeApplications) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, a := range f.s.applications {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// ---- loans ----

type fakeLoans struct{ s *store }

func (f *fakeLoans) Create(_ context.Context, loan *models.Loan) error {
	loan.ID = f.s.id()
	loan.CreatedAt = time.Now()
	f.s.loans[loan.ID] = loan
	return nil
}

func (f *fakeLoans) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	if l, ok := f.s.loans[id]; ok {
		copy := *l
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoans) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeLoans) Update(_ context.Context, loan *models.Loan) error {
	if _, ok := f.s.loans[loan.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copy := *loan
	f.s.loans[loan.ID] = &copy
	return nil
}

func (f *fakeLoans) List(_ context.Context) ([]*models.Loan, error) {
	out := make([]*models.Loan, 0, len(f.s.loans))
	for _, l := range f.s.loans {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeLoans) ListByClient(_ context.Context, clientID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range f.s.loans {
		if l.ClientID == clientID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DisbursedDate.Equal(out[j].DisbursedDate) {
			return out[i].DisbursedDate.After(out[j].DisbursedDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeLoans) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, l := range f.s.loans {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeLoans) SumDisbursedSince(_ context.Context, since time.Time) (float64, error) {
	var total float64
	for _, l := range f.s.loans {
		if !l.DisbursedDate.Before(since) {
			total += l.Amount
		}
	}
	return total, nil
}

func (f *fakeLoans) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, l := range f.s.loans {
		if l.Status == domain.LoanStatusActive && l.DueDate.Before(now) {
			l.Status = domain.LoanStatusOverdue
			n++
		}
	}
	return n, nil
}

// ---- activities ----

type fakeActivities struct{ s *store }

func (f *fakeActivities) Create(_ context.Context, activity *models.Activity) error {
	activity.ID = f.s.id()
	f.s.activities = append(f.s.activities, activity)
	return nil
}

func (f *fakeActivities) ListRecent(_ context.Context, limit int) ([]*models.Activity, error) {
	out := make([]*models.Activity, 0, limit)
	for i := len(f.s.activities) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.s.activities[i])
	}
	return out, nil
}

// ---- loan products ----

type fakeProducts struct{ s *store }

func (f *fakeProducts) GetByName(_ context.Context, name string) (*models.LoanProduct, error) {
	if p, ok := f.s.products[name]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProducts) List(_ context.Context) ([]*models.LoanProduct, error) {
	out := make([]*models.LoanProduct, 0, len(f.s.products))
	for _, p := range f.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
