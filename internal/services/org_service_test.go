package services

import (
	"context"
	"errors"
	"testing"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// orgState keeps companies, branches and employees in one in-memory tree
// so the cascade semantics of the repositories can be mirrored. The three
// store fakes below share it.
type orgState struct {
	nextID    int
	companies map[int]*models.Company
	branches  map[int]*models.Branch
	employees map[int]*models.Employee
}

func newOrgState() *orgState {
	return &orgState{
		companies: make(map[int]*models.Company),
		branches:  make(map[int]*models.Branch),
		employees: make(map[int]*models.Employee),
	}
}

type fakeCompanyStore struct{ *orgState }

func (f *fakeCompanyStore) CreateWithMainBranch(ctx context.Context, c *models.Company) error {
	f.nextID++
	c.ID = f.nextID
	c.IsActive = true
	copied := *c
	f.companies[c.ID] = &copied

	f.nextID++
	f.branches[f.nextID] = &models.Branch{
		ID:           f.nextID,
		BranchName:   "Main Branch",
		CompanyID:    c.ID,
		IsMainBranch: true,
		IsActive:     true,
	}
	return nil
}

func (f *fakeCompanyStore) Get(ctx context.Context, id int) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCompanyStore) List(ctx context.Context) ([]*models.Company, error) {
	var out []*models.Company
	for _, c := range f.companies {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeCompanyStore) UpdateProfile(ctx context.Context, id int, companyName, profilePic string) error {
	c, ok := f.companies[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.CompanyName = companyName
	c.ProfilePic = profilePic
	return nil
}

func (f *fakeCompanyStore) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	c, ok := f.companies[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.PasswordHash = passwordHash
	return nil
}

func (f *fakeCompanyStore) SetActiveStatusCascade(ctx context.Context, id int, isActive bool) error {
	if c, ok := f.companies[id]; ok {
		c.IsActive = isActive
	}
	for _, b := range f.branches {
		if b.CompanyID == id {
			b.IsActive = isActive
		}
	}
	for _, e := range f.employees {
		if e.CompanyID == id {
			e.IsActive = isActive
		}
	}
	return nil
}

type fakeBranchStore struct{ *orgState }

func (f *fakeBranchStore) Create(ctx context.Context, b *models.Branch) error {
	f.nextID++
	b.ID = f.nextID
	b.IsActive = true
	copied := *b
	f.branches[b.ID] = &copied
	return nil
}

func (f *fakeBranchStore) Get(ctx context.Context, id int) (*models.Branch, error) {
	b, ok := f.branches[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBranchStore) ListByCompany(ctx context.Context, companyID int) ([]*models.Branch, error) {
	var out []*models.Branch
	for _, b := range f.branches {
		if b.CompanyID == companyID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBranchStore) CountEmployeesByRole(ctx context.Context, branchID int) (*models.EmployeeCounts, error) {
	var counts models.EmployeeCounts
	for _, e := range f.employees {
		if e.BranchID != branchID {
			continue
		}
		counts.Total++
		switch e.Role {
		case models.RoleManager:
			counts.Managers++
		case models.RoleAsstManager:
			counts.AsstManagers++
		default:
			counts.GeneralEmployees++
		}
	}
	return &counts, nil
}

func (f *fakeBranchStore) SetActiveStatusCascade(ctx context.Context, id int, isActive bool) error {
	if b, ok := f.branches[id]; ok {
		b.IsActive = isActive
	}
	for _, e := range f.employees {
		if e.BranchID == id {
			e.IsActive = isActive
		}
	}
	return nil
}

type fakeEmployeeStore struct{ *orgState }

func (f *fakeEmployeeStore) Create(ctx context.Context, e *models.Employee) error {
	f.nextID++
	e.ID = f.nextID
	e.IsActive = true
	copied := *e
	f.employees[e.ID] = &copied
	return nil
}

func (f *fakeEmployeeStore) Get(ctx context.Context, id int) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEmployeeStore) List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	var out []*models.Employee
	for _, e := range f.employees {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeEmployeeStore) ToggleActiveStatus(ctx context.Context, id int, isActive bool) error {
	e, ok := f.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.IsActive = isActive
	return nil
}

func (f *fakeEmployeeStore) UpdateRole(ctx context.Context, id int, role string) error {
	e, ok := f.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Role = role
	return nil
}

func (f *fakeEmployeeStore) UpdateProfile(ctx context.Context, id int, employeeName, profilePic string) error {
	e, ok := f.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.EmployeeName = employeeName
	e.ProfilePic = profilePic
	return nil
}

func (f *fakeEmployeeStore) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	e, ok := f.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.PasswordHash = passwordHash
	return nil
}

func newOrgFixture() (*CompanyService, *BranchService, *EmployeeService, *orgState) {
	st := newOrgState()
	companies := NewCompanyService(&fakeCompanyStore{st})
	branches := NewBranchService(&fakeBranchStore{st})
	employees := NewEmployeeService(&fakeEmployeeStore{st}, &fakeBranchStore{st})
	return companies, branches, employees, st
}

func TestCreateCompanyProvisionsMainBranch(t *testing.T) {
	companies, branches, _, _ := newOrgFixture()

	company, err := companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{
		CompanyName: "Acme Ltd",
		Username:    "acme",
		Password:    "s3cret",
	}, 1)
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	if !auth.VerifyPassword(company.PasswordHash, "s3cret") {
		t.Error("stored password hash does not verify")
	}

	list, err := branches.ListBranches(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("branches = %d, want exactly the main branch", len(list))
	}
	if !list[0].IsMainBranch || !list[0].IsActive {
		t.Errorf("main branch = %+v, want active main branch", list[0])
	}
}

func TestCreateCompanyValidation(t *testing.T) {
	companies, _, _, _ := newOrgFixture()

	tests := []struct {
		name string
		req  models.CreateCompanyRequest
	}{
		{"empty name", models.CreateCompanyRequest{Username: "acme", Password: "x"}},
		{"empty username", models.CreateCompanyRequest{CompanyName: "Acme", Password: "x"}},
		{"empty password", models.CreateCompanyRequest{CompanyName: "Acme", Username: "acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := companies.CreateCompany(context.Background(), &tt.req, 1)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// Toggling a company off reaches every branch and employee under it and
// leaves other companies untouched. Toggling it back on restores them.
func TestCompanyDeactivationCascades(t *testing.T) {
	companies, branches, employees, st := newOrgFixture()

	acme, _ := companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{
		CompanyName: "Acme Ltd", Username: "acme", Password: "x",
	}, 1)
	other, _ := companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{
		CompanyName: "Globex", Username: "globex", Password: "x",
	}, 1)

	depot, _ := branches.CreateBranch(context.Background(), acme.ID, &models.CreateBranchRequest{BranchName: "Depot"})
	worker, _ := employees.CreateEmployee(context.Background(), &models.CreateEmployeeRequest{
		EmployeeName: "Pat", Username: "pat", Password: "x",
		Role: models.RoleEmployee, BranchID: depot.ID,
	}, acme.ID, models.RoleCompany, acme.ID)

	if err := companies.ToggleStatus(context.Background(), acme.ID, false); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}

	if st.companies[acme.ID].IsActive {
		t.Error("company still active after deactivation")
	}
	for _, b := range st.branches {
		if b.CompanyID == acme.ID && b.IsActive {
			t.Errorf("branch %d still active after company deactivation", b.ID)
		}
	}
	if st.employees[worker.ID].IsActive {
		t.Error("employee still active after company deactivation")
	}
	if !st.companies[other.ID].IsActive {
		t.Error("unrelated company caught by the cascade")
	}

	if err := companies.ToggleStatus(context.Background(), acme.ID, true); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if !st.branches[depot.ID].IsActive || !st.employees[worker.ID].IsActive {
		t.Error("reactivation did not cascade back down")
	}
}

// A branch toggle reaches the branch's employees only; sibling branches
// and the owning company keep their status.
func TestBranchDeactivationCascades(t *testing.T) {
	companies, branches, employees, st := newOrgFixture()

	acme, _ := companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{
		CompanyName: "Acme Ltd", Username: "acme", Password: "x",
	}, 1)
	depot, _ := branches.CreateBranch(context.Background(), acme.ID, &models.CreateBranchRequest{BranchName: "Depot"})
	annex, _ := branches.CreateBranch(context.Background(), acme.ID, &models.CreateBranchRequest{BranchName: "Annex"})

	inDepot, _ := employees.CreateEmployee(context.Background(), &models.CreateEmployeeRequest{
		EmployeeName: "Pat", Username: "pat", Password: "x",
		Role: models.RoleEmployee, BranchID: depot.ID,
	}, acme.ID, models.RoleCompany, acme.ID)
	inAnnex, _ := employees.CreateEmployee(context.Background(), &models.CreateEmployeeRequest{
		EmployeeName: "Sam", Username: "sam", Password: "x",
		Role: models.RoleEmployee, BranchID: annex.ID,
	}, acme.ID, models.RoleCompany, acme.ID)

	if err := branches.ToggleStatus(context.Background(), depot.ID, false); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}

	if st.branches[depot.ID].IsActive || st.employees[inDepot.ID].IsActive {
		t.Error("branch deactivation did not reach the branch and its employees")
	}
	if !st.branches[annex.ID].IsActive || !st.employees[inAnnex.ID].IsActive {
		t.Error("sibling branch caught by the cascade")
	}
	if !st.companies[acme.ID].IsActive {
		t.Error("branch cascade must not climb to the company")
	}
}

func TestCreateEmployeeForeignBranch(t *testing.T) {
	companies, branches, employees, _ := newOrgFixture()

	acme, _ := companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{
		CompanyName: "Acme Ltd", Username: "acme", Password: "x",
	}, 1)
	globex, _ := companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{
		CompanyName: "Globex", Username: "globex", Password: "x",
	}, 1)
	theirs, _ := branches.CreateBranch(context.Background(), globex.ID, &models.CreateBranchRequest{BranchName: "Theirs"})

	_, err := employees.CreateEmployee(context.Background(), &models.CreateEmployeeRequest{
		EmployeeName: "Pat", Username: "pat", Password: "x",
		Role: models.RoleEmployee, BranchID: theirs.ID,
	}, acme.ID, models.RoleCompany, acme.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for a branch of another company", err)
	}
}

func TestUpdateEmployeeRoleValidation(t *testing.T) {
	_, _, employees, _ := newOrgFixture()

	if err := employees.UpdateRole(context.Background(), 1, "director"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput for an unknown role", err)
	}
}
