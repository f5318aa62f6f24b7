package core

import (
	"context"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository persists application profiles keyed by the provider account id.
type UserRepository interface {
	List(ctx context.Context) ([]*domainauth.User, error)
	GetByID(ctx context.Context, id string) (*domainauth.User, error)
	// Create inserts a profile with the caller's id. Returns data.ErrUserExists on a duplicate id.
	Create(ctx context.Context, user *domainauth.User) (*domainauth.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*domainauth.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StudentRepository defines the interface for roster data operations.
type StudentRepository interface {
	List(ctx context.Context) ([]*model.Student, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	// FindByNameClass returns students matching (name, className) case-insensitively.
	FindByNameClass(ctx context.Context, name, className string) ([]*model.Student, error)
	Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error)
	// CreateMany inserts in one transaction, skipping rows that collide with the uniqueness key.
	// It returns only the rows actually inserted, in input order.
	CreateMany(ctx context.Context, reqs []*model.CreateStudentRequest) ([]*model.Student, error)
	// Update writes the mutable fields of student (matched by ID).
	Update(ctx context.Context, student *model.Student) (*model.Student, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ViolationTypeRepository defines the interface for violation catalog operations.
type ViolationTypeRepository interface {
	List(ctx context.Context) ([]*model.ViolationType, error)
	GetByID(ctx context.Context, id string) (*model.ViolationType, error)
	// FindByName returns types whose name matches case-insensitively.
	FindByName(ctx context.Context, name string) ([]*model.ViolationType, error)
	Create(ctx context.Context, req *model.ViolationTypeRequest) (*model.ViolationType, error)
	Update(ctx context.Context, id string, req *model.ViolationTypeRequest) (*model.ViolationType, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ViolationRepository defines the interface for violation ledger operations.
type ViolationRepository interface {
	List(ctx context.Context, opts model.ViolationListOptions) ([]*model.Violation, error)
	GetByID(ctx context.Context, id string) (*model.Violation, error)
	Create(ctx context.Context, req *model.CreateViolationRequest) (*model.Violation, error)
	Update(ctx context.Context, id string, req model.UpdateViolationRequest) (*model.Violation, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AccountRepository stores local provider credentials.
type AccountRepository interface {
	GetByIdentifier(ctx context.Context, identifier string) (*domainauth.Credential, error)
	Create(ctx context.Context, cred *domainauth.Credential) (*domainauth.Credential, error)
}

// PreferenceRepository stores small opaque values under namespaced keys.
type PreferenceRepository interface {
	// Get returns nil without error when the key is unset.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
