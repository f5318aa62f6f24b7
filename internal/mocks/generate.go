// Package mocks provides gomock implementations of the repository ports in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockStudentRepository(ctrl)
//	repo.EXPECT().FindByNameClass(gomock.Any(), "Budi", "7A").Return(nil, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/spps-sekolah/spps-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=student_repository_mock.go github.com/spps-sekolah/spps-api/internal/core StudentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=violation_type_repository_mock.go github.com/spps-sekolah/spps-api/internal/core ViolationTypeRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=violation_repository_mock.go github.com/spps-sekolah/spps-api/internal/core ViolationRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=account_repository_mock.go github.com/spps-sekolah/spps-api/internal/core AccountRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=preference_repository_mock.go github.com/spps-sekolah/spps-api/internal/core PreferenceRepository
