// Package mocks provides mock implementations for testing the jobops services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(job, nil)
package mocks

// Repository ports from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/target/jobops-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/target/jobops-api/internal/core JobRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=task_repository_mock.go github.com/target/jobops-api/internal/core TaskRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=equipment_repository_mock.go github.com/target/jobops-api/internal/core EquipmentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=requirement_repository_mock.go github.com/target/jobops-api/internal/core RequirementRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=lifecycle_repository_mock.go github.com/target/jobops-api/internal/core LifecycleRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sweep_repository_mock.go github.com/target/jobops-api/internal/core SweepRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=dashboard_repository_mock.go github.com/target/jobops-api/internal/core DashboardRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=analytics_repository_mock.go github.com/target/jobops-api/internal/core AnalyticsRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=lock_repository_mock.go github.com/target/jobops-api/internal/core LockRepository

// Outbound ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=event_publisher_mock.go github.com/target/jobops-api/internal/ports EventPublisher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_verifier_mock.go github.com/target/jobops-api/internal/ports TokenVerifier
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=metrics_sink_mock.go github.com/target/jobops-api/internal/observability/metrics Sink
