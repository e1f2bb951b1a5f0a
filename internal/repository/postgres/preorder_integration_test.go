//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/repository"
)

type PreorderRepositorySuite struct {
	suite.Suite
	container testcontainers.Container
	db        *sql.DB
	repo      repository.PreorderRepository
}

func (s *PreorderRepositorySuite) SetupSuite() {
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "preorders",
				"POSTGRES_PASSWORD": "preorders",
				"POSTGRES_DB":       "preorders",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = c

	host, err := c.Host(ctx)
	s.Require().NoError(err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	dsn := fmt.Sprintf("postgres://preorders:preorders@%s:%s/preorders?sslmode=disable", host, port.Port())
	s.db, err = InitDB(ctx, dsn)
	s.Require().NoError(err)
	s.repo = NewPreorderRepository(s.db)
}

func (s *PreorderRepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

func (s *PreorderRepositorySuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE preorders")
	s.Require().NoError(err)
}

func (s *PreorderRepositorySuite) TestCreateStoresPendingRow() {
	ctx := context.Background()
	req := entity.PreorderRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ProductType: entity.ProductShorts,
		Size:        entity.SizeM,
		DeviceType:  entity.DeviceAppleWatch,
	}

	rec, err := s.repo.Create(ctx, req)
	s.Require().NoError(err)
	s.NotEmpty(rec.ID)
	s.Equal(entity.StatusPending, rec.Status)
	s.False(rec.CreatedAt.IsZero())

	got, err := s.repo.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(req, got.Request())
	s.Equal(entity.StatusPending, got.Status)
}

func (s *PreorderRepositorySuite) TestIdenticalSubmissionsAreNotDeduplicated() {
	ctx := context.Background()
	req := entity.PreorderRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		ProductType: entity.ProductShirts, Size: entity.SizeL, DeviceType: entity.DeviceNone,
	}

	first, err := s.repo.Create(ctx, req)
	s.Require().NoError(err)
	second, err := s.repo.Create(ctx, req)
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)

	recent, err := s.repo.FindRecent(ctx, 10)
	s.Require().NoError(err)
	s.Len(recent, 2)
}

func (s *PreorderRepositorySuite) TestFindByIDMissing() {
	_, err := s.repo.FindByID(context.Background(), "8d6b3c1e-0000-4000-8000-000000000000")
	s.ErrorIs(err, repository.ErrNotFound)
}

func TestPreorderRepositorySuite(t *testing.T) {
	suite.Run(t, new(PreorderRepositorySuite))
}
