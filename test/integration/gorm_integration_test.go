package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-trainer-be/internal/constant"
	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/repository/specification"
	"avatar-trainer-be/internal/repository/unitofwork"
	"avatar-trainer-be/pkg/database"
	"avatar-trainer-be/pkg/scenario"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.TurnRepository())
	assert.NotNil(t, uow.ArchetypeRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Session round trip", func(t *testing.T) {
		ctx := context.Background()

		session := &entity.Session{
			TraineeName: "Integration Smoke",
			Mode:        constant.ModeTraining,
			Plan: &scenario.Plan{
				ArchetypeId: "fees_dispute",
				Persona:     scenario.PersonaAnxious,
				Difficulty:  scenario.DifficultySimple,
				Goal:        "integration",
			},
			StepsTotal: 8,
			Status:     constant.StatusActive,
		}
		require.NoError(t, uow.SessionRepository().Create(ctx, session))
		defer func() {
			_ = uow.SessionRepository().Delete(ctx, session.Id)
		}()

		turn := &entity.Turn{
			SessionId: session.Id,
			Role:      constant.RoleClient,
			Text:      "Почему с меня списали комиссию?",
		}
		require.NoError(t, uow.TurnRepository().Create(ctx, turn))

		found, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Integration Smoke", found.TraineeName)
		require.NotNil(t, found.Plan)
		assert.Equal(t, "fees_dispute", found.Plan.ArchetypeId)

		count, err := uow.TurnRepository().Count(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.ByRole{Role: constant.RoleClient},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Missing session id resolves to nil", func(t *testing.T) {
		found, err := uow.SessionRepository().FindOne(context.Background(), specification.ByID{ID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
