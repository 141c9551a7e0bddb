package db

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/types"
  "github.com/stockyard-org/stockyard-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  //1) Get and Set Environment Variables
  log.Info("Attempting to load environment variables for Postgres now...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "stockyard", log)
  log.Info("Environment variables loaded for Postgres :)")

  //2) Construct DSN From Environment Variables
  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  //3) Attempt DB Connection
  log.Info("Attempting to connect to Postgres DB now...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres DB", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres DB: %w", err)
  }
  log.Info("Successfully Connected to Postgres DB :)")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")

  err := s.db.AutoMigrate(
    &types.User{},
    &types.Client{},
    &types.Warehouse{},
    &types.Record{},
    &types.UserToken{},
  )
  if err != nil {
    s.log.Error("AutoMigrateAll failed for Base Tables :(", "error", err)
    return err
  }
  s.log.Info("AutoMigrateAll completed successfully for Base Tables :)")

  s.log.Info("Configuring Foreign Key Relationships for Base Tables now...")
  // -- Client.user_id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "client"
      ADD CONSTRAINT "fk_client_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_client_user_id: %w", err)
  }
  // -- Warehouse.client_id => client.user_id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "warehouse"
      ADD CONSTRAINT "fk_warehouse_client_id"
      FOREIGN KEY ("client_id")
      REFERENCES "client"("user_id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_warehouse_client_id: %w", err)
  }
  // -- Record.warehouse_id => warehouse.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "record"
      ADD CONSTRAINT "fk_record_warehouse_id"
      FOREIGN KEY ("warehouse_id")
      REFERENCES "warehouse"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_record_warehouse_id: %w", err)
  }
  // -- UserToken.user_id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "user_token"
      ADD CONSTRAINT "fk_user_token_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_user_token_user_id: %w", err)
  }
  s.log.Info("Successfully Added Foreign Key Relationships to Base Tables :)")

  return nil
}

// EnsureAdminUser creates the initial staff account when none exists so a
// fresh deployment has a way to register clients.
func (s *PostgresService) EnsureAdminUser(ctx context.Context, username, password string) error {
  if username == "" || password == "" {
    s.log.Info("Admin bootstrap skipped, no credentials configured")
    return nil
  }
  var count int64
  if err := s.db.WithContext(ctx).Model(&types.User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
    return fmt.Errorf("failed to count staff users: %w", err)
  }
  if count > 0 {
    s.log.Info("Admin bootstrap skipped, a staff user already exists")
    return nil
  }
  hashed, err := utils.HashPassword(s.log, password)
  if err != nil {
    return err
  }
  admin := &types.User{
    ID:          uuid.New(),
    Username:    username,
    Password:    hashed,
    IsStaff:     true,
    IsSuperuser: true,
    IsActive:    true,
  }
  if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
    return fmt.Errorf("failed to create admin user: %w", err)
  }
  s.log.Info("Admin user bootstrapped", "username", username)
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
