package archive

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IntegrationRecord is the persisted summary of one completed integration
// run. The engine itself never writes these; the API layer archives a record
// after a successful integrate step when an archive is configured.
type IntegrationRecord struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	RunID           string    `json:"run_id" gorm:"type:varchar(64);not null;index"`
	RunName         string    `json:"run_name" gorm:"type:varchar(255)"`
	RowsA           int       `json:"rows_a"`
	RowsB           int       `json:"rows_b"`
	RowsUnified     int       `json:"rows_unified"`
	UnmatchedA      int       `json:"unmatched_a_count"`
	UnmatchedB      int       `json:"unmatched_b_count"`
	JoinKeySource   string    `json:"join_key_source" gorm:"type:varchar(255)"`
	JoinKeyTarget   string    `json:"join_key_target" gorm:"type:varchar(255)"`
	JoinKeyScore    float64   `json:"join_key_score"`
	IntegrationRate float64   `json:"integration_rate"`
	PassRatePercent float64   `json:"pass_rate_percent"`
	TotalAnomalies  int       `json:"total_anomalies"`
	MappingJSON     string    `json:"mapping_json" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Config selects and parameterizes the archive database. Driver is "sqlite"
// or "postgres".
type Config struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
}

// Archive persists integration run summaries.
type Archive struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(cfg Config) (*Archive, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported archive driver: %q (want sqlite or postgres)", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}

	if err := db.AutoMigrate(&IntegrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}
	log.Printf("Archive database ready (driver: %s)", cfg.Driver)
	return &Archive{db: db}, nil
}

// Save inserts one integration record.
func (a *Archive) Save(record IntegrationRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := a.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save integration record: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (a *Archive) List(limit int) ([]IntegrationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []IntegrationRecord
	if err := a.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list integration records: %w", err)
	}
	return records, nil
}
