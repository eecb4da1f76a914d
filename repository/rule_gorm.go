package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainRule "github.com/AzielCF/az-reply/domains/rule"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ruleModel struct {
	ID      string `gorm:"primaryKey;size:64"`
	Keyword string `gorm:"size:50;uniqueIndex"`
	Reply   string `gorm:"size:500"`
	// SortOrder is the position in the in-memory set (0 = newest). Ordering
	// by created_at alone is not stable when two rules share a timestamp.
	SortOrder int       `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
}

func (ruleModel) TableName() string {
	return "keyword_rules"
}

type ruleGormRepository struct {
	db *gorm.DB
}

// NewRuleGormRepository opens the rules database. Postgres is selected when
// the DSN looks like a postgres URI, sqlite otherwise.
func NewRuleGormRepository(dsn string) (domainRule.IRuleRepository, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open rules database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	if _, isSqlite := dialector.(*sqlite.Dialector); isSqlite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &ruleGormRepository{db: db}, nil
}

func (r *ruleGormRepository) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&ruleModel{})
}

func (r *ruleGormRepository) LoadAll(ctx context.Context) ([]domainRule.KeywordRule, error) {
	var models []ruleModel
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	rules := make([]domainRule.KeywordRule, 0, len(models))
	for _, m := range models {
		// A single bad record invalidates the whole set: rules must round
		// trip with a real timestamp and a non-blank keyword.
		if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Keyword) == "" || strings.TrimSpace(m.Reply) == "" || m.CreatedAt.IsZero() {
			return nil, fmt.Errorf("corrupted rule record %q, discarding rule set", m.ID)
		}
		rules = append(rules, domainRule.KeywordRule{
			ID:        m.ID,
			Keyword:   m.Keyword,
			Reply:     m.Reply,
			CreatedAt: m.CreatedAt,
		})
	}
	return rules, nil
}

func (r *ruleGormRepository) SaveAll(ctx context.Context, rules []domainRule.KeywordRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ruleModel{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		models := make([]ruleModel, len(rules))
		for i, rule := range rules {
			models[i] = ruleModel{
				ID:        rule.ID,
				Keyword:   rule.Keyword,
				Reply:     rule.Reply,
				SortOrder: i,
				CreatedAt: rule.CreatedAt,
			}
		}
		return tx.Create(&models).Error
	})
}
