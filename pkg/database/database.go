package database

import (
	"fmt"

	"github.com/luminshop/payments/pkg/migration"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// Init 打开数据库并执行自动迁移；dsn为空时跳过，支付流水不落库
func Init(dsn string) error {
	if dsn == "" {
		return nil
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := migration.AutoMigrate(conn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	db = conn
	return nil
}

func Database() *gorm.DB {
	return db
}

// Enabled 数据库是否已配置
func Enabled() bool {
	return db != nil
}
