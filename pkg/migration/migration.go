package migration

import "gorm.io/gorm"

var autoMigrateModels []interface{}

// RegisterAutoMigrateModels 模型包在init中注册，Init数据库时统一迁移
func RegisterAutoMigrateModels(models ...interface{}) {
	autoMigrateModels = append(autoMigrateModels, models...)
}

func AutoMigrate(db *gorm.DB) error {
	if len(autoMigrateModels) == 0 {
		return nil
	}
	return db.AutoMigrate(autoMigrateModels...)
}
