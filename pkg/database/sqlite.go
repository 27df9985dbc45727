package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteConfig SQLite 配置（单机部署与测试使用）
type SQLiteConfig struct {
	ServiceName string // 服务名称，用于日志标识
	Path        string // 数据库文件路径，也可以是 file: URI
	LogLevel    string // 日志级别: silent, error, warn, info
}

// InitSQLite 初始化 SQLite 连接
// SQLite 同一时间只允许一个写者，连接池限制为 1，避免 SQLITE_BUSY
func InitSQLite(config *SQLiteConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("sqlite 路径不能为空")
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	db, err := gorm.Open(sqlite.Open(config.Path), gormConfig(config.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	// 外键约束在 SQLite 中默认关闭
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("开启外键约束失败: %w", err)
	}

	slog.Info("数据库连接成功", "service", serviceName(config.ServiceName), "driver", "sqlite")
	return db, nil
}
