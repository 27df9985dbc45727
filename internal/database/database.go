package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/config"
	"terminal-terrace/journal-wiki/internal/model"
	dbPkg "terminal-terrace/journal-wiki/pkg/database"
)

const serviceName = "journal-wiki"

// Open 根据配置的驱动打开数据库连接
func Open(conf config.DatabaseConfig) (*gorm.DB, error) {
	// 设置默认日志级别
	logLevel := conf.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}

	switch conf.Driver {
	case "sqlite":
		return dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
			ServiceName: serviceName,
			Path:        conf.Path,
			LogLevel:    logLevel,
		})
	case "postgres", "":
		return dbPkg.InitPostgres(&dbPkg.PostgresConfig{
			ServiceName:     serviceName,
			Username:        conf.Username,
			Password:        conf.Password,
			Host:            conf.Host,
			Port:            conf.Port,
			Database:        conf.Database,
			SSLMode:         conf.SSLMode,
			LogLevel:        logLevel,
			MaxIdleConns:    conf.MaxIdleConns,
			MaxOpenConns:    conf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
		})
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", conf.Driver)
	}
}

// InitDatabase 打开数据库并迁移表结构
func InitDatabase(conf config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}

	// 初始化数据库表
	if err := model.InitTable(db); err != nil {
		return nil, fmt.Errorf("初始化数据库表失败: %w", err)
	}
	return db, nil
}

// InitRedis 连接 Redis，未启用时返回 nil
func InitRedis(conf config.RedisConfig) (*dbPkg.RedisClient, error) {
	if !conf.Enabled {
		return nil, nil
	}
	return dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: serviceName,
		Host:        conf.Host,
		Port:        conf.Port,
		Password:    conf.Password,
		DB:          conf.DB,
		PoolSize:    conf.PoolSize,
	})
}

// Close 关闭底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
