package fixture

import (
	"github.com/hatlonely/fakemodel/cfg"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBOptions 数据库连接选项
type DBOptions struct {
	// 数据库驱动：sqlite, mysql
	Driver string `cfg:"driver" def:"sqlite" validate:"oneof=sqlite mysql"`
	// 数据源名称，sqlite 为文件路径或 :memory:
	DSN string `cfg:"dsn" validate:"required"`
	// gorm 日志级别：silent, error, warn, info
	LogLevel string `cfg:"logLevel" yaml:"logLevel" def:"silent" validate:"oneof=silent error warn info"`

	// 非空时忽略 LogLevel
	GormConfig *gorm.Config `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
}

func Open(options *DBOptions) (*gorm.DB, error) {
	if options == nil {
		return nil, errors.New("db options is required")
	}
	opts := *options
	if err := cfg.SetDefaults(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.SetDefaults failed")
	}
	if err := cfg.Validate(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.Validate failed")
	}

	gormConfig := opts.GormConfig
	if gormConfig == nil {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logLevel(opts.LogLevel)),
		}
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "mysql":
		dialector = mysql.Open(opts.DSN)
	default:
		dialector = sqlite.Open(opts.DSN)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database failed", opts.Driver)
	}

	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
