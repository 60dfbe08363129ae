package mysql

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Quote 报价实体（包含计算结果）
type Quote struct {
	// 基础字段
	ID        string `gorm:"column:id;primaryKey;type:varchar(64)"`
	Reference int64  `gorm:"column:reference;not null;uniqueIndex:uk_reference"`
	Provider  string `gorm:"column:provider;type:varchar(32);not null"`

	// 请求快照
	Request datatypes.JSON `gorm:"column:request;type:json;not null"`

	// 计算状态与结果
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:'CALCULATING';index:idx_status"`
	Result       datatypes.JSON `gorm:"column:result;type:json"`
	ErrorMessage string         `gorm:"column:error_message;type:varchar(512)"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Quote) TableName() string {
	return "quotes"
}

// RateRule 运费规则实体
// 规则字段整体存 JSON，按 position 排序求值
type RateRule struct {
	ID       int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Position int            `gorm:"column:position;not null;index:idx_position"`
	Fields   datatypes.JSON `gorm:"column:fields;type:json;not null"`
	Enabled  bool           `gorm:"column:enabled;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (RateRule) TableName() string {
	return "rate_rules"
}

// NewDB 创建数据库连接
func NewDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// CloseDB 关闭数据库连接
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
