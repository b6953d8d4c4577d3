package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgerrors "nexus-lab/backend/pkg/errors"
)

// ── PostgreSQL TEXT[] 日期集合自定义类型 ──

// DateList 预约日期集合，对应 PostgreSQL TEXT[]，元素为 ISO 日期（2006-01-02）。
// 实现 GORM Scanner/Valuer 接口；空集合或非法元素在存储边界即被拒绝。
type DateList []string

// Scan 将 PostgreSQL 返回的 {2025-03-01,2025-03-08} 文本解析为日期列表。
func (d *DateList) Scan(src interface{}) error {
	if src == nil {
		return pkgerrors.ErrMalformedDateSet
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("DateList.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		return pkgerrors.ErrMalformedDateSet
	}
	parts := strings.Split(s, ",")
	list := make(DateList, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if _, err := time.Parse("2006-01-02", p); err != nil {
			return fmt.Errorf("DateList.Scan: %w: %q", pkgerrors.ErrMalformedDateSet, p)
		}
		list = append(list, p)
	}
	*d = list
	return nil
}

// Value 将日期列表序列化为 PostgreSQL {…} 文本
func (d DateList) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, pkgerrors.ErrMalformedDateSet
	}
	for _, p := range d {
		if _, err := time.Parse("2006-01-02", p); err != nil {
			return nil, fmt.Errorf("DateList.Value: %w: %q", pkgerrors.ErrMalformedDateSet, p)
		}
	}
	return "{" + strings.Join(d, ",") + "}", nil
}

// Contains 判断集合中是否包含指定日期
func (d DateList) Contains(date string) bool {
	for _, v := range d {
		if v == date {
			return true
		}
	}
	return false
}

// ── 分钟粒度时刻类型 ──

// ClockTime 分钟粒度时刻 "HH:MM"，对应 PostgreSQL TIME 列。
// TIME 列经文本协议回读为 "HH:MM:SS"，Scan 时裁剪到分钟，
// 保证存储侧与请求侧格式同构、字典序即时间序。
type ClockTime string

// Scan 读取 TIME 列并裁剪到分钟粒度
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = truncateClock(v)
	case []byte:
		*t = truncateClock(string(v))
	case time.Time:
		// 部分驱动将 TIME 解码为 time.Time
		*t = ClockTime(v.Format("15:04"))
	default:
		return fmt.Errorf("ClockTime.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 以 "HH:MM" 文本写入，PostgreSQL 按 TIME 解析
func (t ClockTime) Value() (driver.Value, error) {
	return string(t), nil
}

func truncateClock(s string) ClockTime {
	if len(s) > 5 {
		s = s[:5]
	}
	return ClockTime(s)
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
