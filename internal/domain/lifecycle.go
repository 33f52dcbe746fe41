package domain

import "time"

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Lifecycle 软删除状态：status 与 deleted_at 同时维护
type Lifecycle struct {
	Status    Status     `gorm:"size:16;not null;default:active;index" json:"status"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Life 嵌入后让实体满足 service 的泛型约束
func (l *Lifecycle) Life() *Lifecycle { return l }

func (l Lifecycle) IsActive() bool { return l.Status == StatusActive }

func (l *Lifecycle) MarkDeleted(now time.Time) {
	l.Status = StatusDeleted
	l.DeletedAt = &now
}

func (l *Lifecycle) Restore() {
	l.Status = StatusActive
	l.DeletedAt = nil
}

func ActiveLifecycle() Lifecycle { return Lifecycle{Status: StatusActive} }
