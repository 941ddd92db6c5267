package data

import "time"

type AuditDTO struct {
	ID           string `gorm:"primaryKey"`
	ResourceId   string `gorm:"not null"`
	ResourceType string `gorm:"not null"`
	Action       string `gorm:"not null"`
	Message      string `gorm:"not null"`
	CreateTime   time.Time
}

func (AuditDTO) TableName() string {
	return "audits"
}

type AuditInputDTO struct {
	ResourceId   *string
	ResourceType *string
	Action       *string
	Message      *string
}

type AuditRepository interface {
	Repository[AuditDTO, AuditInputDTO]
}
