package audits

import (
	"time"

	"philcali.me/groceries/internal/data"
)

type Audit struct {
	Id           string    `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceId   string    `json:"resourceId"`
	Message      string    `json:"message"`
	CreateTime   time.Time `json:"createTime"`
}

func NewAudit(audit data.AuditDTO) Audit {
	return Audit{
		Id:           audit.ID,
		Action:       audit.Action,
		ResourceType: audit.ResourceType,
		ResourceId:   audit.ResourceId,
		Message:      audit.Message,
		CreateTime:   audit.CreateTime,
	}
}
