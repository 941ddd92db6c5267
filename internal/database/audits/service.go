package audits

import (
	"time"

	"gorm.io/gorm"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/exceptions"
)

func NewAuditService(db *gorm.DB, marshaler token.TokenMarshaler) data.AuditRepository {
	return &services.RepositoryService[data.AuditDTO, data.AuditInputDTO]{
		DB:             db,
		TokenMarshaler: marshaler,
		Name:           "Audit",
		Order:          "create_time DESC, id",
		Filters: map[string]func(*gorm.DB, string) *gorm.DB{
			"resourceId": func(query *gorm.DB, value string) *gorm.DB {
				return query.Where("resource_id = ?", value)
			},
			"resourceType": func(query *gorm.DB, value string) *gorm.DB {
				return query.Where("resource_type = ?", value)
			},
		},
		OnCreate: func(aid data.AuditInputDTO, t time.Time, id string) (data.AuditDTO, error) {
			if aid.ResourceId == nil || aid.ResourceType == nil || aid.Action == nil {
				return data.AuditDTO{}, exceptions.InvalidInput("An audit requires a resource and an action")
			}
			audit := data.AuditDTO{
				ID:           id,
				ResourceId:   *aid.ResourceId,
				ResourceType: *aid.ResourceType,
				Action:       *aid.Action,
				CreateTime:   t,
			}
			if aid.Message != nil {
				audit.Message = *aid.Message
			}
			return audit, nil
		},
	}
}
