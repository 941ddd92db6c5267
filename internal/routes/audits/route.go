package audits

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/util"
)

type AuditService struct {
	data data.AuditRepository
}

func NewRoute(data data.AuditRepository) routes.Service {
	return &AuditService{
		data: data,
	}
}

func (as *AuditService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/audits":             as.ListAudits,
		"DELETE:/audits/:auditId": as.DeleteAudit,
	}
}

func (as *AuditService) ListAudits(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList(as.data.List, NewAudit, event, ctx, "resourceId", "resourceType")
}

func (as *AuditService) DeleteAudit(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	err := as.data.Delete(ctx, util.RequestParam(ctx, "auditId"))
	return util.SerializeResponseNoContent(err)
}
