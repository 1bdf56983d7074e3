package controllers

import (
	"context"

	"github.com/blogem/crud-audit/crud"
	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/services"
)

// TeamController handles team management requests
type TeamController struct {
	*ResourceController[*models.TeamMember]
}

// NewTeamController creates a new team controller whose mutations are audited
func NewTeamController(services *services.Services, inTx crud.TxRunner) *TeamController {
	viewSet := &crud.ViewSet[*models.TeamMember, models.TeamMemberForm]{
		Get:    services.Team.GetMemberByID,
		Insert: services.Team.CreateMember,
		Change: services.Team.UpdateMember,
		Remove: services.Team.DeleteMember,
	}

	list := func(ctx context.Context) ([]*models.TeamMember, error) {
		members, err := services.Team.GetAllMembers(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]*models.TeamMember, len(members))
		for i := range members {
			items[i] = &members[i]
		}
		return items, nil
	}

	return &TeamController{
		ResourceController: NewResourceController(crud.WithAudit[*models.TeamMember](viewSet, services.Audit), list, inTx),
	}
}
