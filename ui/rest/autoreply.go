package rest

import (
	"github.com/AzielCF/az-reply/config"
	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
	domainRule "github.com/AzielCF/az-reply/domains/rule"
	"github.com/AzielCF/az-reply/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AutoReply struct {
	Service     domainAutoReply.IAutoReplyUsecase
	RuleService domainRule.IRuleUsecase
}

func InitRestAutoReply(app fiber.Router, service domainAutoReply.IAutoReplyUsecase, ruleService domainRule.IRuleUsecase) AutoReply {
	rest := AutoReply{Service: service, RuleService: ruleService}
	app.Get("/autoreply/settings", rest.GetSettings)
	app.Put("/autoreply/settings", rest.UpdateSettings)
	app.Post("/autoreply/simulate", rest.Simulate)

	return rest
}

type updateSettingsRequest struct {
	AIReplyEnabled *bool `json:"ai_reply_enabled"`
}

type simulateRequest struct {
	Message string `json:"message"`
}

func (handler *AutoReply) GetSettings(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Auto-reply settings",
		Results: map[string]any{
			"ai_reply_enabled": config.AIReplyEnabled,
			"ai_provider":      config.AIProvider,
			"ai_model":         config.AIModel,
		},
	})
}

func (handler *AutoReply) UpdateSettings(c *fiber.Ctx) error {
	var request updateSettingsRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	if request.AIReplyEnabled != nil {
		utils.PanicIfNeeded(config.SaveAIReplyEnabled(*request.AIReplyEnabled))
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Auto-reply settings updated",
		Results: map[string]any{
			"ai_reply_enabled": config.AIReplyEnabled,
		},
	})
}

// Simulate runs the routing pipeline against the current rule set without
// touching the WhatsApp connection. Useful for testing rules before going
// live.
func (handler *AutoReply) Simulate(c *fiber.Ctx) error {
	var request simulateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	outcome := handler.Service.Route(c.UserContext(), domainAutoReply.RouteInput{
		Message:         request.Message,
		Rules:           handler.RuleService.List(c.UserContext()),
		AIEnabled:       config.AIReplyEnabled,
		ConnectionReady: true,
	})

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Simulation complete",
		Results: outcome,
	})
}
