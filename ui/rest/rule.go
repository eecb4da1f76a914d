package rest

import (
	domainRule "github.com/AzielCF/az-reply/domains/rule"
	"github.com/AzielCF/az-reply/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Rule struct {
	Service domainRule.IRuleUsecase
}

func InitRestRule(app fiber.Router, service domainRule.IRuleUsecase) Rule {
	rest := Rule{Service: service}
	app.Get("/rules", rest.List)
	app.Post("/rules", rest.Create)
	app.Delete("/rules/:id", rest.Delete)

	return rest
}

func (handler *Rule) List(c *fiber.Ctx) error {
	rules := handler.Service.List(c.UserContext())

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Rules fetched",
		Results: rules,
	})
}

func (handler *Rule) Create(c *fiber.Ctx) error {
	var request domainRule.CreateRuleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	rule, err := handler.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  201,
		Code:    "SUCCESS",
		Message: "Rule created",
		Results: rule,
	})
}

func (handler *Rule) Delete(c *fiber.Ctx) error {
	err := handler.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Rule deleted",
		Results: nil,
	})
}
