package rest

import (
	domainActivity "github.com/AzielCF/az-reply/domains/activity"
	"github.com/AzielCF/az-reply/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Activity struct {
	Service domainActivity.IActivityUsecase
}

func InitRestActivity(app fiber.Router, service domainActivity.IActivityUsecase) Activity {
	rest := Activity{Service: service}
	app.Get("/activity", rest.List)
	app.Delete("/activity", rest.Clear)

	return rest
}

func (handler *Activity) List(c *fiber.Ctx) error {
	entries := handler.Service.List()

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Activity log fetched",
		Results: entries,
	})
}

func (handler *Activity) Clear(c *fiber.Ctx) error {
	handler.Service.Clear()

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Activity log cleared",
		Results: nil,
	})
}
