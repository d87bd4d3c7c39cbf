package routes

import (
	"time"

	"formpool-service/controller"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func InitRoutes() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  time.Minute * 5,
		WriteTimeout: time.Minute * 5,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Access-Control-Allow-Headers, Authorization, X-Requested-With",
		AllowMethods: "*",
	}))

	v1 := app.Group("/api/v1/")
	v1.All("/service-status", controller.ServiceStatusCheck)
	v1.Get("/", controller.Index)
	v1.Post("/connect", controller.ConnectWallet)

	v1.Get("/forms", controller.GetForms)
	v1.Get("/forms/mine", controller.GetMyForms)
	v1.Post("/form", controller.CreateForm)
	v1.Get("/form/:formId", controller.GetFormData)
	v1.Post("/form/:formId/deposit", controller.DepositPrize)
	v1.Post("/form/:formId/submit", controller.SubmitForm)
	v1.Post("/form/:formId/close", controller.CloseForm)

	v1.Post("/form/:formId/distribute", controller.DistributePrizes)
	v1.Post("/form/:formId/claim", controller.CheckAndClaimPrize)
	v1.Get("/form/:formId/winners", controller.GetWinners)

	v1.Get("/form/:formId/participants", controller.GetParticipants)
	v1.Get("/form/:formId/participants/export", controller.ExportParticipants)
	v1.Get("/form/:formId/payouts", controller.GetPayouts)
	v1.Get("/submissions", controller.GetMySubmissions)
	return app
}
