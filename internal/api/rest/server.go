package rest

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

// maxUploadBytes лимит тела запроса: снимок карты с телефона.
const maxUploadBytes = 32 * 1024 * 1024

func NewFiber() *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               "Card Grader",
			BodyLimit:             maxUploadBytes,
			StrictRouting:         true,
			CaseSensitive:         true,
			DisableStartupMessage: true,
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
		})

	return app
}
