package handler

import (
	"sync"

	"blindtasting/internal/microservices/http-api/service"
	"blindtasting/internal/report"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators adds the "slug" and "tasting_status" binding tags.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return service.IsValidSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("tasting_status", func(fl validator.FieldLevel) bool {
			return report.Status(fl.Field().String()).Valid()
		})
	})
}
