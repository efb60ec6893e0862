package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"punchdesk/internal/clock"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义 binding 标签
//
//	hhmm  严格 HH:MM（24 小时制）
//	ymd   YYYY-MM-DD
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, _, err := clock.ParseHHMM(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			_, err := clock.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}
