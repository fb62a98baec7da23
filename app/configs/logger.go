package configs

import (
	"go.uber.org/zap"
)

func NewLogger(env ENV) (*zap.Logger, error) {
	if env.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
