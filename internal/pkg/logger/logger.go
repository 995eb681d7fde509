package logger

import (
	"go.uber.org/zap"
)

var defaultLogger *zap.Logger

// Initialize cria o logger padrão: JSON em produção, console legível nos demais ambientes.
func Initialize(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		l = zap.NewNop()
	}

	defaultLogger = l
	zap.ReplaceGlobals(l)
	return l
}

// Get devolve o logger padrão, inicializando em modo desenvolvimento se preciso.
func Get() *zap.Logger {
	if defaultLogger == nil {
		return Initialize("development")
	}
	return defaultLogger
}

// NewServiceLogger cria um logger identificado pelo nome do componente.
func NewServiceLogger(serviceName string) *zap.Logger {
	return Get().With(zap.String("service", serviceName))
}
