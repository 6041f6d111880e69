package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/Astemirdum/library-management/library/app"
	"github.com/Astemirdum/library-management/library/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// @title Library management API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
