package main

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"

	"github.com/feastly/draw-engine/internal/bootstrap"
)

func main() {
	libCommons.InitLocalEnvConfig()
	bootstrap.InitServers().Run()
}
