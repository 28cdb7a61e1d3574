// Command server runs the memory service's HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/yungbote/neurobridge-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	fmt.Printf("server listening on :%s\n", a.Cfg.Port)
	if err := a.Run(); err != nil {
		a.Log.Warn("server exited", "error", err.Error())
		os.Exit(1)
	}
}
