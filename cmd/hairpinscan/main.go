// cmd/hairpinscan/main.go
package main

import (
	"hairpinscan/internal/app"
	"hairpinscan/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
