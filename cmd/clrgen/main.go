// cmd/clrgen/main.go
package main

import (
	"clrgen/internal/app"
	"clrgen/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
