// cmd/clrgen-kmers/main.go
package main

import (
	"clrgen/internal/appshell"
	"clrgen/internal/kmerapp"
)

func main() { appshell.Main(kmerapp.RunContext) }
