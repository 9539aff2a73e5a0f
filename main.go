package main

import (
	// Embedded zone database so TIMEZONE resolves in minimal containers.
	_ "time/tzdata"

	"github.com/ikigai-ua/formrelay/cmd"
)

func main() {
	cmd.Execute()
}
