package main

import (
	"github/veilport/go-wallet/cmd"
)

func main() {
	cmd.Execute()
}
