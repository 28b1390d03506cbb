package main

import (
	"github.com/chinmay1088/gasline/cmd"
	"github.com/chinmay1088/gasline/config"
)

func main() {
	if err := cmd.Execute(); err != nil {
		config.Exitf("Error: %v", err)
	}
}
