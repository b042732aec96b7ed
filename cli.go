//go:build cli
// +build cli

package main

import (
	_ "backoffice.GO/cron/jobs"
	_ "backoffice.GO/custom"

	"backoffice.GO/cmd"
	"backoffice.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
