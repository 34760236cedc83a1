package main

import (
	"os"

	"github.com/phillarmonic/crush/cmd/crush/app"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(app.NewApp(version, commit, date).Execute())
}
