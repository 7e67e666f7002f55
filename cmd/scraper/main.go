package main

import (
	"farescan-backend/cmd/scraper/commands"
	"farescan-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
