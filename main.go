package main

import "github.com/jobtrack/backend/cmd"

func main() {
	cmd.Execute()
}
