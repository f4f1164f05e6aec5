package main

import "remo-monitor/internal/cli"

func main() {
	cli.Execute()
}
