package main

import "github.com/kailas-cloud/hitreport/internal/cli"

func main() {
	cli.Execute()
}
