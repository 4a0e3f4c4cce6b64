package main

import "vehicle-tax/cli"

func main() {
	cli.Execute()
}
