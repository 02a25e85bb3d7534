package main

import "github.com/devicelab-dev/mobile-login-tests/pkg/cli"

func main() {
	cli.Execute()
}
