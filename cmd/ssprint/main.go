package main

import "github.com/mcoot/shadowsprint/internal/cli"

func main() {
	cli.Execute()
}
