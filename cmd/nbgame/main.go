package main

import (
	"github.com/sanghyxuk/number-baseball/internal/cli"
)

func main() {
	cli.Execute()
}
