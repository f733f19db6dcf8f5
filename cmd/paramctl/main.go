package main

import "github.com/majidaldo/param/internal/cli"

func main() {
	cli.Execute()
}
