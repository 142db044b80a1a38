package main

import "github.com/phenosnp/phenosnp/pkg/cli"

func main() {
	cli.Execute()
}
