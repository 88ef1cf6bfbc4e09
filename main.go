package main

import "github.com/chriserin/tgherkin/cmd"

func main() {
	cmd.Execute()
}
