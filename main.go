package main

import "wefund/cmd"

func main() {
	cmd.Execute()
}
